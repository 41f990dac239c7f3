package services

import (
	"context"
	"log"

	"masterokBack/internal/models"
)

type ActivityRepo interface {
	Create(ctx context.Context, rec models.ActivityRecord) error
}

// ActivityService appends audit records. Failures are logged and dropped so
// the audit trail never blocks the operation it describes.
type ActivityService struct {
	ActivityRepo ActivityRepo
	ErrorLog     *log.Logger
}

func (s *ActivityService) Record(ctx context.Context, actorID int, action, entityType string, entityID int) {
	if s == nil || s.ActivityRepo == nil {
		return
	}
	err := s.ActivityRepo.Create(ctx, models.ActivityRecord{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	})
	if err != nil && s.ErrorLog != nil {
		s.ErrorLog.Println(err)
	}
}
