package repositories

import (
	"context"
	"database/sql"

	"masterokBack/internal/models"
)

type ActivityRepository struct {
	DB *sql.DB
}

func (r *ActivityRepository) Create(ctx context.Context, rec models.ActivityRecord) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO activity_log (actor_id, action, entity_type, entity_id, created_at) VALUES (?, ?, ?, ?, NOW())`,
		rec.ActorID, rec.Action, rec.EntityType, rec.EntityID)
	return err
}
