package services

import (
	"context"
	"fmt"
	"time"

	"masterokBack/internal/models"
)

type NotificationRepo interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
	GetByUser(ctx context.Context, userID int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID int) error
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type NotificationService struct {
	NotificationRepo NotificationRepo
}

func (s *NotificationService) NotifyNewResponse(ctx context.Context, customerID int, requestTitle, workerName string) error {
	_, err := s.NotificationRepo.Create(ctx, models.Notification{
		UserID:  customerID,
		Message: fmt.Sprintf("Новый отклик на вашу заявку «%s» от мастера %s", requestTitle, workerName),
		Type:    models.NotificationNewResponse,
	})
	return err
}

func (s *NotificationService) NotifyResponseAccepted(ctx context.Context, workerID int, requestTitle string) error {
	_, err := s.NotificationRepo.Create(ctx, models.Notification{
		UserID:  workerID,
		Message: fmt.Sprintf("Ваш отклик на заявку «%s» принят", requestTitle),
		Type:    models.NotificationResponseAccepted,
	})
	return err
}

func (s *NotificationService) NotifyNewReview(ctx context.Context, workerID, rating int, requestTitle string) error {
	_, err := s.NotificationRepo.Create(ctx, models.Notification{
		UserID:  workerID,
		Message: fmt.Sprintf("Новый отзыв с оценкой %d по заявке «%s»", rating, requestTitle),
		Type:    models.NotificationNewReview,
	})
	return err
}

func (s *NotificationService) GetUserNotifications(ctx context.Context, userID int) ([]models.Notification, error) {
	return s.NotificationRepo.GetByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int) error {
	return s.NotificationRepo.MarkRead(ctx, id, userID)
}

// CleanupRead purges read notifications older than maxAge.
func (s *NotificationService) CleanupRead(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.NotificationRepo.DeleteReadOlderThan(ctx, time.Now().Add(-maxAge))
}
