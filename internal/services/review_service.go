package services

import (
	"context"
	"log"
	"math"

	"masterokBack/internal/fsm"
	"masterokBack/internal/models"
)

type ReviewRepo interface {
	Upsert(ctx context.Context, rev models.Review) (models.Review, error)
	GetByWorker(ctx context.Context, workerID int) ([]models.Review, error)
	GetRatingsByWorker(ctx context.Context, workerID int) ([]int, error)
}

type WorkerRatingUpdater interface {
	UpdateWorkerRating(ctx context.Context, workerID int, rating float64) error
}

type ReviewService struct {
	ReviewRepo    ReviewRepo
	RequestRepo   RequestGetter
	ResponseRepo  AcceptedResponseGetter
	UserRepo      WorkerRatingUpdater
	Notifications *NotificationService
	Activity      *ActivityService
	ErrorLog      *log.Logger
}

// CreateReview lets the customer rate the accepted worker after completion.
// Resubmitting replaces the previous review rather than adding a second one.
func (s *ReviewService) CreateReview(ctx context.Context, rev models.Review) (models.Review, error) {
	if rev.Rating < 1 || rev.Rating > 5 {
		return models.Review{}, models.ErrInvalidRating
	}
	req, err := s.RequestRepo.GetByID(ctx, rev.RepairRequestID)
	if err != nil {
		return models.Review{}, err
	}
	if req.CreatedBy != rev.CustomerID {
		return models.Review{}, models.ErrForbidden
	}
	if req.Status != fsm.RequestCompleted {
		return models.Review{}, models.ErrRequestNotCompleted
	}
	accepted, err := s.ResponseRepo.GetAcceptedByRequest(ctx, rev.RepairRequestID)
	if err != nil {
		return models.Review{}, err
	}
	rev.WorkerID = accepted.WorkerID

	saved, err := s.ReviewRepo.Upsert(ctx, rev)
	if err != nil {
		return models.Review{}, err
	}

	if err := s.RecomputeRating(ctx, rev.WorkerID); err != nil {
		s.logError(err)
	}
	if err := s.Notifications.NotifyNewReview(ctx, rev.WorkerID, rev.Rating, req.Title); err != nil {
		s.logError(err)
	}
	s.Activity.Record(ctx, rev.CustomerID, "create_review", "review", saved.ID)
	return saved, nil
}

func (s *ReviewService) GetWorkerReviews(ctx context.Context, workerID int) ([]models.Review, error) {
	return s.ReviewRepo.GetByWorker(ctx, workerID)
}

// RecomputeRating recalculates the worker's aggregate as the arithmetic mean
// of all their review ratings, rounded to one decimal. No reviews means 0.0.
func (s *ReviewService) RecomputeRating(ctx context.Context, workerID int) error {
	ratings, err := s.ReviewRepo.GetRatingsByWorker(ctx, workerID)
	if err != nil {
		return err
	}
	aggregate := 0.0
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		aggregate = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	}
	return s.UserRepo.UpdateWorkerRating(ctx, workerID, aggregate)
}

func (s *ReviewService) logError(err error) {
	if s.ErrorLog != nil {
		s.ErrorLog.Println(err)
	}
}
