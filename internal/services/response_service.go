package services

import (
	"context"
	"log"
	"strings"

	"masterokBack/internal/fsm"
	"masterokBack/internal/models"
)

type ResponseRepo interface {
	Create(ctx context.Context, resp models.Response) (models.Response, error)
	GetByID(ctx context.Context, id int) (models.Response, error)
	GetByRequest(ctx context.Context, requestID int) ([]models.Response, error)
	GetByWorker(ctx context.Context, workerID int) ([]models.Response, error)
	HasResponded(ctx context.Context, requestID, workerID int) (bool, error)
	GetAcceptedByRequest(ctx context.Context, requestID int) (models.Response, error)
	Accept(ctx context.Context, responseID, requestID int) error
}

type RequestGetter interface {
	GetByID(ctx context.Context, id int) (models.RepairRequest, error)
}

type UserGetter interface {
	GetUserByID(ctx context.Context, id int) (models.User, error)
}

type ResponseService struct {
	ResponseRepo  ResponseRepo
	RequestRepo   RequestGetter
	UserRepo      UserGetter
	Notifications *NotificationService
	Lists         *UserListService
	Activity      *ActivityService
	ErrorLog      *log.Logger
}

// SubmitResponse creates a worker's offer on an open request. Duplicate
// submissions by the same worker are rejected, as are responses to
// one's own request.
func (s *ResponseService) SubmitResponse(ctx context.Context, resp models.Response) (models.Response, error) {
	resp.Message = strings.TrimSpace(resp.Message)
	if resp.Message == "" || resp.RepairRequestID == 0 || resp.WorkerID == 0 {
		return models.Response{}, models.ErrMissingFields
	}

	req, err := s.RequestRepo.GetByID(ctx, resp.RepairRequestID)
	if err != nil {
		return models.Response{}, err
	}
	if req.CreatedBy == resp.WorkerID {
		return models.Response{}, models.ErrOwnRequestResponse
	}

	// Статус заявки здесь не проверяем: отклики принимаются и на занятые
	// заявки, выиграть может всё равно только один через AcceptResponse.
	resp.Status = fsm.ResponseSent
	created, err := s.ResponseRepo.Create(ctx, resp)
	if err != nil {
		return models.Response{}, err
	}

	workerName := created.WorkerName
	if workerName == "" && s.UserRepo != nil {
		worker, err := s.UserRepo.GetUserByID(ctx, created.WorkerID)
		if err == nil {
			workerName = worker.Name
		}
	}
	if err := s.Notifications.NotifyNewResponse(ctx, req.CreatedBy, req.Title, workerName); err != nil {
		s.logError(err)
	}
	if s.Lists != nil {
		s.Lists.AutoWatch(ctx, created.WorkerID, created.RepairRequestID)
	}
	s.Activity.Record(ctx, created.WorkerID, "submit_response", "response", created.ID)
	return created, nil
}

// AcceptResponse is the customer's choice of a worker. Exactly one response
// wins; concurrent accepts lose with ErrRequestConflict. Siblings are
// rejected in the same transaction.
func (s *ResponseService) AcceptResponse(ctx context.Context, customerID, responseID int) (models.Response, error) {
	resp, err := s.ResponseRepo.GetByID(ctx, responseID)
	if err != nil {
		return models.Response{}, err
	}
	req, err := s.RequestRepo.GetByID(ctx, resp.RepairRequestID)
	if err != nil {
		return models.Response{}, err
	}
	if req.CreatedBy != customerID {
		return models.Response{}, models.ErrForbidden
	}

	if err := s.ResponseRepo.Accept(ctx, responseID, resp.RepairRequestID); err != nil {
		return models.Response{}, err
	}

	if err := s.Notifications.NotifyResponseAccepted(ctx, resp.WorkerID, req.Title); err != nil {
		s.logError(err)
	}
	if s.Lists != nil {
		s.Lists.AutoApply(ctx, resp.WorkerID, resp.RepairRequestID)
	}
	s.Activity.Record(ctx, customerID, "accept_response", "response", responseID)
	return s.ResponseRepo.GetByID(ctx, responseID)
}

// GetResponsesForRequest is visible to the request owner and to workers who
// have responded themselves.
func (s *ResponseService) GetResponsesForRequest(ctx context.Context, userID, requestID int) ([]models.Response, error) {
	req, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != userID {
		responded, err := s.ResponseRepo.HasResponded(ctx, requestID, userID)
		if err != nil {
			return nil, err
		}
		if !responded {
			return nil, models.ErrForbidden
		}
	}
	return s.ResponseRepo.GetByRequest(ctx, requestID)
}

func (s *ResponseService) GetWorkerResponses(ctx context.Context, workerID int) ([]models.Response, error) {
	return s.ResponseRepo.GetByWorker(ctx, workerID)
}

func (s *ResponseService) logError(err error) {
	if s.ErrorLog != nil {
		s.ErrorLog.Println(err)
	}
}
