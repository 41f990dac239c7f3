package services

import (
	"context"
	"log"
	"strings"

	"masterokBack/internal/fsm"
	"masterokBack/internal/geo"
	"masterokBack/internal/models"
	"masterokBack/internal/pricing"
)

type RepairRequestRepo interface {
	Create(ctx context.Context, req models.RepairRequest) (models.RepairRequest, error)
	GetByID(ctx context.Context, id int) (models.RepairRequest, error)
	GetByUser(ctx context.Context, userID int) ([]models.RepairRequest, error)
	Search(ctx context.Context, filter models.RepairRequestFilter) ([]models.RepairRequest, error)
	Update(ctx context.Context, req models.RepairRequest) error
	SetCoordinates(ctx context.Context, id int, lat, lon float64, address string) error
	UpdateStatus(ctx context.Context, id int, fromStatus, toStatus string) error
	SetFinalPrice(ctx context.Context, id int, finalPrice float64) error
	Delete(ctx context.Context, id int) error
}

type PriceHistoryRepo interface {
	Create(ctx context.Context, h models.PriceHistory) error
	SetFinalPrice(ctx context.Context, requestID int, finalPrice float64) error
	Stats(ctx context.Context) (models.DataStats, error)
}

type AcceptedResponseGetter interface {
	GetAcceptedByRequest(ctx context.Context, requestID int) (models.Response, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, query string) (geo.GeocodeResult, error)
}

type RepairRequestService struct {
	RequestRepo  RepairRequestRepo
	PriceRepo    PriceHistoryRepo
	ResponseRepo AcceptedResponseGetter
	Geocoder     Geocoder
	Lists        *UserListService
	Activity     *ActivityService
	ErrorLog     *log.Logger
}

func (s *RepairRequestService) CreateRequest(ctx context.Context, req models.RepairRequest) (models.RepairRequest, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" || req.CreatedBy == 0 {
		return models.RepairRequest{}, models.ErrMissingFields
	}
	if !models.IsKnownDeviceType(req.DeviceType) {
		return models.RepairRequest{}, models.ErrUnknownDeviceType
	}

	req.Status = fsm.RequestNew
	prediction := pricing.Estimate(req.DeviceType, req.Description)
	req.PredictedPrice = &prediction.PredictedPrice
	req.PredictionConfidence = &prediction.Confidence

	if req.Latitude == nil && req.Address != "" && s.Geocoder != nil {
		result, err := s.Geocoder.Geocode(ctx, req.Address)
		if err != nil {
			s.logError(err)
		} else {
			req.Latitude = &result.Latitude
			req.Longitude = &result.Longitude
			if result.FullAddress != "" {
				req.Address = result.FullAddress
			}
		}
	}

	created, err := s.RequestRepo.Create(ctx, req)
	if err != nil {
		return models.RepairRequest{}, err
	}

	if err := s.PriceRepo.Create(ctx, models.PriceHistory{
		RepairRequestID:    created.ID,
		DeviceType:         created.DeviceType,
		ProblemDescription: created.Description,
	}); err != nil {
		s.logError(err)
	}

	s.Activity.Record(ctx, created.CreatedBy, "create_request", "repair_request", created.ID)
	return created, nil
}

func (s *RepairRequestService) GetRequest(ctx context.Context, id int) (models.RepairRequest, error) {
	return s.RequestRepo.GetByID(ctx, id)
}

func (s *RepairRequestService) GetUserRequests(ctx context.Context, userID int) ([]models.RepairRequest, error) {
	return s.RequestRepo.GetByUser(ctx, userID)
}

func (s *RepairRequestService) SearchRequests(ctx context.Context, filter models.RepairRequestFilter) ([]models.RepairRequest, error) {
	return s.RequestRepo.Search(ctx, filter)
}

// AvailableFilters lists the values the search form can offer.
func (s *RepairRequestService) AvailableFilters() map[string][]string {
	return map[string][]string{
		"device_types": models.DeviceTypes,
		"statuses":     {fsm.RequestNew, fsm.RequestActive, fsm.RequestCompleted, fsm.RequestCancelled},
	}
}

// UpdateRequest edits content fields. Only the owner may edit, and only while
// the request has not received an accepted response.
func (s *RepairRequestService) UpdateRequest(ctx context.Context, userID int, req models.RepairRequest) (models.RepairRequest, error) {
	existing, err := s.RequestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return models.RepairRequest{}, err
	}
	if existing.CreatedBy != userID {
		return models.RepairRequest{}, models.ErrForbidden
	}
	if existing.Status != fsm.RequestNew {
		return models.RepairRequest{}, models.ErrInvalidTransition
	}
	if req.DeviceType != "" && !models.IsKnownDeviceType(req.DeviceType) {
		return models.RepairRequest{}, models.ErrUnknownDeviceType
	}
	if req.Title == "" {
		req.Title = existing.Title
	}
	if req.Description == "" {
		req.Description = existing.Description
	}
	if req.DeviceType == "" {
		req.DeviceType = existing.DeviceType
	}
	if req.Address == "" {
		req.Address = existing.Address
	}
	if req.DesiredCompletionDate == nil {
		req.DesiredCompletionDate = existing.DesiredCompletionDate
	}
	if err := s.RequestRepo.Update(ctx, req); err != nil {
		return models.RepairRequest{}, err
	}
	return s.RequestRepo.GetByID(ctx, req.ID)
}

// CompleteRequest moves an active request to completed. Allowed for the owner
// and for the worker whose response was accepted.
func (s *RepairRequestService) CompleteRequest(ctx context.Context, userID, requestID int, finalPrice *float64) (models.RepairRequest, error) {
	req, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return models.RepairRequest{}, err
	}

	accepted, acceptedErr := s.ResponseRepo.GetAcceptedByRequest(ctx, requestID)
	allowed := req.CreatedBy == userID
	if !allowed && acceptedErr == nil && accepted.WorkerID == userID {
		allowed = true
	}
	if !allowed {
		return models.RepairRequest{}, models.ErrForbidden
	}

	err = s.RequestRepo.UpdateStatus(ctx, requestID, fsm.RequestActive, fsm.RequestCompleted)
	if err != nil {
		return models.RepairRequest{}, err
	}

	if finalPrice != nil {
		if err := s.RequestRepo.SetFinalPrice(ctx, requestID, *finalPrice); err != nil {
			s.logError(err)
		}
		if err := s.PriceRepo.SetFinalPrice(ctx, requestID, *finalPrice); err != nil {
			s.logError(err)
		}
	}

	if acceptedErr == nil && s.Lists != nil {
		s.Lists.AutoComplete(ctx, accepted.WorkerID, requestID)
	}

	s.Activity.Record(ctx, userID, "complete_request", "repair_request", requestID)
	return s.RequestRepo.GetByID(ctx, requestID)
}

// CancelRequest cancels a request that has not been taken yet. Owner only.
func (s *RepairRequestService) CancelRequest(ctx context.Context, userID, requestID int) (models.RepairRequest, error) {
	req, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return models.RepairRequest{}, err
	}
	if req.CreatedBy != userID {
		return models.RepairRequest{}, models.ErrForbidden
	}
	err = s.RequestRepo.UpdateStatus(ctx, requestID, fsm.RequestNew, fsm.RequestCancelled)
	if err != nil {
		return models.RepairRequest{}, err
	}
	s.Activity.Record(ctx, userID, "cancel_request", "repair_request", requestID)
	return s.RequestRepo.GetByID(ctx, requestID)
}

func (s *RepairRequestService) DeleteRequest(ctx context.Context, userID, requestID int) error {
	req, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.CreatedBy != userID {
		return models.ErrForbidden
	}
	if err := s.RequestRepo.Delete(ctx, requestID); err != nil {
		return err
	}
	s.Activity.Record(ctx, userID, "delete_request", "repair_request", requestID)
	return nil
}

// SetFinalPrice records the agreed price on an already completed request.
func (s *RepairRequestService) SetFinalPrice(ctx context.Context, userID, requestID int, finalPrice float64) error {
	req, err := s.RequestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.CreatedBy != userID {
		return models.ErrForbidden
	}
	if req.Status != fsm.RequestCompleted {
		return models.ErrRequestNotCompleted
	}
	if err := s.RequestRepo.SetFinalPrice(ctx, requestID, finalPrice); err != nil {
		return err
	}
	if err := s.PriceRepo.SetFinalPrice(ctx, requestID, finalPrice); err != nil {
		s.logError(err)
	}
	return nil
}

func (s *RepairRequestService) logError(err error) {
	if s.ErrorLog != nil {
		s.ErrorLog.Println(err)
	}
}
