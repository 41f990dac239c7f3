package services

import (
	"context"
	"errors"
	"testing"

	"masterokBack/internal/fsm"
	"masterokBack/internal/geo"
	"masterokBack/internal/models"
)

type fakeGeocoder struct {
	result geo.GeocodeResult
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, query string) (geo.GeocodeResult, error) {
	f.calls++
	return f.result, f.err
}

func newRequestFixture() (*RepairRequestService, *fakeRequestRepo, *fakeResponseRepo, *fakePriceRepo, *fakeGeocoder, *fakeListRepo) {
	requests := newFakeRequestRepo()
	responses := newFakeResponseRepo(requests)
	prices := &fakePriceRepo{}
	geocoder := &fakeGeocoder{result: geo.GeocodeResult{Latitude: 43.25, Longitude: 76.95, FullAddress: "Алматы, ул. Абая 10"}}
	lists := newFakeListRepo()
	svc := &RepairRequestService{
		RequestRepo:  requests,
		PriceRepo:    prices,
		ResponseRepo: responses,
		Geocoder:     geocoder,
		Lists:        &UserListService{ListRepo: lists},
		Activity:     &ActivityService{ActivityRepo: &fakeActivityRepo{}},
	}
	return svc, requests, responses, prices, geocoder, lists
}

func TestCreateRequest(t *testing.T) {
	svc, _, _, prices, geocoder, _ := newRequestFixture()
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, models.RepairRequest{
		Title:       "Холодильник не морозит",
		Description: "Нужна замена компрессора",
		DeviceType:  models.DeviceFridge,
		Address:     "ул. Абая 10",
		CreatedBy:   1,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if created.Status != fsm.RequestNew {
		t.Fatalf("status = %s, want new", created.Status)
	}
	// замена + компрессор score 6 -> 30000 * 1.6
	if created.PredictedPrice == nil || *created.PredictedPrice != 48000 {
		t.Fatalf("predicted price = %v, want 48000", created.PredictedPrice)
	}
	if created.PredictionConfidence == nil || *created.PredictionConfidence != 0.3 {
		t.Fatalf("confidence = %v, want 0.3", created.PredictionConfidence)
	}
	if geocoder.calls != 1 {
		t.Fatalf("geocoder calls = %d, want 1", geocoder.calls)
	}
	if created.Latitude == nil || *created.Latitude != 43.25 {
		t.Fatalf("latitude = %v, want 43.25", created.Latitude)
	}
	if created.Address != "Алматы, ул. Абая 10" {
		t.Fatalf("address not normalized: %q", created.Address)
	}
	if len(prices.history) != 1 {
		t.Fatalf("price history records = %d, want 1", len(prices.history))
	}
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _, _, _, _, _ := newRequestFixture()
	ctx := context.Background()

	_, err := svc.CreateRequest(ctx, models.RepairRequest{Title: " ", Description: "x", DeviceType: models.DeviceOther, CreatedBy: 1})
	if !errors.Is(err, models.ErrMissingFields) {
		t.Fatalf("blank title: expected ErrMissingFields, got %v", err)
	}
	_, err = svc.CreateRequest(ctx, models.RepairRequest{Title: "t", Description: "d", DeviceType: "teapot", CreatedBy: 1})
	if !errors.Is(err, models.ErrUnknownDeviceType) {
		t.Fatalf("unknown device: expected ErrUnknownDeviceType, got %v", err)
	}
}

func TestCreateRequestGeocoderFailureIsNotFatal(t *testing.T) {
	svc, _, _, _, geocoder, _ := newRequestFixture()
	geocoder.err = errors.New("2gis unavailable")

	created, err := svc.CreateRequest(context.Background(), models.RepairRequest{
		Title: "Посудомойка шумит", Description: "Фильтр забит",
		DeviceType: models.DeviceDishwasher, Address: "пр. Достык 5", CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if created.Latitude != nil {
		t.Fatalf("coordinates should stay empty when geocoding fails")
	}
}

func TestUpdateRequestOwnerAndStatus(t *testing.T) {
	svc, requests, responses, _, _, _ := newRequestFixture()
	ctx := context.Background()
	req, _ := requests.Create(ctx, models.RepairRequest{
		Title: "Духовка", Description: "Не греет", DeviceType: models.DeviceOven,
		Status: fsm.RequestNew, CreatedBy: 1,
	})

	if _, err := svc.UpdateRequest(ctx, 2, models.RepairRequest{ID: req.ID, Title: "Чужая правка"}); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("stranger edit: expected ErrForbidden, got %v", err)
	}

	updated, err := svc.UpdateRequest(ctx, 1, models.RepairRequest{ID: req.ID, Title: "Духовка Bosch"})
	if err != nil {
		t.Fatalf("owner edit: %v", err)
	}
	if updated.Title != "Духовка Bosch" {
		t.Fatalf("title = %q", updated.Title)
	}
	if updated.Description != "Не греет" {
		t.Fatalf("untouched fields must be preserved, got %q", updated.Description)
	}

	resp, _ := responses.Create(ctx, models.Response{RepairRequestID: req.ID, WorkerID: 5, Message: "Возьмусь", Status: fsm.ResponseSent})
	if err := responses.Accept(ctx, resp.ID, req.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.UpdateRequest(ctx, 1, models.RepairRequest{ID: req.ID, Title: "Поздно"}); !errors.Is(err, models.ErrInvalidTransition) {
		t.Fatalf("edit after accept: expected ErrInvalidTransition, got %v", err)
	}
}

func TestCompleteRequest(t *testing.T) {
	svc, requests, responses, prices, _, lists := newRequestFixture()
	ctx := context.Background()
	req, _ := requests.Create(ctx, models.RepairRequest{
		Title: "Стиралка", Description: "Течет", DeviceType: models.DeviceWasher,
		Status: fsm.RequestNew, CreatedBy: 1,
	})
	prices.Create(ctx, models.PriceHistory{RepairRequestID: req.ID, DeviceType: req.DeviceType})
	resp, _ := responses.Create(ctx, models.Response{RepairRequestID: req.ID, WorkerID: 5, Message: "Возьмусь", Status: fsm.ResponseSent})
	if err := responses.Accept(ctx, resp.ID, req.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	lists.AddItem(ctx, 5, models.ListApplied, req.ID, "")

	if _, err := svc.CompleteRequest(ctx, 3, req.ID, nil); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("stranger complete: expected ErrForbidden, got %v", err)
	}

	price := 42000.0
	done, err := svc.CompleteRequest(ctx, 5, req.ID, &price)
	if err != nil {
		t.Fatalf("accepted worker complete: %v", err)
	}
	if done.Status != fsm.RequestCompleted {
		t.Fatalf("status = %s, want completed", done.Status)
	}
	if done.FinalPrice == nil || *done.FinalPrice != 42000 {
		t.Fatalf("final price = %v, want 42000", done.FinalPrice)
	}
	if prices.history[0].FinalPrice == nil || *prices.history[0].FinalPrice != 42000 {
		t.Fatalf("price history must record the final price")
	}
	inCompleted, _ := lists.IsInList(ctx, 5, req.ID, models.ListCompleted)
	if !inCompleted {
		t.Fatalf("worker's item should move to the completed list")
	}

	if _, err := svc.CompleteRequest(ctx, 1, req.ID, nil); !errors.Is(err, models.ErrRequestConflict) {
		t.Fatalf("double complete: expected ErrRequestConflict, got %v", err)
	}
}

func TestCancelRequest(t *testing.T) {
	svc, requests, responses, _, _, _ := newRequestFixture()
	ctx := context.Background()
	req, _ := requests.Create(ctx, models.RepairRequest{
		Title: "Посудомойка", Description: "Засор", DeviceType: models.DeviceDishwasher,
		Status: fsm.RequestNew, CreatedBy: 1,
	})

	cancelled, err := svc.CancelRequest(ctx, 1, req.ID)
	if err != nil {
		t.Fatalf("CancelRequest: %v", err)
	}
	if cancelled.Status != fsm.RequestCancelled {
		t.Fatalf("status = %s, want cancelled", cancelled.Status)
	}

	active, _ := requests.Create(ctx, models.RepairRequest{
		Title: "Другая", Description: "x", DeviceType: models.DeviceOther,
		Status: fsm.RequestNew, CreatedBy: 1,
	})
	resp, _ := responses.Create(ctx, models.Response{RepairRequestID: active.ID, WorkerID: 5, Message: "Возьмусь", Status: fsm.ResponseSent})
	if err := responses.Accept(ctx, resp.ID, active.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.CancelRequest(ctx, 1, active.ID); !errors.Is(err, models.ErrRequestConflict) {
		t.Fatalf("cancel active: expected ErrRequestConflict, got %v", err)
	}
}

func TestSetFinalPriceRequiresCompleted(t *testing.T) {
	svc, requests, _, prices, _, _ := newRequestFixture()
	ctx := context.Background()
	req, _ := requests.Create(ctx, models.RepairRequest{
		Title: "Холодильник", Description: "Шумит", DeviceType: models.DeviceFridge,
		Status: fsm.RequestNew, CreatedBy: 1,
	})
	prices.Create(ctx, models.PriceHistory{RepairRequestID: req.ID})

	if err := svc.SetFinalPrice(ctx, 1, req.ID, 10000); !errors.Is(err, models.ErrRequestNotCompleted) {
		t.Fatalf("expected ErrRequestNotCompleted, got %v", err)
	}

	requests.UpdateStatus(ctx, req.ID, fsm.RequestNew, fsm.RequestActive)
	requests.UpdateStatus(ctx, req.ID, fsm.RequestActive, fsm.RequestCompleted)
	if err := svc.SetFinalPrice(ctx, 1, req.ID, 10000); err != nil {
		t.Fatalf("SetFinalPrice: %v", err)
	}
	got, _ := requests.GetByID(ctx, req.ID)
	if got.FinalPrice == nil || *got.FinalPrice != 10000 {
		t.Fatalf("final price = %v, want 10000", got.FinalPrice)
	}
}

func TestDeleteRequestOwnerOnly(t *testing.T) {
	svc, requests, _, _, _, _ := newRequestFixture()
	ctx := context.Background()
	req, _ := requests.Create(ctx, models.RepairRequest{
		Title: "Прочее", Description: "x", DeviceType: models.DeviceOther,
		Status: fsm.RequestNew, CreatedBy: 1,
	})

	if err := svc.DeleteRequest(ctx, 2, req.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteRequest(ctx, 1, req.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := requests.GetByID(ctx, req.ID); !errors.Is(err, models.ErrRepairRequestNotFound) {
		t.Fatalf("expected request gone, got %v", err)
	}
}
