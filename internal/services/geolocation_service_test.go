package services

import (
	"context"
	"errors"
	"testing"

	"masterokBack/internal/geo"
	"masterokBack/internal/models"
)

func newGeoFixture() (*GeolocationService, *fakeLocationRepo, *fakeUserRepo, *fakeGeocoder) {
	locations := newFakeLocationRepo()
	users := newFakeUserRepo()
	geocoder := &fakeGeocoder{}
	svc := &GeolocationService{
		LocationRepo: locations,
		UserRepo:     users,
		Geocoder:     geocoder,
	}
	return svc, locations, users, geocoder
}

func floatPtr(v float64) *float64 { return &v }

func TestUpdateUserLocationWithCoordinates(t *testing.T) {
	svc, _, users, geocoder := newGeoFixture()
	users.users[1] = models.User{ID: 1, Role: models.RoleCustomer}

	loc, err := svc.UpdateUserLocation(context.Background(), models.UserLocation{
		UserID: 1, Latitude: floatPtr(43.25), Longitude: floatPtr(76.95), City: "Алматы",
	})
	if err != nil {
		t.Fatalf("UpdateUserLocation: %v", err)
	}
	if geocoder.calls != 0 {
		t.Fatalf("coordinates given, geocoder must not be called")
	}
	if loc.Latitude == nil || *loc.Latitude != 43.25 {
		t.Fatalf("stored latitude = %v", loc.Latitude)
	}
}

func TestUpdateUserLocationGeocodesAddress(t *testing.T) {
	svc, _, users, geocoder := newGeoFixture()
	users.users[1] = models.User{ID: 1, Role: models.RoleCustomer}
	geocoder.result.Latitude = 51.12
	geocoder.result.Longitude = 71.43
	geocoder.result.FullAddress = "Астана, пр. Мангилик Ел 20"

	loc, err := svc.UpdateUserLocation(context.Background(), models.UserLocation{
		UserID: 1, Address: "Мангилик Ел 20", City: "Астана",
	})
	if err != nil {
		t.Fatalf("UpdateUserLocation: %v", err)
	}
	if geocoder.calls != 1 {
		t.Fatalf("geocoder calls = %d, want 1", geocoder.calls)
	}
	if loc.Latitude == nil || *loc.Latitude != 51.12 {
		t.Fatalf("latitude = %v, want geocoded 51.12", loc.Latitude)
	}
	if loc.Address != "Астана, пр. Мангилик Ел 20" {
		t.Fatalf("address = %q, want normalized", loc.Address)
	}
}

func TestUpdateUserLocationNothingToStore(t *testing.T) {
	svc, _, _, _ := newGeoFixture()
	_, err := svc.UpdateUserLocation(context.Background(), models.UserLocation{UserID: 1})
	if !errors.Is(err, models.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestNearbyWorkersRanking(t *testing.T) {
	svc, locations, _, _ := newGeoFixture()
	ctx := context.Background()

	locations.Upsert(ctx, models.UserLocation{UserID: 1, Latitude: floatPtr(43.25), Longitude: floatPtr(76.95)})
	locations.workers = []models.WorkerLocation{
		// примерно 11 км севернее
		{WorkerID: 10, Name: "Болат", Latitude: 43.35, Longitude: 76.95, Rating: 4.8},
		// совпадает с позицией клиента
		{WorkerID: 11, Name: "Ерлан", Latitude: 43.25, Longitude: 76.95, Rating: 4.2},
		// другой город, за пределами радиуса
		{WorkerID: 12, Name: "Серик", Latitude: 51.12, Longitude: 71.43, Rating: 5.0},
		// тоже на точке клиента, больший id
		{WorkerID: 13, Name: "Аскар", Latitude: 43.25, Longitude: 76.95, Rating: 3.9},
	}

	nearby, err := svc.NearbyWorkers(ctx, 1, 50)
	if err != nil {
		t.Fatalf("NearbyWorkers: %v", err)
	}
	if len(nearby) != 3 {
		t.Fatalf("nearby = %d, want 3 inside 50 km", len(nearby))
	}
	if nearby[0].WorkerID != 11 || nearby[1].WorkerID != 13 {
		t.Fatalf("equal distances must order by worker id: got %d, %d", nearby[0].WorkerID, nearby[1].WorkerID)
	}
	if nearby[2].WorkerID != 10 {
		t.Fatalf("farthest in radius must come last, got %d", nearby[2].WorkerID)
	}
	if nearby[0].DistanceKm != 0 {
		t.Fatalf("distance at same point = %v, want 0", nearby[0].DistanceKm)
	}
	if nearby[2].DistanceKm < 10 || nearby[2].DistanceKm > 12.5 {
		t.Fatalf("distance 0.1 degree north = %v, want about 11.1 km", nearby[2].DistanceKm)
	}
}

func TestNearbyWorkersNoOwnLocation(t *testing.T) {
	svc, _, _, _ := newGeoFixture()
	_, err := svc.NearbyWorkers(context.Background(), 1, 50)
	if !errors.Is(err, models.ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}

// Когда гео-индекс отвечает, он работает как предварительный фильтр:
// в хаверсайн-проход попадают только его кандидаты.
func TestNearbyWorkersRedisPrefilter(t *testing.T) {
	svc, locations, _, _ := newGeoFixture()
	locator := newFakeWorkerLocator()
	svc.Locator = locator
	ctx := context.Background()

	locations.Upsert(ctx, models.UserLocation{
		UserID: 1, Latitude: floatPtr(43.25), Longitude: floatPtr(76.95), City: "Алматы",
	})
	locations.workers = []models.WorkerLocation{
		{WorkerID: 10, Name: "Болат", Latitude: 43.35, Longitude: 76.95, Rating: 4.8},
		{WorkerID: 11, Name: "Ерлан", Latitude: 43.25, Longitude: 76.95, Rating: 4.2},
	}
	locator.nearby = []geo.NearbyWorker{{ID: 10}}

	nearby, err := svc.NearbyWorkers(ctx, 1, 50)
	if err != nil {
		t.Fatalf("NearbyWorkers: %v", err)
	}
	if len(nearby) != 1 || nearby[0].WorkerID != 10 {
		t.Fatalf("expected prefiltered result [10], got %+v", nearby)
	}
	// Дистанция считается хаверсайном, а не берётся из индекса.
	if nearby[0].DistanceKm < 10 || nearby[0].DistanceKm > 12.5 {
		t.Fatalf("distance = %v, want about 11.1 km", nearby[0].DistanceKm)
	}
}

// Холодный индекс или ошибка redis не должны прятать работников:
// сервис откатывается на полный проход по таблице.
func TestNearbyWorkersLocatorFallback(t *testing.T) {
	svc, locations, _, _ := newGeoFixture()
	locator := newFakeWorkerLocator()
	svc.Locator = locator
	ctx := context.Background()

	locations.Upsert(ctx, models.UserLocation{
		UserID: 1, Latitude: floatPtr(43.25), Longitude: floatPtr(76.95), City: "Алматы",
	})
	locations.workers = []models.WorkerLocation{
		{WorkerID: 10, Name: "Болат", Latitude: 43.25, Longitude: 76.95, Rating: 4.8},
	}

	// Пустой ответ индекса: полный проход.
	nearby, err := svc.NearbyWorkers(ctx, 1, 50)
	if err != nil {
		t.Fatalf("NearbyWorkers cold index: %v", err)
	}
	if len(nearby) != 1 {
		t.Fatalf("cold index must not hide workers, got %d", len(nearby))
	}

	// Ошибка индекса: тоже полный проход.
	locator.nearbyErr = errors.New("redis down")
	nearby, err = svc.NearbyWorkers(ctx, 1, 50)
	if err != nil {
		t.Fatalf("NearbyWorkers with failing locator: %v", err)
	}
	if len(nearby) != 1 {
		t.Fatalf("locator failure must not hide workers, got %d", len(nearby))
	}
}

func TestClearUserLocationRemovesWorkerFromIndex(t *testing.T) {
	svc, locations, users, _ := newGeoFixture()
	locator := newFakeWorkerLocator()
	svc.Locator = locator
	ctx := context.Background()
	users.users[7] = models.User{ID: 7, Name: "Болат", Role: models.RoleWorker}

	if _, err := svc.UpdateUserLocation(ctx, models.UserLocation{
		UserID: 7, Latitude: floatPtr(43.25), Longitude: floatPtr(76.95), City: "Алматы",
	}); err != nil {
		t.Fatalf("UpdateUserLocation: %v", err)
	}
	if _, ok := locator.updated[7]; !ok {
		t.Fatalf("worker position must be mirrored to the index")
	}

	if err := svc.ClearUserLocation(ctx, 7); err != nil {
		t.Fatalf("ClearUserLocation: %v", err)
	}
	if _, err := locations.GetByUser(ctx, 7); !errors.Is(err, models.ErrNoRecord) {
		t.Fatalf("location row must be gone, got %v", err)
	}
	if city, ok := locator.removed[7]; !ok || city != "Алматы" {
		t.Fatalf("worker must be removed from the index, removed=%v", locator.removed)
	}
}

func TestClearUserLocationCustomerSkipsIndex(t *testing.T) {
	svc, locations, users, _ := newGeoFixture()
	locator := newFakeWorkerLocator()
	svc.Locator = locator
	ctx := context.Background()
	users.users[2] = models.User{ID: 2, Role: models.RoleCustomer}

	locations.Upsert(ctx, models.UserLocation{UserID: 2, Latitude: floatPtr(43.25), Longitude: floatPtr(76.95)})
	if err := svc.ClearUserLocation(ctx, 2); err != nil {
		t.Fatalf("ClearUserLocation: %v", err)
	}
	if len(locator.removed) != 0 {
		t.Fatalf("customer removal must not touch the index, removed=%v", locator.removed)
	}

	if err := svc.ClearUserLocation(ctx, 2); !errors.Is(err, models.ErrNoRecord) {
		t.Fatalf("second clear must report ErrNoRecord, got %v", err)
	}
}
