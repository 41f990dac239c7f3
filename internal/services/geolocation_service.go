package services

import (
	"context"
	"log"
	"math"
	"sort"

	"masterokBack/internal/geo"
	"masterokBack/internal/models"
)

type LocationRepo interface {
	Upsert(ctx context.Context, loc models.UserLocation) error
	GetByUser(ctx context.Context, userID int) (models.UserLocation, error)
	GetWorkerLocations(ctx context.Context) ([]models.WorkerLocation, error)
	Delete(ctx context.Context, userID int) error
}

type WorkerLocator interface {
	SafeUpdateWorker(ctx context.Context, workerID int64, lon, lat float64, city string) error
	RemoveWorker(ctx context.Context, workerID int64, city string) error
	Nearby(ctx context.Context, lon, lat, radiusKm float64, limit int, city string) ([]geo.NearbyWorker, error)
}

// Сколько кандидатов максимум забираем из гео-индекса за один запрос.
const nearbyCandidateLimit = 500

type GeolocationService struct {
	LocationRepo LocationRepo
	UserRepo     UserGetter
	Geocoder     Geocoder
	Locator      WorkerLocator
	ErrorLog     *log.Logger
}

// UpdateUserLocation stores a user's position. Coordinates win over the
// address; an address alone is geocoded first. Worker positions are mirrored
// into the Redis geo index so radius lookups stay cheap.
func (s *GeolocationService) UpdateUserLocation(ctx context.Context, loc models.UserLocation) (models.UserLocation, error) {
	if loc.Latitude == nil || loc.Longitude == nil {
		if loc.Address == "" || s.Geocoder == nil {
			return models.UserLocation{}, models.ErrMissingFields
		}
		result, err := s.Geocoder.Geocode(ctx, loc.Address)
		if err != nil {
			return models.UserLocation{}, err
		}
		loc.Latitude = &result.Latitude
		loc.Longitude = &result.Longitude
		if result.FullAddress != "" {
			loc.Address = result.FullAddress
		}
	}

	if err := s.LocationRepo.Upsert(ctx, loc); err != nil {
		return models.UserLocation{}, err
	}

	if s.Locator != nil && s.UserRepo != nil {
		user, err := s.UserRepo.GetUserByID(ctx, loc.UserID)
		if err == nil && user.Role == models.RoleWorker {
			err = s.Locator.SafeUpdateWorker(ctx, int64(loc.UserID), *loc.Longitude, *loc.Latitude, loc.City)
			if err != nil {
				s.logError(err)
			}
		}
	}

	return s.LocationRepo.GetByUser(ctx, loc.UserID)
}

func (s *GeolocationService) GetUserLocation(ctx context.Context, userID int) (models.UserLocation, error) {
	return s.LocationRepo.GetByUser(ctx, userID)
}

// ClearUserLocation retires a stored position. Workers are also removed
// from the Redis geo index so they stop appearing as nearby candidates.
func (s *GeolocationService) ClearUserLocation(ctx context.Context, userID int) error {
	existing, err := s.LocationRepo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.LocationRepo.Delete(ctx, userID); err != nil {
		return err
	}

	if s.Locator != nil && s.UserRepo != nil {
		user, err := s.UserRepo.GetUserByID(ctx, userID)
		if err == nil && user.Role == models.RoleWorker {
			if err := s.Locator.RemoveWorker(ctx, int64(userID), existing.City); err != nil {
				s.logError(err)
			}
		}
	}
	return nil
}

// NearbyWorkers ranks workers by haversine distance from the caller's stored
// position within maxKm. Ties on distance break by worker id so the order is
// stable.
func (s *GeolocationService) NearbyWorkers(ctx context.Context, userID int, maxKm float64) ([]models.NearbyWorker, error) {
	origin, err := s.LocationRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if origin.Latitude == nil || origin.Longitude == nil {
		return nil, models.ErrNoRecord
	}

	workers, err := s.LocationRepo.GetWorkerLocations(ctx)
	if err != nil {
		return nil, err
	}
	candidates := s.nearbyCandidates(ctx, origin, maxKm)

	nearby := []models.NearbyWorker{}
	for _, w := range workers {
		if w.WorkerID == userID {
			continue
		}
		if candidates != nil && !candidates[w.WorkerID] {
			continue
		}
		dist := geo.DistanceKm(*origin.Latitude, *origin.Longitude, w.Latitude, w.Longitude)
		if dist > maxKm {
			continue
		}
		nearby = append(nearby, models.NearbyWorker{
			WorkerID:       w.WorkerID,
			Name:           w.Name,
			Specialization: w.Specialization,
			Rating:         w.Rating,
			DistanceKm:     math.Round(dist*100) / 100,
			Address:        w.Address,
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].WorkerID < nearby[j].WorkerID
	})
	return nearby, nil
}

// nearbyCandidates pre-filters workers through the Redis geo index so the
// haversine pass does not have to touch the whole table. A nil result means
// no pre-filter: redis is off, the city is unknown, the query failed or the
// index is still cold. Distances in the result are recomputed by haversine.
func (s *GeolocationService) nearbyCandidates(ctx context.Context, origin models.UserLocation, maxKm float64) map[int]bool {
	if s.Locator == nil || origin.City == "" {
		return nil
	}
	found, err := s.Locator.Nearby(ctx, *origin.Longitude, *origin.Latitude, maxKm, nearbyCandidateLimit, origin.City)
	if err != nil {
		s.logError(err)
		return nil
	}
	if len(found) == 0 {
		return nil
	}
	candidates := make(map[int]bool, len(found))
	for _, w := range found {
		candidates[int(w.ID)] = true
	}
	return candidates
}

func (s *GeolocationService) logError(err error) {
	if s.ErrorLog != nil {
		s.ErrorLog.Println(err)
	}
}
