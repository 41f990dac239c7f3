package geo

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// NearbyWorker is a worker returned from Redis GEO queries.
type NearbyWorker struct {
	ID   int64
	Dist float64
	Lon  float64
	Lat  float64
}

// WorkerLocator mirrors worker coordinates into Redis GEO sets so that
// radius lookups do not have to scan the whole workers table. The SQL
// store stays authoritative.
type WorkerLocator struct {
	rdb *redis.Client
}

func NewWorkerLocator(rdb *redis.Client) *WorkerLocator {
	return &WorkerLocator{rdb: rdb}
}

func redisKey(city string) string {
	// нормализуем город, чтобы везде один формат
	return fmt.Sprintf("workers:%s", strings.ToLower(city))
}

func memberName(workerID int64) string {
	return fmt.Sprintf("worker:%d", workerID)
}

func parseWorkerMember(member string) (int64, error) {
	parts := strings.Split(member, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid member %q", member)
	}
	return strconv.ParseInt(parts[1], 10, 64)
}

// SafeUpdateWorker validates the coordinates before writing them.
func (l *WorkerLocator) SafeUpdateWorker(ctx context.Context, workerID int64, lon, lat float64, city string) error {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return fmt.Errorf("SafeUpdateWorker: empty city")
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return fmt.Errorf("SafeUpdateWorker: invalid coords lon=%.8f lat=%.8f", lon, lat)
	}
	if math.Abs(lon) < 1e-4 && math.Abs(lat) < 1e-4 {
		return fmt.Errorf("SafeUpdateWorker: near-zero coords lon=%.8f lat=%.8f", lon, lat)
	}
	return l.rdb.GeoAdd(ctx, redisKey(city), &redis.GeoLocation{
		Name:      memberName(workerID),
		Longitude: lon,
		Latitude:  lat,
	}).Err()
}

// RemoveWorker удаляет работника из набора конкретного города.
func (l *WorkerLocator) RemoveWorker(ctx context.Context, workerID int64, city string) error {
	return l.rdb.ZRem(ctx, redisKey(city), memberName(workerID)).Err()
}

// Nearby returns workers within radius sorted by distance (ascending).
func (l *WorkerLocator) Nearby(ctx context.Context, lon, lat float64, radiusKm float64, limit int, city string) ([]NearbyWorker, error) {
	res, err := l.rdb.GeoSearchLocation(ctx, redisKey(city), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  lon,
			Latitude:   lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	workers := make([]NearbyWorker, 0, len(res))
	for _, item := range res {
		id, err := parseWorkerMember(item.Name)
		if err != nil {
			continue
		}
		workers = append(workers, NearbyWorker{
			ID:   id,
			Dist: item.Dist,
			Lon:  item.Longitude,
			Lat:  item.Latitude,
		})
	}
	return workers, nil
}
