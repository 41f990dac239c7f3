package repositories

import (
	"context"
	"database/sql"
	"errors"

	"masterokBack/internal/models"
)

type LocationRepository struct {
	DB *sql.DB
}

func (r *LocationRepository) Upsert(ctx context.Context, loc models.UserLocation) error {
	query := `
               INSERT INTO user_locations (user_id, latitude, longitude, address, city, last_updated)
               VALUES (?, ?, ?, ?, ?, NOW())
               ON DUPLICATE KEY UPDATE
                       latitude = VALUES(latitude), longitude = VALUES(longitude),
                       address = VALUES(address), city = VALUES(city), last_updated = NOW()
       `
	_, err := r.DB.ExecContext(ctx, query, loc.UserID, loc.Latitude, loc.Longitude, loc.Address, loc.City)
	return err
}

func (r *LocationRepository) GetByUser(ctx context.Context, userID int) (models.UserLocation, error) {
	query := `
               SELECT user_id, latitude, longitude, address, city, last_updated
               FROM user_locations WHERE user_id = ?
       `
	var loc models.UserLocation
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&loc.UserID, &loc.Latitude, &loc.Longitude, &loc.Address, &loc.City, &loc.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserLocation{}, models.ErrNoRecord
	}
	if err != nil {
		return models.UserLocation{}, err
	}
	return loc, nil
}

func (r *LocationRepository) Delete(ctx context.Context, userID int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM user_locations WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// GetWorkerLocations returns every worker with known coordinates joined
// with profile data, the input set for nearby ranking.
func (r *LocationRepository) GetWorkerLocations(ctx context.Context) ([]models.WorkerLocation, error) {
	query := `
               SELECT ul.user_id, u.name, wp.specialization, wp.rating,
                      ul.latitude, ul.longitude, ul.address
               FROM user_locations ul
               JOIN users u ON ul.user_id = u.id
               JOIN worker_profiles wp ON wp.user_id = u.id
               WHERE ul.latitude IS NOT NULL AND ul.longitude IS NOT NULL
       `
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []models.WorkerLocation{}
	for rows.Next() {
		var wl models.WorkerLocation
		err := rows.Scan(&wl.WorkerID, &wl.Name, &wl.Specialization, &wl.Rating,
			&wl.Latitude, &wl.Longitude, &wl.Address)
		if err != nil {
			return nil, err
		}
		locations = append(locations, wl)
	}
	return locations, rows.Err()
}
