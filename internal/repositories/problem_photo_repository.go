package repositories

import (
	"context"
	"database/sql"
	"time"

	"masterokBack/internal/models"
)

type ProblemPhotoRepository struct {
	DB *sql.DB
}

func (r *ProblemPhotoRepository) Create(ctx context.Context, photo models.ProblemPhoto) (models.ProblemPhoto, error) {
	now := time.Now()
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO problem_photos (repair_request_id, url, description, created_at) VALUES (?, ?, ?, ?)`,
		photo.RepairRequestID, photo.URL, photo.Description, now)
	if err != nil {
		return models.ProblemPhoto{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.ProblemPhoto{}, err
	}
	photo.ID = int(id)
	photo.CreatedAt = now
	return photo, nil
}

func (r *ProblemPhotoRepository) GetByRequest(ctx context.Context, requestID int) ([]models.ProblemPhoto, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, repair_request_id, url, description, created_at FROM problem_photos WHERE repair_request_id = ? ORDER BY created_at`,
		requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []models.ProblemPhoto{}
	for rows.Next() {
		var p models.ProblemPhoto
		if err := rows.Scan(&p.ID, &p.RepairRequestID, &p.URL, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
