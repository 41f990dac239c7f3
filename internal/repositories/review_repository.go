package repositories

import (
	"context"
	"database/sql"
	"errors"

	"masterokBack/internal/models"
)

type ReviewRepository struct {
	DB *sql.DB
}

// Upsert creates a review or, when the (request, customer) pair already has
// one, overwrites its rating and comment. Resubmission is "edit my review".
func (r *ReviewRepository) Upsert(ctx context.Context, rev models.Review) (models.Review, error) {
	var existingID int
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM reviews WHERE repair_request_id = ? AND customer_id = ?`,
		rev.RepairRequestID, rev.CustomerID).Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := r.DB.ExecContext(ctx, `
                       INSERT INTO reviews (repair_request_id, customer_id, worker_id, rating, comment, created_at)
                       VALUES (?, ?, ?, ?, ?, NOW())
               `, rev.RepairRequestID, rev.CustomerID, rev.WorkerID, rev.Rating, rev.Comment)
		if err != nil {
			if isDuplicateEntry(err) {
				// lost the insert race; fall through to update
				return r.updateExisting(ctx, rev)
			}
			return models.Review{}, err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return models.Review{}, err
		}
		rev.ID = int(id)
		return rev, nil
	case err != nil:
		return models.Review{}, err
	default:
		rev.ID = existingID
		_, err := r.DB.ExecContext(ctx,
			`UPDATE reviews SET rating = ?, comment = ? WHERE id = ?`,
			rev.Rating, rev.Comment, rev.ID)
		if err != nil {
			return models.Review{}, err
		}
		return rev, nil
	}
}

func (r *ReviewRepository) updateExisting(ctx context.Context, rev models.Review) (models.Review, error) {
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM reviews WHERE repair_request_id = ? AND customer_id = ?`,
		rev.RepairRequestID, rev.CustomerID).Scan(&rev.ID)
	if err != nil {
		return models.Review{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE reviews SET rating = ?, comment = ? WHERE id = ?`,
		rev.Rating, rev.Comment, rev.ID)
	if err != nil {
		return models.Review{}, err
	}
	return rev, nil
}

func (r *ReviewRepository) GetByWorker(ctx context.Context, workerID int) ([]models.Review, error) {
	query := `
               SELECT r.id, r.repair_request_id, r.customer_id, u.name, r.worker_id,
                      r.rating, r.comment, r.created_at
               FROM reviews r
               JOIN users u ON r.customer_id = u.id
               WHERE r.worker_id = ?
               ORDER BY r.created_at DESC
       `
	rows, err := r.DB.QueryContext(ctx, query, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rev models.Review
		err := rows.Scan(&rev.ID, &rev.RepairRequestID, &rev.CustomerID, &rev.CustomerName,
			&rev.WorkerID, &rev.Rating, &rev.Comment, &rev.CreatedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) GetRatingsByWorker(ctx context.Context, workerID int) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT rating FROM reviews WHERE worker_id = ?`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
