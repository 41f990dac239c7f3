package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"masterokBack/internal/fsm"
	"masterokBack/internal/models"
)

type RepairRequestRepository struct {
	DB *sql.DB
}

func (r *RepairRequestRepository) Create(ctx context.Context, req models.RepairRequest) (models.RepairRequest, error) {
	query := `
               INSERT INTO repair_requests
                       (title, description, device_type, address, latitude, longitude,
                        desired_completion_date, status, created_by, predicted_price, prediction_confidence, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
       `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		req.Title, req.Description, req.DeviceType, req.Address, req.Latitude, req.Longitude,
		req.DesiredCompletionDate, req.Status, req.CreatedBy, req.PredictedPrice, req.PredictionConfidence, now,
	)
	if err != nil {
		return models.RepairRequest{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.RepairRequest{}, err
	}
	req.ID = int(insertedID)
	req.CreatedAt = now
	return req, nil
}

func (r *RepairRequestRepository) GetByID(ctx context.Context, id int) (models.RepairRequest, error) {
	query := `
               SELECT rr.id, rr.title, rr.description, rr.device_type, rr.address,
                      rr.latitude, rr.longitude, rr.desired_completion_date, rr.status,
                      rr.created_by, u.name, rr.predicted_price, rr.prediction_confidence,
                      rr.final_price, rr.created_at, rr.updated_at
               FROM repair_requests rr
               JOIN users u ON rr.created_by = u.id
               WHERE rr.id = ?
       `
	var req models.RepairRequest
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.Title, &req.Description, &req.DeviceType, &req.Address,
		&req.Latitude, &req.Longitude, &req.DesiredCompletionDate, &req.Status,
		&req.CreatedBy, &req.CreatedByName, &req.PredictedPrice, &req.PredictionConfidence,
		&req.FinalPrice, &req.CreatedAt, &req.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RepairRequest{}, models.ErrRepairRequestNotFound
	}
	if err != nil {
		return models.RepairRequest{}, err
	}
	return req, nil
}

func (r *RepairRequestRepository) GetByUser(ctx context.Context, userID int) ([]models.RepairRequest, error) {
	return r.queryMany(ctx, `WHERE rr.created_by = ?`, userID)
}

func (r *RepairRequestRepository) Search(ctx context.Context, filter models.RepairRequestFilter) ([]models.RepairRequest, error) {
	var conditions []string
	var args []interface{}

	if filter.SearchTerm != "" {
		conditions = append(conditions, `(rr.title LIKE ? OR rr.description LIKE ?)`)
		like := "%" + filter.SearchTerm + "%"
		args = append(args, like, like)
	}
	if filter.DeviceType != "" {
		conditions = append(conditions, `rr.device_type = ?`)
		args = append(args, filter.DeviceType)
	}
	if filter.Status != "" {
		conditions = append(conditions, `rr.status = ?`)
		args = append(args, filter.Status)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	return r.queryMany(ctx, where, args...)
}

func (r *RepairRequestRepository) queryMany(ctx context.Context, where string, args ...interface{}) ([]models.RepairRequest, error) {
	query := `
               SELECT rr.id, rr.title, rr.description, rr.device_type, rr.address,
                      rr.latitude, rr.longitude, rr.desired_completion_date, rr.status,
                      rr.created_by, u.name, rr.predicted_price, rr.prediction_confidence,
                      rr.final_price, rr.created_at, rr.updated_at
               FROM repair_requests rr
               JOIN users u ON rr.created_by = u.id
               ` + where + `
               ORDER BY rr.created_at DESC
       `
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.RepairRequest{}
	for rows.Next() {
		var req models.RepairRequest
		err := rows.Scan(
			&req.ID, &req.Title, &req.Description, &req.DeviceType, &req.Address,
			&req.Latitude, &req.Longitude, &req.DesiredCompletionDate, &req.Status,
			&req.CreatedBy, &req.CreatedByName, &req.PredictedPrice, &req.PredictionConfidence,
			&req.FinalPrice, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *RepairRequestRepository) Update(ctx context.Context, req models.RepairRequest) error {
	query := `
               UPDATE repair_requests
               SET title = ?, description = ?, device_type = ?, address = ?,
                   desired_completion_date = ?, updated_at = NOW()
               WHERE id = ?
       `
	_, err := r.DB.ExecContext(ctx, query,
		req.Title, req.Description, req.DeviceType, req.Address,
		req.DesiredCompletionDate, req.ID,
	)
	return err
}

func (r *RepairRequestRepository) SetCoordinates(ctx context.Context, id int, lat, lon float64, address string) error {
	query := `UPDATE repair_requests SET latitude = ?, longitude = ?, address = ? WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, query, lat, lon, address, id)
	return err
}

// UpdateStatus performs a compare-and-swap transition through the request
// state machine. The loser of a concurrent transition gets
// models.ErrRequestConflict.
func (r *RepairRequestRepository) UpdateStatus(ctx context.Context, id int, fromStatus, toStatus string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fsm.ApplyRequest(ctx, tx, id, fromStatus, toStatus); err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrRequestConflict
		}
		return err
	}
	return tx.Commit()
}

func (r *RepairRequestRepository) SetFinalPrice(ctx context.Context, id int, finalPrice float64) error {
	query := `UPDATE repair_requests SET final_price = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, query, finalPrice, id)
	return err
}

// Delete removes the request together with everything referencing it.
func (r *RepairRequestRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	cascade := []string{
		`DELETE FROM list_items WHERE repair_request_id = ?`,
		`DELETE FROM reviews WHERE repair_request_id = ?`,
		`DELETE FROM responses WHERE repair_request_id = ?`,
		`DELETE FROM problem_photos WHERE repair_request_id = ?`,
		`DELETE FROM price_history WHERE repair_request_id = ?`,
	}
	for _, q := range cascade {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			tx.Rollback()
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM repair_requests WHERE id = ?`, id)
	if err != nil {
		tx.Rollback()
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return err
	}
	if rows == 0 {
		tx.Rollback()
		return models.ErrRepairRequestNotFound
	}
	return tx.Commit()
}
