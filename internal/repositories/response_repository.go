package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"masterokBack/internal/fsm"
	"masterokBack/internal/models"
)

type ResponseRepository struct {
	DB *sql.DB
}

// Create inserts a new response. The unique key on
// (repair_request_id, worker_id) makes concurrent double-submits lose with
// models.ErrAlreadyResponded instead of creating a second row.
func (r *ResponseRepository) Create(ctx context.Context, resp models.Response) (models.Response, error) {
	query := `
               INSERT INTO responses (repair_request_id, worker_id, message, proposed_price, status, created_at)
               VALUES (?, ?, ?, ?, ?, ?)
       `
	now := time.Now()
	result, err := r.DB.ExecContext(ctx, query,
		resp.RepairRequestID, resp.WorkerID, resp.Message, resp.ProposedPrice, resp.Status, now,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.Response{}, models.ErrAlreadyResponded
		}
		return models.Response{}, err
	}
	insertedID, err := result.LastInsertId()
	if err != nil {
		return models.Response{}, err
	}
	resp.ID = int(insertedID)
	resp.CreatedAt = now
	return resp, nil
}

func (r *ResponseRepository) GetByID(ctx context.Context, id int) (models.Response, error) {
	query := `
               SELECT id, repair_request_id, worker_id, message, proposed_price, status, created_at, updated_at
               FROM responses WHERE id = ?
       `
	var resp models.Response
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&resp.ID, &resp.RepairRequestID, &resp.WorkerID, &resp.Message,
		&resp.ProposedPrice, &resp.Status, &resp.CreatedAt, &resp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Response{}, models.ErrResponseNotFound
	}
	if err != nil {
		return models.Response{}, err
	}
	return resp, nil
}

func (r *ResponseRepository) GetByRequest(ctx context.Context, requestID int) ([]models.Response, error) {
	query := `
               SELECT r.id, r.repair_request_id, r.worker_id, u.name, r.message,
                      r.proposed_price, r.status, r.created_at, r.updated_at
               FROM responses r
               JOIN users u ON r.worker_id = u.id
               WHERE r.repair_request_id = ?
               ORDER BY r.created_at ASC
       `
	rows, err := r.DB.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		var resp models.Response
		err := rows.Scan(&resp.ID, &resp.RepairRequestID, &resp.WorkerID, &resp.WorkerName,
			&resp.Message, &resp.ProposedPrice, &resp.Status, &resp.CreatedAt, &resp.UpdatedAt)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (r *ResponseRepository) GetByWorker(ctx context.Context, workerID int) ([]models.Response, error) {
	query := `
               SELECT id, repair_request_id, worker_id, message, proposed_price, status, created_at, updated_at
               FROM responses WHERE worker_id = ?
               ORDER BY created_at DESC
       `
	rows, err := r.DB.QueryContext(ctx, query, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		var resp models.Response
		err := rows.Scan(&resp.ID, &resp.RepairRequestID, &resp.WorkerID, &resp.Message,
			&resp.ProposedPrice, &resp.Status, &resp.CreatedAt, &resp.UpdatedAt)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (r *ResponseRepository) HasResponded(ctx context.Context, requestID, workerID int) (bool, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM responses WHERE repair_request_id = ? AND worker_id = ?`,
		requestID, workerID).Scan(&count)
	return count > 0, err
}

func (r *ResponseRepository) GetAcceptedByRequest(ctx context.Context, requestID int) (models.Response, error) {
	query := `
               SELECT id, repair_request_id, worker_id, message, proposed_price, status, created_at, updated_at
               FROM responses WHERE repair_request_id = ? AND status = ?
       `
	var resp models.Response
	err := r.DB.QueryRowContext(ctx, query, requestID, fsm.ResponseAccepted).Scan(
		&resp.ID, &resp.RepairRequestID, &resp.WorkerID, &resp.Message,
		&resp.ProposedPrice, &resp.Status, &resp.CreatedAt, &resp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Response{}, models.ErrNoAcceptedResponse
	}
	if err != nil {
		return models.Response{}, err
	}
	return resp, nil
}

// Accept performs the whole accept transition in one transaction:
// request new->active, response sent->accepted, all sibling responses
// rejected. Both status updates are compare-and-swaps, so of N concurrent
// accepts on the same request exactly one commits; the rest roll back with
// models.ErrRequestConflict.
func (r *ResponseRepository) Accept(ctx context.Context, responseID, requestID int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fsm.ApplyRequest(ctx, tx, requestID, fsm.RequestNew, fsm.RequestActive); err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrRequestConflict
		}
		return err
	}
	if err := fsm.ApplyResponse(ctx, tx, responseID, fsm.ResponseSent, fsm.ResponseAccepted); err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return models.ErrRequestConflict
		}
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE responses SET status = ?, updated_at = NOW() WHERE repair_request_id = ? AND id <> ? AND status = ?`,
		fsm.ResponseRejected, requestID, responseID, fsm.ResponseSent,
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *ResponseRepository) DeleteResponse(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM responses WHERE id = ?`, id)
	return err
}
