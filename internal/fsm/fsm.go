package fsm

import (
	"context"
	"database/sql"
	"errors"
)

// Status constants for the repair request state machine.
const (
	RequestNew       = "new"
	RequestActive    = "active"
	RequestCompleted = "completed"
	RequestCancelled = "cancelled"
)

// Status constants for the response state machine.
const (
	ResponseSent     = "sent"
	ResponseAccepted = "accepted"
	ResponseRejected = "rejected"
)

var requestTransitions = map[string]map[string]struct{}{
	RequestNew: {
		RequestActive:    {},
		RequestCancelled: {},
	},
	RequestActive: {
		RequestCompleted: {},
	},
	RequestCompleted: {},
	RequestCancelled: {},
}

var responseTransitions = map[string]map[string]struct{}{
	ResponseSent: {
		ResponseAccepted: {},
		ResponseRejected: {},
	},
	ResponseAccepted: {},
	ResponseRejected: {},
}

// CanTransitionRequest reports whether a repair request may move from one
// status to another. Statuses only move forward, never back.
func CanTransitionRequest(from, to string) bool {
	allowed, ok := requestTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// CanTransitionResponse reports whether a response may move from one status
// to another. Accepted and rejected are terminal.
func CanTransitionResponse(from, to string) bool {
	allowed, ok := responseTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// ApplyRequest updates a repair request status using optimistic validation.
// The WHERE clause on the previous status makes the update a compare-and-swap:
// of N concurrent callers only one sees an affected row, the rest get
// sql.ErrNoRows.
func ApplyRequest(ctx context.Context, tx *sql.Tx, requestID int, fromStatus, toStatus string) error {
	if !CanTransitionRequest(fromStatus, toStatus) {
		return errors.New("invalid status transition")
	}
	res, err := tx.ExecContext(ctx, `UPDATE repair_requests SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`, toStatus, requestID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ApplyResponse updates a response status with the same compare-and-swap
// discipline as ApplyRequest.
func ApplyResponse(ctx context.Context, tx *sql.Tx, responseID int, fromStatus, toStatus string) error {
	if !CanTransitionResponse(fromStatus, toStatus) {
		return errors.New("invalid status transition")
	}
	res, err := tx.ExecContext(ctx, `UPDATE responses SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`, toStatus, responseID, fromStatus)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
