package models

import (
	"time"
)

type Response struct {
	ID              int        `json:"id"`
	RepairRequestID int        `json:"repair_request_id"`
	WorkerID        int        `json:"worker_id"`
	Message         string     `json:"message"`
	ProposedPrice   *float64   `json:"proposed_price,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`

	WorkerName string `json:"worker_name,omitempty"`
}
