package models

import (
	"time"
)

type ProblemPhoto struct {
	ID              int       `json:"id"`
	RepairRequestID int       `json:"repair_request_id"`
	URL             string    `json:"url"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
