package models

import (
	"time"
)

type Review struct {
	ID              int       `json:"id"`
	RepairRequestID int       `json:"repair_request_id"`
	CustomerID      int       `json:"customer_id"`
	WorkerID        int       `json:"worker_id"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"created_at"`

	CustomerName string `json:"customer_name,omitempty"`
}
