package models

import (
	"time"
)

// PriceHistory accumulates request/price pairs for later analysis.
type PriceHistory struct {
	ID                 int       `json:"id"`
	RepairRequestID    int       `json:"repair_request_id"`
	DeviceType         string    `json:"device_type"`
	ProblemDescription string    `json:"problem_description"`
	FinalPrice         *float64  `json:"final_price,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type DataStats struct {
	TotalRequests       int     `json:"total_requests"`
	CompletedWithPrice  int     `json:"completed_with_price"`
	PriceHistoryRecords int     `json:"price_history_records"`
	ReadyForTraining    bool    `json:"ready_for_training"`
	AveragePrice        float64 `json:"average_price"`
}
