package models

import (
	"time"
)

// Device categories accepted for a repair request.
const (
	DeviceFridge     = "fridge"
	DeviceWasher     = "washer"
	DeviceOven       = "oven"
	DeviceDishwasher = "dishwasher"
	DeviceOther      = "other"
)

var DeviceTypes = []string{DeviceFridge, DeviceWasher, DeviceOven, DeviceDishwasher, DeviceOther}

func IsKnownDeviceType(deviceType string) bool {
	for _, dt := range DeviceTypes {
		if dt == deviceType {
			return true
		}
	}
	return false
}

type RepairRequest struct {
	ID                    int        `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	DeviceType            string     `json:"device_type"`
	Address               string     `json:"address"`
	Latitude              *float64   `json:"latitude,omitempty"`
	Longitude             *float64   `json:"longitude,omitempty"`
	DesiredCompletionDate *time.Time `json:"desired_completion_date,omitempty"`
	Status                string     `json:"status"`
	CreatedBy             int        `json:"created_by"`
	PredictedPrice        *float64   `json:"predicted_price,omitempty"`
	PredictionConfidence  *float64   `json:"prediction_confidence,omitempty"`
	FinalPrice            *float64   `json:"final_price,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             *time.Time `json:"updated_at,omitempty"`

	CreatedByName string `json:"created_by_name,omitempty"`
}

// RepairRequestFilter narrows down Search results; zero values mean "any".
type RepairRequestFilter struct {
	SearchTerm string
	DeviceType string
	Status     string
}
