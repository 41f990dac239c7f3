package models

import (
	"time"
)

type UserLocation struct {
	UserID      int       `json:"user_id"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	LastUpdated time.Time `json:"last_updated"`
}

// WorkerLocation is a worker's stored position joined with profile data,
// the raw input for nearby ranking.
type WorkerLocation struct {
	WorkerID       int
	Name           string
	Specialization string
	Rating         float64
	Latitude       float64
	Longitude      float64
	Address        string
}

type NearbyWorker struct {
	WorkerID       int     `json:"worker_id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Rating         float64 `json:"rating"`
	DistanceKm     float64 `json:"distance_km"`
	Address        string  `json:"address"`
}
