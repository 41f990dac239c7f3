package models

import (
	"time"
)

// ActivityRecord is written by the coordinator after each successful
// mutating operation.
type ActivityRecord struct {
	ID         int       `json:"id"`
	ActorID    int       `json:"actor_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int       `json:"entity_id"`
	CreatedAt  time.Time `json:"created_at"`
}
