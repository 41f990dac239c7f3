package models

import (
	"time"
)

// Canonical per-user buckets; created lazily on first access.
const (
	ListFavorite  = "favorite"
	ListWatching  = "watching"
	ListApplied   = "applied"
	ListCompleted = "completed"
)

var ListNames = []string{ListFavorite, ListWatching, ListApplied, ListCompleted}

func IsKnownListName(name string) bool {
	for _, n := range ListNames {
		if n == name {
			return true
		}
	}
	return false
}

type UserList struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type ListItem struct {
	ID              int       `json:"id"`
	UserListID      int       `json:"user_list_id"`
	RepairRequestID int       `json:"repair_request_id"`
	Notes           string    `json:"notes"`
	AddedAt         time.Time `json:"added_at"`

	RequestTitle  string `json:"request_title,omitempty"`
	RequestStatus string `json:"request_status,omitempty"`
}
