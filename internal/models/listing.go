package models

import "time"

// Status is the moderation state of a listing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the three moderation states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Listing represents a product listing with a moderation status.
// Newly created listings always start at StatusPending; IsDeleted, once true,
// is never reset and excludes the record from all normal queries.
type Listing struct {
	ID          string    `json:"id" firestore:"-"` // Document ID, auto-generated
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Keywords    []string  `json:"keywords,omitempty" firestore:"keywords,omitempty"`
	ImageURL    string    `json:"image_url" firestore:"image_url"`
	UserID      string    `json:"user_id" firestore:"user_id"` // Firebase Auth UID of the owner, immutable
	Status      Status    `json:"status" firestore:"status"`
	IsDeleted   bool      `json:"is_deleted" firestore:"is_deleted"`
	CreatedAt   time.Time `json:"created_at" firestore:"created_at,serverTimestamp"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updated_at,serverTimestamp"`
}
