package models

import "time"

// User represents a user profile record.
// IsAdmin is set by an out-of-band administrative process, never by this
// application; both the server middleware and the client read it from here
// rather than from token claims.
type User struct {
	ID          string    `json:"id" firestore:"-"` // Firebase Auth UID, used as the document ID
	Email       string    `json:"email,omitempty" firestore:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty" firestore:"display_name,omitempty"`
	IsAdmin     bool      `json:"is_admin" firestore:"is_admin"`
	CreatedAt   time.Time `json:"created_at" firestore:"created_at,serverTimestamp"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updated_at,serverTimestamp"`
}
