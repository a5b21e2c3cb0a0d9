package models

// CreateListingRequest represents the request body for creating a new listing.
// Status and the soft-delete flag are not accepted from the client; the
// server forces status=pending and is_deleted=false on create.
type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Keywords    []string `json:"keywords,omitempty"`
	ImageURL    string   `json:"image_url" binding:"required"`
	UserID      string   `json:"user_id,omitempty"` // Ignored; the server uses the token's UID.
}

// UpdateListingRequest represents the request body for a partial listing update.
// Pointers distinguish "clear this field" from "field not provided".
type UpdateListingRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Keywords    *[]string `json:"keywords,omitempty"`
}

// IsEmpty reports whether the update carries no fields at all.
func (r UpdateListingRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Keywords == nil
}

// StatusUpdateRequest represents the admin request body for a status transition.
type StatusUpdateRequest struct {
	Status Status `json:"status" binding:"required"`
}

// AIGenerationRequest carries the data-URL encoded image for description generation.
type AIGenerationRequest struct {
	ImageData string `json:"image_data" binding:"required"`
}

// AIGenerationResult is the transient output of the AI description call.
// It is merged into the upload draft and never persisted on its own.
type AIGenerationResult struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}
