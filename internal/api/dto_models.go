package api

// ErrorResponse is the generic error body. Clients surface Details verbatim
// when present and fall back to Error otherwise.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreateListingResponse is returned by POST /products/.
type CreateListingResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// StatusUpdateResponse is returned by PATCH /admin/products/:id/status.
type StatusUpdateResponse struct {
	Message   string `json:"message"`
	ListingID string `json:"product_id"`
	NewStatus string `json:"new_status"`
}

// MessageResponse is a simple confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}
