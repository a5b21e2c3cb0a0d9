// Package rest is the client for the listing REST API. Every request carries
// a bearer identity token when a session exists, attached by the client the
// way the web frontend's request interceptor does.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"listinghub-go/internal/client/clienterr"
	"listinghub-go/internal/models"
)

// TokenSource supplies the current session's ID token. Implementations return
// an empty token (and no error) when no session exists; the request is then
// sent unauthenticated and the server answers 401.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// Client talks to the listing REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a REST client for the API at baseURL.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		tokens:     tokens,
	}
}

// GenerateAIDescription asks the server to produce a draft from a data-URL
// encoded image.
func (c *Client) GenerateAIDescription(ctx context.Context, imageData string) (*models.AIGenerationResult, error) {
	var result models.AIGenerationResult
	err := c.do(ctx, http.MethodPost, "/products/generate-ai-description",
		models.AIGenerationRequest{ImageData: imageData}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateListing creates a listing record and returns its server-assigned ID.
// The server forces status=pending.
func (c *Client) CreateListing(ctx context.Context, req models.CreateListingRequest) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/products/", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// GetMyListings fetches the caller's listings.
func (c *Client) GetMyListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := c.do(ctx, http.MethodGet, "/products/my-products", nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateListing applies a partial update to an owned listing.
func (c *Client) UpdateListing(ctx context.Context, listingID string, req models.UpdateListingRequest) error {
	return c.do(ctx, http.MethodPatch, "/products/"+url.PathEscape(listingID), req, nil)
}

// DeleteListing soft-deletes an owned listing.
func (c *Client) DeleteListing(ctx context.Context, listingID string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(listingID), nil, nil)
}

// GetAllListings fetches all listings (admin), optionally filtered by status.
func (c *Client) GetAllListings(ctx context.Context, status models.Status) ([]models.Listing, error) {
	path := "/admin/products"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var listings []models.Listing
	if err := c.do(ctx, http.MethodGet, path, nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// UpdateListingStatus transitions a listing's moderation status (admin).
func (c *Client) UpdateListingStatus(ctx context.Context, listingID string, status models.Status) error {
	return c.do(ctx, http.MethodPatch, "/admin/products/"+url.PathEscape(listingID)+"/status",
		models.StatusUpdateRequest{Status: status}, nil)
}

// InitializeProfile ensures the server-side user record exists after sign-in.
func (c *Client) InitializeProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/users/initialize", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// do performs one API request: encodes body, attaches the bearer token when a
// session exists, and decodes either out or the server's error body.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.IDToken(ctx)
	if err != nil {
		return &clienterr.AuthError{Reason: err.Error(), Unauthenticated: true}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// mapError converts an error response into the client error taxonomy. The
// server's detail message is preserved verbatim when present.
func (c *Client) mapError(resp *http.Response) error {
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &body)

	detail := body.Details
	if detail == "" {
		detail = body.Error
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &clienterr.AuthError{Reason: detail, Unauthenticated: true}
	case http.StatusForbidden:
		return &clienterr.AuthorizationError{Reason: detail}
	case http.StatusNotFound:
		return &clienterr.NotFoundError{Resource: detail}
	default:
		return &clienterr.APIError{StatusCode: resp.StatusCode, Detail: detail}
	}
}
