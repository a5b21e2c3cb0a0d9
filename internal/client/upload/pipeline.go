// Package upload implements the listing submission flow as an explicit state
// machine: Idle → ImageSelected → (AIGenerating → AIFilled) → Submitting →
// Succeeded or Failed. Each stage is independently failable; a failed submit
// keeps the selected image and draft so the user can resubmit manually.
//
// Resubmission after a partial failure is not deduplicated: the image is
// uploaded again and a second metadata record may be created. There is no
// cleanup of orphaned binaries either.
package upload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"listinghub-go/internal/client/clienterr"
	"listinghub-go/internal/client/session"
	"listinghub-go/internal/models"
)

// State is the pipeline's position in the submission flow.
type State string

const (
	StateIdle          State = "idle"
	StateImageSelected State = "image_selected"
	StateAIGenerating  State = "ai_generating"
	StateAIFilled      State = "ai_filled"
	StateSubmitting    State = "submitting"
	StateSucceeded     State = "succeeded"
	StateFailed        State = "failed"
)

// Draft holds the transient form fields. Nothing here is persisted until
// Submit succeeds; abandoning the form discards it.
type Draft struct {
	Title       string
	Description string
	Keywords    []string
}

// SessionSource exposes the current session state. *session.Provider
// satisfies it.
type SessionSource interface {
	Current() session.State
}

// API is the subset of the REST client the pipeline needs.
type API interface {
	GenerateAIDescription(ctx context.Context, imageData string) (*models.AIGenerationResult, error)
	CreateListing(ctx context.Context, req models.CreateListingRequest) (string, error)
}

// Pipeline drives one listing submission. It is safe for concurrent use, but
// the flow itself is sequential: one image, one optional generation round
// trip, one submit.
type Pipeline struct {
	api      API
	storage  ObjectStorage
	sessions SessionSource
	maxBytes int64
	now      func() time.Time

	mu           sync.Mutex
	state        State
	fileName     string
	fileData     []byte
	contentType  string
	draft        Draft
	preview      string
	previewReady chan struct{}
}

// NewPipeline creates a pipeline in the Idle state. maxBytes caps the
// accepted image size.
func NewPipeline(api API, storage ObjectStorage, sessions SessionSource, maxBytes int64) *Pipeline {
	return &Pipeline{
		api:      api,
		storage:  storage,
		sessions: sessions,
		maxBytes: maxBytes,
		now:      time.Now,
		state:    StateIdle,
	}
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Draft returns a copy of the current draft fields.
func (p *Pipeline) Draft() Draft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// SetTitle sets the draft title.
func (p *Pipeline) SetTitle(title string) {
	p.mu.Lock()
	p.draft.Title = title
	p.mu.Unlock()
}

// SetDescription sets the draft description.
func (p *Pipeline) SetDescription(description string) {
	p.mu.Lock()
	p.draft.Description = description
	p.mu.Unlock()
}

// SetKeywords sets the draft keywords.
func (p *Pipeline) SetKeywords(keywords []string) {
	p.mu.Lock()
	p.draft.Keywords = keywords
	p.mu.Unlock()
}

// Preview returns the thumbnail data URL, or "" while it is still being
// produced (or when decoding failed; the preview is best-effort and never
// gates the flow).
func (p *Pipeline) Preview() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.preview
}

// PreviewReady is closed when the preview for the current selection has been
// produced (or given up on). Nil before any image is selected.
func (p *Pipeline) PreviewReady() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.previewReady
}

// SelectImage validates and stages an image file. A missing or oversized file
// is rejected with a ValidationError and the pipeline state is unchanged.
// The preview is produced asynchronously and arrives later.
func (p *Pipeline) SelectImage(name string, data []byte) error {
	if name == "" || len(data) == 0 {
		return &clienterr.ValidationError{Reason: "an image file is required"}
	}
	if int64(len(data)) > p.maxBytes {
		return &clienterr.ValidationError{
			Reason: fmt.Sprintf("image exceeds the %d byte limit", p.maxBytes),
		}
	}

	ready := make(chan struct{})
	p.mu.Lock()
	p.state = StateImageSelected
	p.fileName = name
	p.fileData = data
	p.contentType = http.DetectContentType(data)
	p.preview = ""
	p.previewReady = ready
	p.mu.Unlock()

	go func() {
		defer close(ready)
		thumb, err := previewDataURL(data)
		if err != nil {
			return
		}
		p.mu.Lock()
		// A newer selection may have replaced this one while decoding.
		if p.previewReady == ready {
			p.preview = thumb
		}
		p.mu.Unlock()
	}()
	return nil
}

// GenerateDescription sends the selected image to the AI collaborator and,
// on success, overwrites the draft title/description/keywords. It requires a
// selected image and a signed-in identity. On failure the draft is left
// untouched and the pipeline returns to its previous state; a 401 comes back
// as an unauthenticated AuthError, anything else as an ai-generation
// TransportError. Generation is optional and repeatable.
func (p *Pipeline) GenerateDescription(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateImageSelected && p.state != StateAIFilled {
		p.mu.Unlock()
		return &clienterr.ValidationError{Reason: "select an image before generating a description"}
	}
	if p.sessions.Current().Identity == nil {
		p.mu.Unlock()
		return &clienterr.AuthError{Reason: "sign in to generate a description", Unauthenticated: true}
	}
	prev := p.state
	p.state = StateAIGenerating
	imageData := imageDataURL(p.contentType, p.fileData)
	p.mu.Unlock()

	result, err := p.api.GenerateAIDescription(ctx, imageData)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = prev
		var authErr *clienterr.AuthError
		if errors.As(err, &authErr) {
			return err
		}
		return &clienterr.TransportError{Stage: clienterr.StageAIGeneration, Err: err}
	}

	p.draft.Title = result.Title
	p.draft.Description = result.Description
	p.draft.Keywords = result.Keywords
	p.state = StateAIFilled
	return nil
}

// Submit runs the three remote stages in order, each gating the next: upload
// the image binary, retrieve its durable URL, create the metadata record
// (the server forces status=pending). Local validation happens before any
// network I/O. Any stage's failure aborts the rest, moves the pipeline to
// Failed, and surfaces a stage-tagged error; permission and session-expiry
// failures keep their own types. On success the draft and selection are
// cleared and the new listing's ID is returned.
func (p *Pipeline) Submit(ctx context.Context) (string, error) {
	p.mu.Lock()
	switch p.state {
	case StateImageSelected, StateAIFilled, StateFailed:
	default:
		p.mu.Unlock()
		return "", &clienterr.ValidationError{Reason: "select an image before submitting"}
	}
	identity := p.sessions.Current().Identity
	if identity == nil {
		p.mu.Unlock()
		return "", &clienterr.AuthError{Reason: "sign in to submit a listing", Unauthenticated: true}
	}
	if p.draft.Title == "" || p.draft.Description == "" {
		p.mu.Unlock()
		return "", &clienterr.ValidationError{Reason: "title and description are required"}
	}
	fileName := p.fileName
	fileData := p.fileData
	contentType := p.contentType
	draft := p.draft
	p.state = StateSubmitting
	p.mu.Unlock()

	key := fmt.Sprintf("products/%s/%d_%s", identity.UID, p.now().Unix(), fileName)

	if err := p.storage.Upload(ctx, key, contentType, fileData); err != nil {
		return "", p.fail(err, clienterr.StageStorageUpload)
	}

	imageURL, err := p.storage.DownloadURL(ctx, key)
	if err != nil {
		return "", p.fail(err, clienterr.StageDownloadURL)
	}

	id, err := p.api.CreateListing(ctx, models.CreateListingRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Keywords:    draft.Keywords,
		ImageURL:    imageURL,
	})
	if err != nil {
		return "", p.fail(err, clienterr.StageCreateRecord)
	}

	p.mu.Lock()
	p.state = StateSucceeded
	p.draft = Draft{}
	p.fileName = ""
	p.fileData = nil
	p.contentType = ""
	p.preview = ""
	p.mu.Unlock()
	return id, nil
}

// fail records the failed state and tags the error with its stage, keeping
// permission and authentication errors as their own types so callers can
// branch on them.
func (p *Pipeline) fail(err error, stage string) error {
	p.mu.Lock()
	p.state = StateFailed
	p.mu.Unlock()

	var authErr *clienterr.AuthError
	var authzErr *clienterr.AuthorizationError
	if errors.As(err, &authErr) || errors.As(err, &authzErr) {
		return err
	}
	return &clienterr.TransportError{Stage: stage, Err: err}
}
