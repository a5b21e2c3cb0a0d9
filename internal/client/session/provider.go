// Package session tracks the signed-in identity for the client. Sign-in goes
// through the hosted platform's Identity Toolkit REST API; the admin flag is
// read from the users/{uid} record, never from token claims.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"listinghub-go/internal/client/clienterr"
)

const (
	defaultIdentityBaseURL    = "https://identitytoolkit.googleapis.com/v1"
	defaultSecureTokenBaseURL = "https://securetoken.googleapis.com/v1"
)

// Identity is the signed-in user.
type Identity struct {
	UID          string
	Email        string
	DisplayName  string
	IsAdmin      bool
	IDToken      string
	RefreshToken string
}

// State is the observable session state. Identity is nil while signed out;
// Resolving is true until the initial session resolution has finished.
type State struct {
	Identity  *Identity
	Resolving bool
}

// AdminLookup reads the admin flag for a UID from the remote user record.
// A missing record means "not an admin", not an error.
type AdminLookup interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

// Provider owns the session state for one client instance. All pages observe
// it through Watch; there is exactly one Provider per process, constructed
// explicitly and passed to whatever needs identity.
type Provider struct {
	apiKey             string
	identityBaseURL    string
	secureTokenBaseURL string
	httpClient         *http.Client
	admins             AdminLookup

	mu          sync.Mutex
	state       State
	watchers    map[int]chan State
	nextWatcher int
}

// NewProvider creates a session provider using the given Identity Toolkit API
// key. The provider starts signed out with Resolving=true; call Resolve to
// finish initial resolution (with or without a persisted refresh token).
func NewProvider(apiKey string, admins AdminLookup) *Provider {
	return &Provider{
		apiKey:             apiKey,
		identityBaseURL:    defaultIdentityBaseURL,
		secureTokenBaseURL: defaultSecureTokenBaseURL,
		httpClient:         http.DefaultClient,
		admins:             admins,
		state:              State{Resolving: true},
		watchers:           map[int]chan State{},
	}
}

// Current returns the current session state.
func (p *Provider) Current() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Watch returns a channel receiving the session state on every change, plus
// an unsubscribe func. The current state is delivered immediately so routing
// guards can evaluate without waiting for the next transition. Unsubscribing
// twice is safe.
func (p *Provider) Watch() (<-chan State, func()) {
	p.mu.Lock()
	id := p.nextWatcher
	p.nextWatcher++
	ch := make(chan State, 16)
	p.watchers[id] = ch
	ch <- p.state
	p.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.watchers, id)
			close(ch)
			p.mu.Unlock()
		})
	}
	return ch, cancel
}

// IDToken returns the current session's ID token, or "" when signed out.
// Implements rest.TokenSource.
func (p *Provider) IDToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Identity == nil {
		return "", nil
	}
	return p.state.Identity.IDToken, nil
}

// setState replaces the session state and notifies watchers. A watcher that
// falls behind misses intermediate states; the latest state always wins.
func (p *Provider) setState(s State) {
	p.mu.Lock()
	p.state = s
	for _, ch := range p.watchers {
		select {
		case ch <- s:
		default:
		}
	}
	p.mu.Unlock()
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

// SignIn authenticates with email/password. On success the identity becomes
// observable immediately and the admin flag is resolved right after (a second
// state change); on failure the identity remains absent and an AuthError
// carries the platform's reason.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	var resp signInResponse
	err := p.postIdentity(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return err
	}
	p.establish(ctx, resp)
	return nil
}

// SignInWithFederatedIdentity authenticates with a credential issued by a
// third-party identity provider (e.g. providerID "google.com" with its ID
// token), delegated through the hosted auth platform.
func (p *Provider) SignInWithFederatedIdentity(ctx context.Context, providerID, providerIDToken string) error {
	postBody := url.Values{}
	postBody.Set("id_token", providerIDToken)
	postBody.Set("providerId", providerID)

	var resp signInResponse
	err := p.postIdentity(ctx, "accounts:signInWithIdp", map[string]interface{}{
		"postBody":            postBody.Encode(),
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &resp)
	if err != nil {
		return err
	}
	p.establish(ctx, resp)
	return nil
}

// Resolve finishes initial session resolution. With a persisted refresh
// token it re-establishes the session transparently; with an empty token it
// just clears the resolving flag. Either way Resolving is false afterwards.
func (p *Provider) Resolve(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		p.setState(State{Resolving: false})
		return nil
	}

	body := url.Values{}
	body.Set("grant_type", "refresh_token")
	body.Set("refresh_token", refreshToken)

	endpoint := fmt.Sprintf("%s/token?key=%s", p.secureTokenBaseURL, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(body.Encode()))
	if err != nil {
		p.setState(State{Resolving: false})
		return &clienterr.AuthError{Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := p.httpClient.Do(req)
	if err != nil {
		p.setState(State{Resolving: false})
		return &clienterr.AuthError{Reason: err.Error()}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		p.setState(State{Resolving: false})
		return &clienterr.AuthError{Reason: "session could not be re-established", Unauthenticated: true}
	}

	var tokenResp struct {
		UserID       string `json:"user_id"`
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&tokenResp); err != nil {
		p.setState(State{Resolving: false})
		return &clienterr.AuthError{Reason: err.Error()}
	}

	p.establish(ctx, signInResponse{
		LocalID:      tokenResp.UserID,
		IDToken:      tokenResp.IDToken,
		RefreshToken: tokenResp.RefreshToken,
	})
	return nil
}

// SignOut tears down the session. The hosted platform's client sign-out is a
// local token discard; watchers observe the cleared identity immediately.
func (p *Provider) SignOut(ctx context.Context) error {
	p.setState(State{Resolving: false})
	return nil
}

// establish publishes the identity, then resolves the admin flag from the
// remote user record and publishes again. A missing record (or a failed
// lookup) leaves the flag false; the server re-checks it on every admin call
// anyway.
func (p *Provider) establish(ctx context.Context, resp signInResponse) {
	identity := &Identity{
		UID:          resp.LocalID,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
	}
	p.setState(State{Identity: identity, Resolving: false})

	if p.admins == nil {
		return
	}
	isAdmin, err := p.admins.IsAdmin(ctx, identity.UID)
	if err != nil || !isAdmin {
		return
	}
	elevated := *identity
	elevated.IsAdmin = true
	p.setState(State{Identity: &elevated, Resolving: false})
}

// postIdentity calls one Identity Toolkit endpoint and maps its error body to
// an AuthError with the platform's reason string.
func (p *Provider) postIdentity(ctx context.Context, action string, body map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &clienterr.AuthError{Reason: err.Error()}
	}

	endpoint := fmt.Sprintf("%s/%s?key=%s", p.identityBaseURL, action, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return &clienterr.AuthError{Reason: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &clienterr.AuthError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &clienterr.AuthError{Reason: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(raw, &errBody)
		reason := errBody.Error.Message
		if reason == "" {
			reason = http.StatusText(resp.StatusCode)
		}
		return &clienterr.AuthError{Reason: reason}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &clienterr.AuthError{Reason: err.Error()}
	}
	return nil
}
