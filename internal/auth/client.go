package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// User is the identity-provider account behind a session token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is issued on sign-in or sign-up.
type Session struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

var (
	// ErrInvalidCredentials covers rejected email/password pairs and
	// invalid or expired tokens, as opposed to transport failures.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Client talks to the identity provider's REST surface (the Google Identity
// Toolkit email/password endpoints). The base URL is configurable so tests
// can point it at a local server.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	sessions *sessionCache
	log      *slog.Logger
}

// NewClient wires the identity client with a session lookup cache.
func NewClient(baseURL, apiKey string, ttl time.Duration, capacity int, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 10 * time.Second},
		sessions: newSessionCache(capacity, ttl),
		log:      log,
	}
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type sessionResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type lookupRequest struct {
	IDToken string `json:"idToken"`
}

type lookupResponse struct {
	Users []struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
	} `json:"users"`
}

// SignUp creates an account and returns a fresh session.
func (c *Client) SignUp(ctx context.Context, email, password string) (Session, error) {
	return c.credentialCall(ctx, "accounts:signUp", email, password)
}

// SignIn exchanges email/password credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (Session, error) {
	return c.credentialCall(ctx, "accounts:signInWithPassword", email, password)
}

// Lookup resolves a session token to its user, cache-first. An invalid or
// expired token maps to ErrInvalidCredentials.
func (c *Client) Lookup(ctx context.Context, idToken string) (User, error) {
	if user, ok := c.sessions.get(idToken); ok {
		return user, nil
	}

	var resp lookupResponse
	if err := c.post(ctx, "accounts:lookup", lookupRequest{IDToken: idToken}, &resp); err != nil {
		return User{}, err
	}
	if len(resp.Users) == 0 {
		return User{}, ErrInvalidCredentials
	}

	user := User{ID: resp.Users[0].LocalID, Email: resp.Users[0].Email}
	c.sessions.put(idToken, user)
	return user, nil
}

// SignOut drops the cached session. The provider's tokens expire on their
// own; no revocation call is made.
func (c *Client) SignOut(idToken string) {
	c.sessions.drop(idToken)
}

func (c *Client) credentialCall(ctx context.Context, endpoint, email, password string) (Session, error) {
	payload := credentialsRequest{Email: email, Password: password, ReturnSecureToken: true}

	var resp sessionResponse
	if err := c.post(ctx, endpoint, payload, &resp); err != nil {
		return Session{}, err
	}

	session := Session{
		UserID:       resp.LocalID,
		Email:        resp.Email,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.ExpiresIn != "" {
		fmt.Sscanf(resp.ExpiresIn, "%d", &session.ExpiresIn)
	}
	return session, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}

	target := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call identity provider: %w", err)
	}
	defer resp.Body.Close()

	// The provider answers 400 for bad credentials and bad tokens alike.
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			c.log.Debug("identity provider rejected request", slog.String("reason", apiErr.Error.Message))
		}
		return ErrInvalidCredentials
	}

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("identity provider %d: %s", resp.StatusCode, string(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
