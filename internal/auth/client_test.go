package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avtovision/car-catalog/backend/internal/auth"
)

type identityStub struct {
	lookupCalls atomic.Int64
	broken      bool
}

func (s *identityStub) handler() http.Handler {
	mux := http.NewServeMux()

	writeErr := func(w http.ResponseWriter, status int, message string) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": message}})
	}

	mux.HandleFunc("/accounts:signUp", func(w http.ResponseWriter, r *http.Request) {
		if s.broken {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "taken@example.com" {
			writeErr(w, http.StatusBadRequest, "EMAIL_EXISTS")
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"localId": "user-1", "email": req.Email,
			"idToken": "token-signup", "refreshToken": "refresh-1", "expiresIn": "3600",
		})
	})

	mux.HandleFunc("/accounts:signInWithPassword", func(w http.ResponseWriter, r *http.Request) {
		if s.broken {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "correct-horse" {
			writeErr(w, http.StatusBadRequest, "INVALID_PASSWORD")
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"localId": "user-1", "email": req.Email,
			"idToken": "token-login", "refreshToken": "refresh-2", "expiresIn": "3600",
		})
	})

	mux.HandleFunc("/accounts:lookup", func(w http.ResponseWriter, r *http.Request) {
		s.lookupCalls.Add(1)
		if s.broken {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req struct {
			IDToken string `json:"idToken"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.IDToken != "token-login" {
			writeErr(w, http.StatusBadRequest, "INVALID_ID_TOKEN")
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{{"localId": "user-1", "email": "driver@example.com"}},
		})
	})

	return mux
}

func newTestClient(t *testing.T, stub *identityStub) *auth.Client {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)
	return auth.NewClient(srv.URL, "test-key", time.Minute, 100, nil)
}

func TestSignInSuccess(t *testing.T) {
	client := newTestClient(t, &identityStub{})

	session, err := client.SignIn(context.Background(), "driver@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "user-1", session.UserID)
	require.Equal(t, "token-login", session.IDToken)
	require.Equal(t, 3600, session.ExpiresIn)
}

func TestSignInBadPassword(t *testing.T) {
	client := newTestClient(t, &identityStub{})

	_, err := client.SignIn(context.Background(), "driver@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignUpExistingEmail(t *testing.T) {
	client := newTestClient(t, &identityStub{})

	_, err := client.SignUp(context.Background(), "taken@example.com", "correct-horse")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestProviderOutageIsNotCredentialFailure(t *testing.T) {
	client := newTestClient(t, &identityStub{broken: true})

	_, err := client.SignIn(context.Background(), "driver@example.com", "correct-horse")
	require.Error(t, err)
	require.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLookupCachesSessions(t *testing.T) {
	stub := &identityStub{}
	client := newTestClient(t, stub)

	user, err := client.Lookup(context.Background(), "token-login")
	require.NoError(t, err)
	require.Equal(t, "driver@example.com", user.Email)

	_, err = client.Lookup(context.Background(), "token-login")
	require.NoError(t, err)
	require.Equal(t, int64(1), stub.lookupCalls.Load())
}

func TestLookupInvalidToken(t *testing.T) {
	client := newTestClient(t, &identityStub{})

	_, err := client.Lookup(context.Background(), "garbage")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestSignOutDropsCachedSession(t *testing.T) {
	stub := &identityStub{}
	client := newTestClient(t, stub)

	_, err := client.Lookup(context.Background(), "token-login")
	require.NoError(t, err)

	client.SignOut("token-login")

	_, err = client.Lookup(context.Background(), "token-login")
	require.NoError(t, err)
	require.Equal(t, int64(2), stub.lookupCalls.Load())
}
