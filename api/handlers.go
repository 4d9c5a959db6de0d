package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avtovision/car-catalog/backend/internal/auth"
	"github.com/avtovision/car-catalog/backend/internal/catalog"
	"github.com/avtovision/car-catalog/backend/internal/config"
	"github.com/avtovision/car-catalog/backend/internal/metrics"
	"github.com/avtovision/car-catalog/backend/internal/models"
	"github.com/avtovision/car-catalog/backend/internal/news"
	"github.com/avtovision/car-catalog/backend/internal/recommend"
	"github.com/avtovision/car-catalog/backend/internal/store"
)

type server struct {
	log     *slog.Logger
	cfg     *config.API
	es      *store.Client
	catalog *catalog.Service
	rec     *recommend.Engine
	auth    *auth.Client
	news    *news.Library
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Get("/cars", s.handleListCars)
	r.Get("/cars/{id}", s.handleGetCar)
	r.With(s.requireAuth).Post("/cars", s.handleAddCar)
	r.Get("/makes", s.handleMakes)

	r.Get("/news", s.handleNewsList)
	r.Get("/news/{slug}", s.handleNewsItem)

	r.Post("/recommend", s.handleRecommend)

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)
	r.With(s.requireAuth).Get("/auth/me", s.handleMe)

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.es.Health(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type listCarsResponse struct {
	Cars  []models.Car `json:"cars"`
	Total int          `json:"total"`
	Stale string       `json:"stale,omitempty"`
}

// handleListCars serves the listing from the local snapshot through the
// filter and sort pipeline. A not-yet-loaded catalog is a 503; an empty
// filtered result is a plain 200; a degraded snapshot stays a 200 with the
// stale indicator set.
func (s *server) handleListCars(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Snapshot()
	if snap.State == catalog.StateNotLoaded {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "catalog not loaded yet"})
		return
	}

	filters := parseFilters(r)
	sortOption := catalog.ParseSortOption(r.URL.Query().Get("sort"))

	cars := catalog.Sort(catalog.Filter(snap.Cars, filters), sortOption)

	resp := listCarsResponse{Cars: cars, Total: len(cars)}
	if snap.State == catalog.StateDegraded && snap.Err != nil {
		resp.Stale = snap.Err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleGetCar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	car, found, err := s.catalog.GetCar(ctx, id)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "catalog store unavailable"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "car not found"})
		return
	}

	writeJSON(w, http.StatusOK, car)
}

func (s *server) handleAddCar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var car models.Car
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	car.ID = "" // the store assigns identifiers

	id, err := s.catalog.AddCar(ctx, car)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidCar) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.log.Error("add car", slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "could not save the car"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *server) handleMakes(w http.ResponseWriter, r *http.Request) {
	snap := s.catalog.Snapshot()
	if snap.State == catalog.StateNotLoaded {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "catalog not loaded yet"})
		return
	}

	// Derived from the full unfiltered collection, sentinel first.
	writeJSON(w, http.StatusOK, map[string][]string{"options": catalog.MakeOptions(snap.Cars)})
}

func (s *server) handleNewsList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"articles": s.news.All()})
}

func (s *server) handleNewsItem(w http.ResponseWriter, r *http.Request) {
	article, ok := s.news.BySlug(chi.URLParam(r, "slug"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "article not found"})
		return
	}
	writeJSON(w, http.StatusOK, article)
}

type recommendRequest struct {
	Preferences string `json:"preferences"`
}

type recommendResponse struct {
	Recommendations string `json:"recommendations"`
}

func (s *server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	outcome, err := s.rec.Recommend(ctx, req.Preferences)
	switch {
	case errors.Is(err, recommend.ErrTooShort):
		metrics.RecommendRequests.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	case errors.Is(err, recommend.ErrBusy):
		metrics.RecommendRequests.WithLabelValues("busy").Inc()
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	case err != nil:
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "recommendation service failed"})
		return
	}

	if outcome.Empty {
		metrics.RecommendRequests.WithLabelValues("empty").Inc()
	} else {
		metrics.RecommendRequests.WithLabelValues("ok").Inc()
	}
	writeJSON(w, http.StatusOK, recommendResponse{Recommendations: outcome.Recommendations})
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleSignup(w http.ResponseWriter, r *http.Request) {
	s.handleCredentials(w, r, s.auth.SignUp)
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.handleCredentials(w, r, s.auth.SignIn)
}

func (s *server) handleCredentials(w http.ResponseWriter, r *http.Request, call func(context.Context, string, string) (auth.Session, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	payload.Email = strings.TrimSpace(payload.Email)
	if !strings.Contains(payload.Email, "@") || len(payload.Password) < 6 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and a password of at least 6 characters are required"})
		return
	}

	session, err := call(ctx, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid email or password"})
			return
		}
		s.log.Error("identity provider call", slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "identity provider unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	s.auth.SignOut(token)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type contextKey struct{ name string }

var userContextKey = &contextKey{"user"}

func userFrom(ctx context.Context) (auth.User, bool) {
	user, ok := ctx.Value(userContextKey).(auth.User)
	return user, ok
}

// requireAuth resolves the bearer token through the identity client and puts
// the user on the request context.
func (s *server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		user, err := s.auth.Lookup(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid session"})
				return
			}
			s.log.Error("session lookup", slog.Any("err", err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "identity provider unavailable"})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func parseFilters(r *http.Request) catalog.FilterSet {
	q := r.URL.Query()
	return catalog.FilterSet{
		Make:     strings.TrimSpace(q.Get("make")),
		YearMin:  parseIntParam(q.Get("year_min")),
		YearMax:  parseIntParam(q.Get("year_max")),
		PriceMin: parseFloatParam(q.Get("price_min")),
		PriceMax: parseFloatParam(q.Get("price_max")),
	}
}

func parseIntParam(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func parseFloatParam(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
