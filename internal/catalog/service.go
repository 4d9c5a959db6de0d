package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avtovision/car-catalog/backend/internal/metrics"
	"github.com/avtovision/car-catalog/backend/internal/models"
)

// Store is the remote document-store surface the catalog depends on.
type Store interface {
	// FetchCatalog returns the full collection, ordered by year descending.
	FetchCatalog(ctx context.Context, limit int) ([]models.Car, error)
	// GetCar performs a point read. The bool reports existence; a non-nil
	// error means the store could not be reached, which is not the same
	// thing as not-found.
	GetCar(ctx context.Context, id string) (models.Car, bool, error)
	// InsertCar writes a new record and returns the assigned identifier.
	InsertCar(ctx context.Context, car models.Car) (string, error)
}

// Notifier publishes a change event after a successful write.
type Notifier interface {
	CatalogChanged(ctx context.Context, id string) error
}

// Service bridges the remote store and the local collection copy. The cache
// is owned here; consumers only ever receive snapshots.
type Service struct {
	store   Store
	notify  Notifier
	cache   *Cache
	maxDocs int
	log     *slog.Logger
}

// NewService wires the catalog service.
func NewService(store Store, notify Notifier, cache *Cache, maxDocs int, log *slog.Logger) *Service {
	return &Service{store: store, notify: notify, cache: cache, maxDocs: maxDocs, log: log}
}

// Refresh replaces the local collection with the store's current contents.
// On failure the previous snapshot stays visible and the cache is degraded.
func (s *Service) Refresh(ctx context.Context) error {
	cars, err := s.store.FetchCatalog(ctx, s.maxDocs)
	if err != nil {
		metrics.CatalogRefreshFailures.Inc()
		s.cache.Fail(err)
		return fmt.Errorf("fetch catalog: %w", err)
	}
	metrics.CatalogRefreshes.Inc()
	s.cache.Replace(cars)
	return nil
}

// Degrade flags the local collection as stale without touching its contents.
func (s *Service) Degrade(err error) {
	s.cache.Fail(err)
}

// Snapshot exposes the current local view.
func (s *Service) Snapshot() Snapshot {
	return s.cache.Snapshot()
}

// GetCar resolves a record by identifier: local collection first with no
// network involved, then a direct remote read. Outcomes are found, not-found
// (false with nil error) and error, never conflated.
func (s *Service) GetCar(ctx context.Context, id string) (models.Car, bool, error) {
	if car, ok := s.cache.Get(id); ok {
		return car, true, nil
	}
	return s.store.GetCar(ctx, id)
}

// AddCar validates and submits a new record, then publishes a change event.
// The record becomes visible in the local collection only once the live
// subscription delivers that event; there is no optimistic local append, so
// callers must not expect the identifier to resolve locally right away.
func (s *Service) AddCar(ctx context.Context, car models.Car) (string, error) {
	if err := ValidateCar(car); err != nil {
		return "", err
	}

	id, err := s.store.InsertCar(ctx, car)
	if err != nil {
		return "", fmt.Errorf("insert car: %w", err)
	}

	if err := s.notify.CatalogChanged(ctx, id); err != nil {
		// The write itself succeeded; any later change event will carry
		// this record along with it.
		s.log.Warn("publish change event", slog.String("id", id), slog.Any("err", err))
	}

	return id, nil
}
