package catalog

import (
	"slices"
	"sync"
	"time"

	"github.com/avtovision/car-catalog/backend/internal/models"
)

// State describes how much of the local catalog copy can be trusted.
type State int

const (
	// StateNotLoaded means no snapshot has been applied yet.
	StateNotLoaded State = iota
	// StateReady means the last refresh succeeded.
	StateReady
	// StateDegraded means the last refresh failed; the data is the previous
	// snapshot, left in place rather than cleared.
	StateDegraded
)

// Snapshot is a read-only, point-in-time view of the catalog. Cars is a copy;
// callers may do whatever they like with it.
type Snapshot struct {
	State     State
	Cars      []models.Car
	Err       error
	UpdatedAt time.Time
}

// Cache owns the local copy of the record collection. Every update replaces
// the whole collection; there is no partial merge.
type Cache struct {
	mu        sync.RWMutex
	state     State
	cars      []models.Car
	err       error
	updatedAt time.Time
}

// NewCache returns an empty cache in the not-loaded state.
func NewCache() *Cache {
	return &Cache{}
}

// Replace installs a full snapshot and clears any previous error.
func (c *Cache) Replace(cars []models.Car) {
	copied := slices.Clone(cars)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateReady
	c.cars = copied
	c.err = nil
	c.updatedAt = time.Now()
}

// Fail records a refresh error. The last known collection stays visible.
func (c *Cache) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDegraded
	c.err = err
}

// Snapshot returns a defensive copy of the current state.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		State:     c.state,
		Cars:      slices.Clone(c.cars),
		Err:       c.err,
		UpdatedAt: c.updatedAt,
	}
}

// Get looks a car up in the local collection only. No I/O happens here.
func (c *Cache) Get(id string) (models.Car, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, car := range c.cars {
		if car.ID == id {
			return car, true
		}
	}
	return models.Car{}, false
}
