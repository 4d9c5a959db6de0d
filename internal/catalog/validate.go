package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avtovision/car-catalog/backend/internal/models"
)

// ErrInvalidCar marks a record rejected before it reaches the store.
var ErrInvalidCar = errors.New("invalid car")

// MinYear is the oldest model year accepted.
const MinYear = 1900

// MaxYear is the newest model year accepted (next year's models are sold
// ahead of the calendar).
func MaxYear() int {
	return time.Now().Year() + 1
}

// ValidateCar checks a record against the catalog's field constraints. The
// identifier is ignored: the store assigns it on insert.
func ValidateCar(car models.Car) error {
	if strings.TrimSpace(car.Make) == "" {
		return fmt.Errorf("%w: make is required", ErrInvalidCar)
	}
	if strings.TrimSpace(car.Model) == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidCar)
	}
	if car.Year < MinYear || car.Year > MaxYear() {
		return fmt.Errorf("%w: year %d outside %d..%d", ErrInvalidCar, car.Year, MinYear, MaxYear())
	}
	if car.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidCar)
	}
	if car.Horsepower <= 0 {
		return fmt.Errorf("%w: horsepower must be positive", ErrInvalidCar)
	}
	if car.MPG <= 0 {
		return fmt.Errorf("%w: mpg must be positive", ErrInvalidCar)
	}
	if hint := strings.TrimSpace(car.ImageHint); hint != "" && len(strings.Fields(hint)) > 2 {
		return fmt.Errorf("%w: image hint must be at most two words", ErrInvalidCar)
	}
	return nil
}
