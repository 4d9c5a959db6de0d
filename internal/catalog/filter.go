package catalog

import "github.com/avtovision/car-catalog/backend/internal/models"

// FilterSet holds the optional listing constraints. A nil bound or an empty
// make imposes no constraint; defined bounds are inclusive on both ends.
type FilterSet struct {
	Make     string
	YearMin  *int
	YearMax  *int
	PriceMin *float64
	PriceMax *float64
}

// Filter returns the cars satisfying every defined constraint. The input
// slice is never modified; the result is always a fresh slice, and an empty
// result is a valid loaded result.
func Filter(cars []models.Car, f FilterSet) []models.Car {
	out := make([]models.Car, 0, len(cars))
	for _, car := range cars {
		if matches(car, f) {
			out = append(out, car)
		}
	}
	return out
}

func matches(car models.Car, f FilterSet) bool {
	// Make is an exact, case-sensitive match.
	if f.Make != "" && car.Make != f.Make {
		return false
	}
	if f.YearMin != nil && car.Year < *f.YearMin {
		return false
	}
	if f.YearMax != nil && car.Year > *f.YearMax {
		return false
	}
	if f.PriceMin != nil && car.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && car.Price > *f.PriceMax {
		return false
	}
	return true
}
