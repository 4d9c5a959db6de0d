package catalog

import (
	"sort"

	"github.com/avtovision/car-catalog/backend/internal/models"
)

// Makes returns the distinct make values present in the collection, sorted
// lexically. The caller must pass the full unfiltered collection: the
// selector offers every make regardless of the active filter.
func Makes(cars []models.Car) []string {
	seen := make(map[string]struct{}, len(cars))
	out := make([]string, 0, len(cars))
	for _, car := range cars {
		if _, ok := seen[car.Make]; ok {
			continue
		}
		seen[car.Make] = struct{}{}
		out = append(out, car.Make)
	}
	sort.Strings(out)
	return out
}

// MakeOptions prepends the "all makes" sentinel, which maps to an empty
// filter value, to the distinct make list.
func MakeOptions(cars []models.Car) []string {
	return append([]string{""}, Makes(cars)...)
}
