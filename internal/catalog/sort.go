package catalog

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/avtovision/car-catalog/backend/internal/models"
)

// SortOption names one of the six fixed listing orderings.
type SortOption string

const (
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
	SortYearAsc   SortOption = "year_asc"
	SortYearDesc  SortOption = "year_desc"
	SortMakeAsc   SortOption = "make_asc"
	SortMakeDesc  SortOption = "make_desc"
)

// DefaultSort is applied when no explicit option is chosen.
const DefaultSort = SortPriceAsc

// ParseSortOption maps a raw query value onto a sort option, falling back to
// the default for anything unknown.
func ParseSortOption(raw string) SortOption {
	switch SortOption(raw) {
	case SortPriceAsc, SortPriceDesc, SortYearAsc, SortYearDesc, SortMakeAsc, SortMakeDesc:
		return SortOption(raw)
	default:
		return DefaultSort
	}
}

// Sort returns a freshly ordered copy of cars. The sort is stable: records
// with equal keys keep their relative input order. Make ordering uses
// locale-aware collation, not raw byte comparison.
func Sort(cars []models.Car, opt SortOption) []models.Car {
	out := slices.Clone(cars)

	switch opt {
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b models.Car) int { return cmp.Compare(b.Price, a.Price) })
	case SortYearAsc:
		slices.SortStableFunc(out, func(a, b models.Car) int { return cmp.Compare(a.Year, b.Year) })
	case SortYearDesc:
		slices.SortStableFunc(out, func(a, b models.Car) int { return cmp.Compare(b.Year, a.Year) })
	case SortMakeAsc:
		col := collate.New(language.Und)
		slices.SortStableFunc(out, func(a, b models.Car) int { return col.CompareString(a.Make, b.Make) })
	case SortMakeDesc:
		col := collate.New(language.Und)
		slices.SortStableFunc(out, func(a, b models.Car) int { return col.CompareString(b.Make, a.Make) })
	default:
		slices.SortStableFunc(out, func(a, b models.Car) int { return cmp.Compare(a.Price, b.Price) })
	}

	return out
}
