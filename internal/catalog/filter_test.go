package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avtovision/car-catalog/backend/internal/catalog"
	"github.com/avtovision/car-catalog/backend/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func sampleCars() []models.Car {
	return []models.Car{
		{ID: "1", Make: "Ford", Model: "Focus", Year: 2020, Price: 20000, Horsepower: 150, MPG: 30},
		{ID: "2", Make: "Ford", Model: "Mustang", Year: 2019, Price: 25000, Horsepower: 450, MPG: 18},
		{ID: "3", Make: "Tesla", Model: "Model 3", Year: 2022, Price: 40000, Horsepower: 425, MPG: 131},
		{ID: "4", Make: "Skoda", Model: "Octavia", Year: 2020, Price: 21500, Horsepower: 150, MPG: 35},
	}
}

func ids(cars []models.Car) []string {
	out := make([]string, 0, len(cars))
	for _, car := range cars {
		out = append(out, car.ID)
	}
	return out
}

func TestFilterCombinesDefinedConstraints(t *testing.T) {
	cars := sampleCars()

	tests := []struct {
		name string
		f    catalog.FilterSet
		want []string
	}{
		{name: "no constraints", f: catalog.FilterSet{}, want: []string{"1", "2", "3", "4"}},
		{name: "make only", f: catalog.FilterSet{Make: "Ford"}, want: []string{"1", "2"}},
		{name: "year range", f: catalog.FilterSet{YearMin: intPtr(2020), YearMax: intPtr(2021)}, want: []string{"1", "4"}},
		{name: "price range", f: catalog.FilterSet{PriceMin: floatPtr(21000), PriceMax: floatPtr(40000)}, want: []string{"2", "3", "4"}},
		{name: "all fields", f: catalog.FilterSet{Make: "Ford", YearMin: intPtr(2019), YearMax: intPtr(2019), PriceMin: floatPtr(25000), PriceMax: floatPtr(25000)}, want: []string{"2"}},
		{name: "no matches", f: catalog.FilterSet{Make: "Lada"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Filter(cars, tt.f)
			require.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterBoundsAreInclusive(t *testing.T) {
	cars := sampleCars()

	got := catalog.Filter(cars, catalog.FilterSet{YearMin: intPtr(2019), YearMax: intPtr(2022)})
	require.Len(t, got, 4)

	got = catalog.Filter(cars, catalog.FilterSet{PriceMin: floatPtr(20000), PriceMax: floatPtr(20000)})
	require.Equal(t, []string{"1"}, ids(got))
}

func TestFilterMakeIsCaseSensitive(t *testing.T) {
	got := catalog.Filter(sampleCars(), catalog.FilterSet{Make: "ford"})
	require.Empty(t, got)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	cars := sampleCars()
	original := sampleCars()

	out := catalog.Filter(cars, catalog.FilterSet{Make: "Ford"})
	require.Equal(t, original, cars)

	// The result is a fresh slice: changing it must not leak back.
	out[0].Make = "mutated"
	require.Equal(t, original, cars)
}

func TestFilterResultsSatisfyConstraints(t *testing.T) {
	cars := sampleCars()
	f := catalog.FilterSet{YearMin: intPtr(2020), PriceMax: floatPtr(30000)}

	kept := catalog.Filter(cars, f)
	keptIDs := make(map[string]bool, len(kept))
	for _, car := range kept {
		require.GreaterOrEqual(t, car.Year, 2020)
		require.LessOrEqual(t, car.Price, 30000.0)
		keptIDs[car.ID] = true
	}

	for _, car := range cars {
		if keptIDs[car.ID] {
			continue
		}
		satisfies := car.Year >= 2020 && car.Price <= 30000
		require.False(t, satisfies, "car %s satisfies the filter but was excluded", car.ID)
	}
}
