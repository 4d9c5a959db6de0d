package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avtovision/car-catalog/backend/internal/catalog"
	"github.com/avtovision/car-catalog/backend/internal/models"
)

func TestSortOrderings(t *testing.T) {
	cars := sampleCars()

	tests := []struct {
		opt  catalog.SortOption
		want []string
	}{
		{opt: catalog.SortPriceAsc, want: []string{"1", "4", "2", "3"}},
		{opt: catalog.SortPriceDesc, want: []string{"3", "2", "4", "1"}},
		{opt: catalog.SortYearAsc, want: []string{"2", "1", "4", "3"}},
		{opt: catalog.SortYearDesc, want: []string{"3", "1", "4", "2"}},
		{opt: catalog.SortMakeAsc, want: []string{"1", "2", "4", "3"}},
		{opt: catalog.SortMakeDesc, want: []string{"3", "4", "1", "2"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.opt), func(t *testing.T) {
			got := catalog.Sort(cars, tt.opt)
			require.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSortIsStable(t *testing.T) {
	cars := []models.Car{
		{ID: "a", Make: "Ford", Year: 2020, Price: 20000},
		{ID: "b", Make: "Ford", Year: 2021, Price: 20000},
		{ID: "c", Make: "Ford", Year: 2019, Price: 20000},
	}

	// Equal price keys: input order must survive.
	got := catalog.Sort(cars, catalog.SortPriceAsc)
	require.Equal(t, []string{"a", "b", "c"}, ids(got))

	// Equal make keys behave the same way.
	got = catalog.Sort(cars, catalog.SortMakeAsc)
	require.Equal(t, []string{"a", "b", "c"}, ids(got))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	cars := sampleCars()
	original := sampleCars()

	_ = catalog.Sort(cars, catalog.SortPriceDesc)
	require.Equal(t, original, cars)
}

func TestSortIsDeterministic(t *testing.T) {
	cars := sampleCars()
	first := catalog.Sort(catalog.Filter(cars, catalog.FilterSet{Make: "Ford"}), catalog.SortPriceDesc)
	second := catalog.Sort(catalog.Filter(cars, catalog.FilterSet{Make: "Ford"}), catalog.SortPriceDesc)
	require.Equal(t, first, second)
}

func TestFilterMakeThenSortPriceDesc(t *testing.T) {
	cars := []models.Car{
		{Make: "Ford", Year: 2020, Price: 20000},
		{Make: "Ford", Year: 2019, Price: 25000},
		{Make: "Tesla", Year: 2022, Price: 40000},
	}

	got := catalog.Sort(catalog.Filter(cars, catalog.FilterSet{Make: "Ford"}), catalog.SortPriceDesc)

	require.Len(t, got, 2)
	require.Equal(t, 2019, got[0].Year)
	require.Equal(t, 25000.0, got[0].Price)
	require.Equal(t, 2020, got[1].Year)
	require.Equal(t, 20000.0, got[1].Price)
}

func TestParseSortOption(t *testing.T) {
	require.Equal(t, catalog.SortYearDesc, catalog.ParseSortOption("year_desc"))
	require.Equal(t, catalog.DefaultSort, catalog.ParseSortOption(""))
	require.Equal(t, catalog.DefaultSort, catalog.ParseSortOption("bogus"))
}
