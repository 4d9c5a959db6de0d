package news_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avtovision/car-catalog/backend/internal/news"
)

func TestLoadDataset(t *testing.T) {
	library, err := news.Load()
	require.NoError(t, err)

	articles := library.All()
	require.NotEmpty(t, articles)
	for _, article := range articles {
		require.NotEmpty(t, article.Slug)
		require.NotEmpty(t, article.Title)
		require.NotEmpty(t, article.Content)
	}
}

func TestBySlug(t *testing.T) {
	library, err := news.Load()
	require.NoError(t, err)

	article, ok := library.BySlug("future-of-electric-cars-2025")
	require.True(t, ok)
	require.Equal(t, "Alex Johnson", article.Author)

	_, ok = library.BySlug("no-such-article")
	require.False(t, ok)
}

func TestAllReturnsACopy(t *testing.T) {
	library, err := news.Load()
	require.NoError(t, err)

	first := library.All()
	first[0].Title = "mutated"

	fresh := library.All()
	require.NotEqual(t, "mutated", fresh[0].Title)
}
