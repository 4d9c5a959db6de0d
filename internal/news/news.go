package news

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/avtovision/car-catalog/backend/internal/models"
)

//go:embed articles.yaml
var rawArticles []byte

// Library holds the fixed editorial dataset. Articles are read-only and
// addressed by slug; there is no mutable store behind them.
type Library struct {
	articles []models.NewsArticle
	bySlug   map[string]models.NewsArticle
}

// Load parses the embedded dataset.
func Load() (*Library, error) {
	var parsed struct {
		Articles []models.NewsArticle `yaml:"articles"`
	}
	if err := yaml.Unmarshal(rawArticles, &parsed); err != nil {
		return nil, fmt.Errorf("parse articles dataset: %w", err)
	}

	bySlug := make(map[string]models.NewsArticle, len(parsed.Articles))
	for _, article := range parsed.Articles {
		if article.Slug == "" {
			return nil, fmt.Errorf("article %q has no slug", article.ID)
		}
		if _, ok := bySlug[article.Slug]; ok {
			return nil, fmt.Errorf("duplicate article slug %q", article.Slug)
		}
		bySlug[article.Slug] = article
	}

	return &Library{articles: parsed.Articles, bySlug: bySlug}, nil
}

// All returns a copy of every article in dataset order (newest first).
func (l *Library) All() []models.NewsArticle {
	return slices.Clone(l.articles)
}

// BySlug looks an article up by its routing key.
func (l *Library) BySlug(slug string) (models.NewsArticle, bool) {
	article, ok := l.bySlug[slug]
	return article, ok
}
