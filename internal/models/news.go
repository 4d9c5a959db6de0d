package models

// NewsArticle is a read-only editorial entry. Articles come from a fixed
// dataset and are addressed by slug, not by store identifier.
type NewsArticle struct {
	ID       string `json:"id" yaml:"id"`
	Slug     string `json:"slug" yaml:"slug"`
	Title    string `json:"title" yaml:"title"`
	Date     string `json:"date" yaml:"date"`
	Author   string `json:"author" yaml:"author"`
	ImageURL string `json:"imageUrl" yaml:"imageUrl"`
	Summary  string `json:"summary" yaml:"summary"`
	Content  string `json:"content" yaml:"content"`
}
