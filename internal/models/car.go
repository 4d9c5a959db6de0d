package models

// Car represents the canonical vehicle document stored in Elasticsearch.
// The ID is assigned by the store on insert and never changes afterwards.
type Car struct {
	ID         string   `json:"id" yaml:"id"`
	Make       string   `json:"make" yaml:"make"`
	Model      string   `json:"model" yaml:"model"`
	Year       int      `json:"year" yaml:"year"`
	Price      float64  `json:"price" yaml:"price"`
	Horsepower int      `json:"horsepower" yaml:"horsepower"`
	MPG        float64  `json:"mpg" yaml:"mpg"`
	ImageURL   string   `json:"imageUrl" yaml:"imageUrl"`
	ImageHint  string   `json:"imageHint,omitempty" yaml:"imageHint,omitempty"`
	Features   []string `json:"features" yaml:"features"`
}
