package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Common contains Elasticsearch parameters shared by every service.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
}

// API describes configuration for the HTTP backend.
type API struct {
	Common
	BindAddr        string
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaConsumer   string
	CatalogMaxDocs  int
	IdentityBaseURL string
	IdentityAPIKey  string
	GeminiAPIKey    string
	GeminiModel     string
	SessionTTL      time.Duration
	SessionCapacity int
}

// Seed configures the one-shot catalog loader.
type Seed struct {
	Common
	KafkaBrokers []string
	KafkaTopic   string
	DatasetPath  string
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "cars"),
		},
		BindAddr:        getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		KafkaBrokers:    splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "cars_changed"),
		KafkaConsumer:   getEnv("KAFKA_CONSUMER_GROUP", "catalog-api"),
		CatalogMaxDocs:  getInt("CATALOG_MAX_DOCS", 10_000),
		IdentityBaseURL: getEnv("IDENTITY_BASE_URL", "https://identitytoolkit.googleapis.com/v1"),
		IdentityAPIKey:  getEnv("IDENTITY_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		SessionTTL:      getDuration("SESSION_TTL", "1h"),
		SessionCapacity: getInt("SESSION_CAPACITY", 10_000),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.CatalogMaxDocs <= 0 {
		return nil, fmt.Errorf("CATALOG_MAX_DOCS must be positive")
	}
	if c.IdentityAPIKey == "" {
		return nil, fmt.Errorf("IDENTITY_API_KEY is required")
	}
	if c.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SessionCapacity <= 0 {
		return nil, fmt.Errorf("SESSION_CAPACITY must be positive")
	}

	return c, nil
}

// LoadSeed builds a Seed config from environment variables.
func LoadSeed() (*Seed, error) {
	c := &Seed{
		Common: Common{
			ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
			ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "cars"),
		},
		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "cars_changed"),
		DatasetPath:  getEnv("SEED_DATASET", "seed/cars.yaml"),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if strings.TrimSpace(c.DatasetPath) == "" {
		return nil, fmt.Errorf("SEED_DATASET must point to a dataset file")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
