package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/avtovision/car-catalog/backend/internal/models"
)

// Client wraps go-elasticsearch with the catalog's document operations.
type Client struct {
	es    *elasticsearch.Client
	index string
	log   *slog.Logger
}

// New instantiates the Elasticsearch client.
func New(addr, index string, logger *slog.Logger) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{addr},
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{es: es, index: index, log: logger}, nil
}

// FetchCatalog returns the whole collection, ordered by year descending at
// the store level. Limit caps the snapshot size.
func (c *Client) FetchCatalog(ctx context.Context, limit int) ([]models.Car, error) {
	if limit <= 0 {
		limit = 10_000
	}

	body := map[string]any{
		"size":  limit,
		"query": map[string]any{"match_all": map[string]any{}},
		"sort": []map[string]any{
			{"year": map[string]any{"order": "desc"}},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search catalog failed: %s", strings.TrimSpace(string(data)))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string     `json:"_id"`
				Source models.Car `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	cars := make([]models.Car, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		car := hit.Source
		car.ID = hit.ID
		cars = append(cars, car)
	}

	return cars, nil
}

// GetCar performs a point read by identifier. The bool reports existence; an
// error means the store itself was unreachable or refused the request.
func (c *Client) GetCar(ctx context.Context, id string) (models.Car, bool, error) {
	req := esapi.GetRequest{
		Index:      c.index,
		DocumentID: id,
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return models.Car{}, false, fmt.Errorf("get car: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return models.Car{}, false, nil
	}

	if res.IsError() {
		data, _ := io.ReadAll(res.Body)
		return models.Car{}, false, fmt.Errorf("get car failed: %s", strings.TrimSpace(string(data)))
	}

	var parsed struct {
		ID     string     `json:"_id"`
		Source models.Car `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return models.Car{}, false, fmt.Errorf("decode car response: %w", err)
	}

	car := parsed.Source
	car.ID = parsed.ID
	return car, true, nil
}

// InsertCar writes a new record and returns the store-assigned identifier.
// The document is not refreshed into search immediately; visibility waits
// for the live subscription.
func (c *Client) InsertCar(ctx context.Context, car models.Car) (string, error) {
	car.ID = uuid.NewString()

	payload, err := json.Marshal(car)
	if err != nil {
		return "", fmt.Errorf("marshal car: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      c.index,
		DocumentID: car.ID,
		Body:       bytes.NewReader(payload),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return "", fmt.Errorf("index car: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("index car failed: %s", strings.TrimSpace(string(body)))
	}

	return car.ID, nil
}

// Health pings Elasticsearch to ensure connectivity.
func (c *Client) Health(ctx context.Context) error {
	res, err := c.es.Cluster.Health(c.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(res.Body)
		return fmt.Errorf("cluster health bad: %s", strings.TrimSpace(string(data)))
	}
	return nil
}
