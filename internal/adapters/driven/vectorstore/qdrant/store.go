// Package qdrant provides a vector store adapter backed by the Qdrant REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/grill-labs/aerobot/internal/core/domain"
	"github.com/grill-labs/aerobot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultURL     = "http://localhost:6333"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Qdrant vector store.
type Config struct {
	// URL is the Qdrant REST endpoint (default: http://localhost:6333).
	URL string

	// APIKey authenticates requests when the instance requires it.
	APIKey string

	// Collection is the collection name (required).
	Collection string

	// Dimensions is the vector size used when creating the collection
	// (required). Must match the embedding model.
	Dimensions int

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store talks to Qdrant over its REST API. Vectors are compared with
// cosine distance, so scores returned by Search are cosine similarities.
type Store struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
	dimensions int
	log        *zap.Logger
}

// pointRecord is the Qdrant point upsert format.
type pointRecord struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// searchRequest is the Qdrant /points/search request format.
type searchRequest struct {
	Vector         []float32 `json:"vector"`
	Limit          int       `json:"limit"`
	ScoreThreshold float64   `json:"score_threshold,omitempty"`
	WithPayload    bool      `json:"with_payload"`
}

// searchResponse is the Qdrant /points/search response format.
type searchResponse struct {
	Result []struct {
		ID      string         `json:"id"`
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
	Status any `json:"status"`
}

// collectionInfoResponse carries the fields we read from collection info.
type collectionInfoResponse struct {
	Result struct {
		PointsCount int `json:"points_count"`
	} `json:"result"`
}

// NewStore creates a new Qdrant vector store.
func NewStore(cfg Config, log *zap.Logger) (*Store, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant: collection name is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: vector dimensions must be positive, got %d", cfg.Dimensions)
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
		log:        log,
	}, nil
}

// EnsureCollection creates the collection if it does not exist. An
// existing collection is left untouched, whatever its schema.
func (s *Store) EnsureCollection(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodGet, s.collectionURL(), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return s.createCollection(ctx)
	default:
		return fmt.Errorf("%w: get collection %q: %s", domain.ErrStoreUnavailable, s.collection, resp.Status)
	}
}

// RecreateCollection drops the collection and creates it fresh. A missing
// collection is not an error.
func (s *Store) RecreateCollection(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodDelete, s.collectionURL(), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: delete collection %q: %s", domain.ErrStoreUnavailable, s.collection, resp.Status)
	}

	s.log.Info("collection dropped", zap.String("collection", s.collection))
	return s.createCollection(ctx)
}

func (s *Store) createCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     s.dimensions,
			"distance": "Cosine",
		},
	}
	resp, err := s.do(ctx, http.MethodPut, s.collectionURL(), body)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: create collection %q: %s: %s", domain.ErrStoreUnavailable, s.collection, resp.Status, string(respBody))
	}

	s.log.Info("collection created",
		zap.String("collection", s.collection),
		zap.Int("dimensions", s.dimensions))
	return nil
}

// Upsert writes the documents as points, replacing any point with the
// same ID. The call waits until Qdrant has applied the change.
func (s *Store) Upsert(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]pointRecord, len(docs))
	for i, doc := range docs {
		points[i] = pointRecord{
			ID:      doc.ID,
			Vector:  doc.Vector,
			Payload: doc.Payload,
		}
	}

	resp, err := s.do(ctx, http.MethodPut, s.collectionURL()+"/points?wait=true", map[string]any{"points": points})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: upsert %d points: %s: %s", domain.ErrStoreUnavailable, len(points), resp.Status, string(respBody))
	}

	s.log.Debug("points upserted",
		zap.String("collection", s.collection),
		zap.Int("count", len(points)))
	return nil
}

// Search returns up to topK points by cosine similarity. Points scoring
// below scoreThreshold are filtered out by Qdrant itself.
func (s *Store) Search(ctx context.Context, vector []float32, topK int, scoreThreshold float64) ([]domain.SearchResult, error) {
	req := searchRequest{
		Vector:         vector,
		Limit:          topK,
		ScoreThreshold: scoreThreshold,
		WithPayload:    true,
	}

	resp, err := s.do(ctx, http.MethodPost, s.collectionURL()+"/points/search", req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: search: %s: %s", domain.ErrStoreUnavailable, resp.Status, string(respBody))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %w", domain.ErrStoreUnavailable, err)
	}

	results := make([]domain.SearchResult, 0, len(searchResp.Result))
	for _, hit := range searchResp.Result {
		result := domain.SearchResult{
			ID:       hit.ID,
			Score:    hit.Score,
			Metadata: make(map[string]any, len(hit.Payload)),
		}
		for key, value := range hit.Payload {
			if key == "text" {
				if text, ok := value.(string); ok {
					result.Text = text
				}
				continue
			}
			result.Metadata[key] = value
		}
		results = append(results, result)
	}
	return results, nil
}

// Count reports the number of points in the collection. It is advisory:
// any failure is logged and reported as zero rather than returned.
func (s *Store) Count(ctx context.Context) int {
	resp, err := s.do(ctx, http.MethodGet, s.collectionURL(), nil)
	if err != nil {
		s.log.Warn("collection count unavailable", zap.Error(err))
		return 0
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.log.Warn("collection count unavailable",
			zap.String("collection", s.collection),
			zap.String("status", resp.Status))
		return 0
	}

	var info collectionInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		s.log.Warn("collection count unavailable", zap.Error(err))
		return 0
	}
	return info.Result.PointsCount
}

func (s *Store) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", s.baseURL, s.collection)
}

// do builds and issues a JSON request against the Qdrant API.
func (s *Store) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}
