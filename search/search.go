// Package search keeps the secondary user index in sync with the
// relational store and serves fuzzy lookups against it. The relational
// store stays the source of truth: indexing is best-effort with no retry,
// and deletions are never propagated.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/yacinebz/go-crud-soft-delete/models"
)

// UsersIndex is the name of the index holding user documents.
const UsersIndex = "users"

// Config holds the search cluster connection parameters.
type Config struct {
	URL string
}

// Service wraps the elasticsearch client.
type Service struct {
	es *elasticsearch.Client
}

// UserDocument is the searchable projection of a user.
type UserDocument struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// New builds a search service for the given cluster URL. The client is
// lazy; connectivity problems surface on the first call.
func New(cfg *Config) (*Service, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &Service{es: es}, nil
}

// IndexUser upserts the searchable fields of a user under its id. The
// write is refreshed immediately so a search issued right after returns
// the document (read-after-write over throughput; write volume is low).
func (s *Service) IndexUser(ctx context.Context, user *models.User) error {
	doc := map[string]string{
		"name":  user.Name,
		"email": user.Email,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode user document: %w", err)
	}

	res, err := s.es.Index(
		UsersIndex,
		bytes.NewReader(body),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(strconv.FormatUint(uint64(user.ID), 10)),
		s.es.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("failed to index user %d: %w", user.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index user %d: %s", user.ID, res.String())
	}

	return nil
}

// SearchUsers runs a fuzzy multi_match over name and email and returns the
// matching documents in ranking order.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]UserDocument, error) {
	payload := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name", "email"},
				"fuzziness": "AUTO",
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(UsersIndex),
		s.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search request failed: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string       `json:"_id"`
				Source UserDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs := make([]UserDocument, 0, len(parsed.Hits.Hits))

	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		if id, err := strconv.ParseUint(hit.ID, 10, 64); err == nil {
			doc.ID = uint(id)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

// Health returns the cluster health status string for the health endpoint.
func (s *Service) Health(ctx context.Context) (string, error) {
	res, err := s.es.Cluster.Health(s.es.Cluster.Health.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("cluster health request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("cluster health request failed: %s", res.String())
	}

	var parsed struct {
		Status string `json:"status"`
	}

	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode cluster health response: %w", err)
	}

	return parsed.Status, nil
}
