package searchindex

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// MeiliIndex is an Index backed by a Meilisearch-compatible HTTP API.
type MeiliIndex struct {
	client    *resty.Client
	indexName string
}

// Config holds the connection options for the external search engine.
type Config struct {
	URL       string
	APIKey    string
	IndexName string
}

// New builds a MeiliIndex client. It performs no network call itself;
// connectivity problems surface on the first Upsert/Remove call.
func New(cfg Config) *MeiliIndex {
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetAuthToken(cfg.APIKey)

	indexName := cfg.IndexName
	if indexName == "" {
		indexName = "skills"
	}

	return &MeiliIndex{client: client, indexName: indexName}
}

// Upsert indexes or replaces a document by ID.
func (m *MeiliIndex) Upsert(ctx context.Context, doc Document) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody([]Document{doc}).
		Post(fmt.Sprintf("/indexes/%s/documents", m.indexName))
	if err != nil {
		return fmt.Errorf("search-index upsert: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("search-index upsert: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// Remove deletes a document by ID.
func (m *MeiliIndex) Remove(ctx context.Context, id string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/indexes/%s/documents/%s", m.indexName, id))
	if err != nil {
		return fmt.Errorf("search-index remove: %w", err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("search-index remove: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
