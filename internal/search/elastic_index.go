package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	perrors "github.com/abgdnv/productcatalog/internal/errors"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// indexMapping is applied when the index is created by EnsureIndex.
const indexMapping = `{
  "mappings": {
    "properties": {
      "description": {"type": "text"},
      "word_count":  {"type": "integer"}
    }
  }
}`

// ElasticConfig holds the per-index settings of ElasticIndex.
type ElasticConfig struct {
	Index      string
	Timeout    time.Duration
	Refresh    string // refresh policy for writes: "", "true", "false" or "wait_for"
	MaxResults int
}

// ElasticIndex implements ProductIndex using Elasticsearch.
type ElasticIndex struct {
	client *elasticsearch.Client
	cfg    ElasticConfig
}

// NewElasticIndex creates a new ProductIndex backed by an Elasticsearch index.
func NewElasticIndex(client *elasticsearch.Client, cfg ElasticConfig) *ElasticIndex {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 100
	}
	return &ElasticIndex{client: client, cfg: cfg}
}

// EnsureIndex creates the index with its mapping if it does not exist yet.
func (e *ElasticIndex) EnsureIndex(ctx context.Context) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	res, err := e.client.Indices.Exists([]string{e.cfg.Index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return unavailable("failed to check index", err)
	}
	drain(res)
	switch {
	case res.StatusCode == http.StatusOK:
		return nil
	case res.StatusCode != http.StatusNotFound:
		return responseError("failed to check index", res)
	}

	res, err = e.client.Indices.Create(e.cfg.Index,
		e.client.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return unavailable("failed to create index", err)
	}
	defer drain(res)
	if res.IsError() {
		// another instance may have created it concurrently
		if res.StatusCode == http.StatusBadRequest {
			return nil
		}
		return responseError("failed to create index", res)
	}
	return nil
}

// Upsert indexes the document under the given ID, replacing any previous version.
func (e *ElasticIndex) Upsert(ctx context.Context, id string, doc Document) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode shadow document: %w", err)
	}
	opts := []func(*esapi.IndexRequest){
		e.client.Index.WithDocumentID(id),
		e.client.Index.WithContext(ctx),
	}
	if e.cfg.Refresh != "" {
		opts = append(opts, e.client.Index.WithRefresh(e.cfg.Refresh))
	}
	res, err := e.client.Index(e.cfg.Index, bytes.NewReader(body), opts...)
	if err != nil {
		return unavailable("failed to index document", err)
	}
	defer drain(res)
	if res.IsError() {
		return responseError("failed to index document", res)
	}
	return nil
}

// DeleteByID deletes the document with the given ID.
func (e *ElasticIndex) DeleteByID(ctx context.Context, id string) (bool, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	opts := []func(*esapi.DeleteRequest){e.client.Delete.WithContext(ctx)}
	if e.cfg.Refresh != "" {
		opts = append(opts, e.client.Delete.WithRefresh(e.cfg.Refresh))
	}
	res, err := e.client.Delete(e.cfg.Index, id, opts...)
	if err != nil {
		return false, unavailable("failed to delete document", err)
	}
	defer drain(res)
	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, responseError("failed to delete document", res)
	}
	var body struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return body.Result == "deleted", nil
}

// Match returns the IDs of documents matching text on field, most relevant first.
func (e *ElasticIndex) Match(ctx context.Context, field, text string) ([]string, error) {
	query := map[string]any{
		"size":    e.cfg.MaxResults,
		"_source": false,
		"query": map[string]any{
			"match": map[string]any{field: text},
		},
	}
	var body struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	found, err := e.search(ctx, query, &body)
	if err != nil || !found {
		return []string{}, err
	}
	ids := make([]string, 0, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Average runs an avg aggregation over field.
func (e *ElasticIndex) Average(ctx context.Context, field string) (float64, bool, error) {
	aggName := "avg_" + field
	query := map[string]any{
		"size": 0,
		"aggs": map[string]any{
			aggName: map[string]any{"avg": map[string]any{"field": field}},
		},
	}
	var body struct {
		Aggregations map[string]struct {
			Value *float64 `json:"value"`
		} `json:"aggregations"`
	}
	found, err := e.search(ctx, query, &body)
	if err != nil || !found {
		return 0, false, err
	}
	agg, ok := body.Aggregations[aggName]
	if !ok || agg.Value == nil {
		return 0, false, nil
	}
	return *agg.Value, true, nil
}

// search executes a search request and decodes the response into out.
// It returns false if the index does not exist.
func (e *ElasticIndex) search(ctx context.Context, query map[string]any, out any) (bool, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return false, fmt.Errorf("failed to encode search query: %w", err)
	}
	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.cfg.Index),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return false, unavailable("failed to search index", err)
	}
	defer drain(res)
	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, responseError("failed to search index", res)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode search response: %w", err)
	}
	return true, nil
}

func (e *ElasticIndex) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.cfg.Timeout)
}

// responseError converts an error response into an error.
// Server-side failures are reported as ErrIndexUnavailable.
func responseError(msg string, res *esapi.Response) error {
	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%s: %w: %s", msg, perrors.ErrIndexUnavailable, res.Status())
	}
	return fmt.Errorf("%s: %s", msg, res.String())
}

func unavailable(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, perrors.ErrIndexUnavailable, err)
}

// drain consumes and closes the response body so the connection can be reused.
func drain(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
