// internal/store/elasticsearch.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/common/metrics"
)

const defaultFindSize = 1000

// ElasticsearchStore implements Store on top of an Elasticsearch cluster,
// one index per collection. Inserts wait for refresh so seed data is
// findable on the next request; that is a mitigation, not a read-after-write
// guarantee.
type ElasticsearchStore struct {
	client *elasticsearch.Client
	logger logger.Logger
}

func NewElasticsearchStore(client *elasticsearch.Client, log logger.Logger) *ElasticsearchStore {
	return &ElasticsearchStore{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "elasticsearch-store"}),
	}
}

func (s *ElasticsearchStore) InsertOne(ctx context.Context, collection string, doc map[string]interface{}) (string, error) {
	id := uuid.NewString()

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      collection,
		DocumentID: id,
		Body:       strings.NewReader(string(body)),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("insert", collection, "error").Inc()
		return "", fmt.Errorf("index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.StoreOperationsTotal.WithLabelValues("insert", collection, "error").Inc()
		return "", fmt.Errorf("index document: %s", res.Status())
	}

	metrics.StoreOperationsTotal.WithLabelValues("insert", collection, "ok").Inc()
	return id, nil
}

func (s *ElasticsearchStore) Find(ctx context.Context, collection string, filter map[string]interface{}, sortField string) ([]Document, error) {
	queryBody := map[string]interface{}{
		"query": buildFilterQuery(filter),
	}
	if sortField != "" {
		queryBody["sort"] = []interface{}{
			map[string]interface{}{
				keywordField(sortField): map[string]interface{}{"order": "asc"},
			},
		}
	}

	body, _ := json.Marshal(queryBody)
	size := defaultFindSize
	ignoreUnavailable := true

	req := esapi.SearchRequest{
		Index:             []string{collection},
		Body:              strings.NewReader(string(body)),
		Size:              &size,
		IgnoreUnavailable: &ignoreUnavailable,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("find", collection, "error").Inc()
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.StoreOperationsTotal.WithLabelValues("find", collection, "error").Inc()
		return nil, fmt.Errorf("search %s: %s", collection, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                 `json:"_id"`
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := decodeBody(res.Body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	docs := make([]Document, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		docs = append(docs, Document{ID: hit.ID, Fields: hit.Source})
	}

	metrics.StoreOperationsTotal.WithLabelValues("find", collection, "ok").Inc()
	return docs, nil
}

func (s *ElasticsearchStore) Count(ctx context.Context, collection string, filter map[string]interface{}) (int64, error) {
	queryBody := map[string]interface{}{
		"query": buildFilterQuery(filter),
	}
	body, _ := json.Marshal(queryBody)
	ignoreUnavailable := true

	req := esapi.CountRequest{
		Index:             []string{collection},
		Body:              strings.NewReader(string(body)),
		IgnoreUnavailable: &ignoreUnavailable,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("count", collection, "error").Inc()
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.StoreOperationsTotal.WithLabelValues("count", collection, "error").Inc()
		return 0, fmt.Errorf("count %s: %s", collection, res.Status())
	}

	var parsed struct {
		Count int64 `json:"count"`
	}
	if err := decodeBody(res.Body, &parsed); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}

	metrics.StoreOperationsTotal.WithLabelValues("count", collection, "ok").Inc()
	return parsed.Count, nil
}

func (s *ElasticsearchStore) AggregateCounts(ctx context.Context, collection string, groupFields []string, filter map[string]interface{}) ([]GroupCount, error) {
	sources := make([]interface{}, 0, len(groupFields))
	for _, field := range groupFields {
		sources = append(sources, map[string]interface{}{
			field: map[string]interface{}{
				"terms": map[string]interface{}{
					"field":          keywordField(field),
					"missing_bucket": true,
				},
			},
		})
	}

	queryBody := map[string]interface{}{
		"size":  0,
		"query": buildFilterQuery(filter),
		"aggs": map[string]interface{}{
			"groups": map[string]interface{}{
				"composite": map[string]interface{}{
					"size":    defaultFindSize,
					"sources": sources,
				},
			},
		},
	}

	body, _ := json.Marshal(queryBody)
	size := 0
	ignoreUnavailable := true

	req := esapi.SearchRequest{
		Index:             []string{collection},
		Body:              strings.NewReader(string(body)),
		Size:              &size,
		IgnoreUnavailable: &ignoreUnavailable,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		metrics.StoreOperationsTotal.WithLabelValues("aggregate", collection, "error").Inc()
		return nil, fmt.Errorf("aggregate %s: %w", collection, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		metrics.StoreOperationsTotal.WithLabelValues("aggregate", collection, "error").Inc()
		return nil, fmt.Errorf("aggregate %s: %s", collection, res.Status())
	}

	var parsed struct {
		Aggregations struct {
			Groups struct {
				Buckets []struct {
					Key      map[string]interface{} `json:"key"`
					DocCount int64                  `json:"doc_count"`
				} `json:"buckets"`
			} `json:"groups"`
		} `json:"aggregations"`
	}
	if err := decodeBody(res.Body, &parsed); err != nil {
		return nil, fmt.Errorf("decode aggregation response: %w", err)
	}

	groups := make([]GroupCount, 0, len(parsed.Aggregations.Groups.Buckets))
	for _, bucket := range parsed.Aggregations.Groups.Buckets {
		keys := make(map[string]string, len(groupFields))
		for _, field := range groupFields {
			// missing_bucket yields a null key for absent fields
			if v, ok := bucket.Key[field].(string); ok {
				keys[field] = v
			} else {
				keys[field] = ""
			}
		}
		groups = append(groups, GroupCount{Keys: keys, Count: bucket.DocCount})
	}

	metrics.StoreOperationsTotal.WithLabelValues("aggregate", collection, "ok").Inc()
	return groups, nil
}

func (s *ElasticsearchStore) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

func (s *ElasticsearchStore) Collections(ctx context.Context) ([]string, error) {
	res, err := s.client.Cat.Indices(
		s.client.Cat.Indices.WithContext(ctx),
		s.client.Cat.Indices.WithFormat("json"),
	)
	if err != nil {
		return nil, fmt.Errorf("list indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("list indices: %s", res.Status())
	}

	var parsed []struct {
		Index string `json:"index"`
	}
	if err := decodeBody(res.Body, &parsed); err != nil {
		return nil, fmt.Errorf("decode indices response: %w", err)
	}

	names := make([]string, 0, len(parsed))
	for _, idx := range parsed {
		if strings.HasPrefix(idx.Index, ".") {
			continue // system indices
		}
		names = append(names, idx.Index)
	}
	return names, nil
}

// buildFilterQuery turns an equality filter into a bool/term query.
func buildFilterQuery(filter map[string]interface{}) map[string]interface{} {
	if len(filter) == 0 {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	filterClauses := make([]interface{}, 0, len(filter))
	for field, value := range filter {
		name := field
		if _, ok := value.(string); ok {
			name = keywordField(field)
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{name: value},
		})
	}

	return map[string]interface{}{
		"bool": map[string]interface{}{
			"filter": filterClauses,
		},
	}
}

// keywordField addresses the keyword sub-field produced by dynamic mapping,
// required for exact matches and sorting on text fields.
func keywordField(field string) string {
	return field + ".keyword"
}

func decodeBody(body io.Reader, out interface{}) error {
	return json.NewDecoder(body).Decode(out)
}
