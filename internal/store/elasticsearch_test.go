package store

import (
	"context"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somdev-backend/internal/common/logger"
)

// These tests run against a local Elasticsearch and skip when none is
// reachable, same pattern as the rest of the integration-style tests.
func createRealElasticsearchClient(t *testing.T) *elasticsearch.Client {
	cfg := elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
	}

	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		t.Skipf("Skipping test: failed to create Elasticsearch client: %v", err)
		return nil
	}

	res, err := esClient.Info()
	if err != nil {
		t.Skipf("Skipping test: Elasticsearch not responding: %v", err)
		return nil
	}
	defer res.Body.Close()

	if res.IsError() {
		t.Skipf("Skipping test: Elasticsearch error: %s", res.String())
		return nil
	}

	return esClient
}

func TestElasticsearchStore_RoundTrip(t *testing.T) {
	esClient := createRealElasticsearchClient(t)
	ctx := context.Background()

	esClient.Indices.Delete([]string{"store_test_interaction"},
		esClient.Indices.Delete.WithIgnoreUnavailable(true))

	s := NewElasticsearchStore(esClient, logger.NewTestLogger(t))

	id, err := s.InsertOne(ctx, "store_test_interaction", map[string]interface{}{
		"type":       "view",
		"service_id": "s1",
		"user_id":    "u1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = s.InsertOne(ctx, "store_test_interaction", map[string]interface{}{
		"type":    "view",
		"user_id": "u2",
	})
	require.NoError(t, err)

	n, err := s.Count(ctx, "store_test_interaction", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	docs, err := s.Find(ctx, "store_test_interaction", map[string]interface{}{"type": "view"}, "")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	groups, err := s.AggregateCounts(ctx, "store_test_interaction", []string{"service_id", "type"}, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	counts := make(map[string]int64)
	for _, g := range groups {
		counts[g.Keys["service_id"]] = g.Count
	}
	assert.EqualValues(t, 1, counts["s1"])
	assert.EqualValues(t, 1, counts[""])
}

func TestElasticsearchStore_FindMissingIndex(t *testing.T) {
	esClient := createRealElasticsearchClient(t)
	ctx := context.Background()

	s := NewElasticsearchStore(esClient, logger.NewTestLogger(t))

	docs, err := s.Find(ctx, "store_test_does_not_exist", nil, "")
	require.NoError(t, err)
	assert.Empty(t, docs)

	n, err := s.Count(ctx, "store_test_does_not_exist", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
