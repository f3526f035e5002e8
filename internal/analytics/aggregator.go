package analytics

import (
	"context"
	"sort"

	"somdev-backend/internal/catalog"
	apperrors "somdev-backend/internal/common/errors"
	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/store"
)

// Aggregator computes the analytics report: interaction counts grouped by
// (service, type), labeled with service titles and sorted by count.
type Aggregator struct {
	store  store.Store
	reader *catalog.Reader
	cache  ReportCache
	logger logger.Logger
}

func NewAggregator(s store.Store, reader *catalog.Reader, cache ReportCache, log logger.Logger) *Aggregator {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Aggregator{store: s, reader: reader, cache: cache, logger: log}
}

// Compute builds the report. Both filters are optional; an empty string
// means "no filter". typeFilter is checked against the interaction type
// enum before any store access. Only the unfiltered report is cached.
func (a *Aggregator) Compute(ctx context.Context, typeFilter, serviceIDFilter string) ([]Row, error) {
	if typeFilter != "" && !IsValidType(typeFilter) {
		return nil, apperrors.NewInvalidFilterError(typeFilter)
	}

	unfiltered := typeFilter == "" && serviceIDFilter == ""
	if unfiltered {
		if rows, ok := a.cache.Get(ctx); ok {
			return rows, nil
		}
	}

	filter := map[string]interface{}{}
	if typeFilter != "" {
		filter["type"] = typeFilter
	}
	if serviceIDFilter != "" {
		filter["service_id"] = serviceIDFilter
	}

	groups, err := a.store.AggregateCounts(ctx, store.CollectionInteraction, []string{"service_id", "type"}, filter)
	if err != nil {
		return nil, apperrors.NewAggregationFailedError(err)
	}

	buckets := make([]Bucket, 0, len(groups))
	for _, g := range groups {
		sid := g.Keys["service_id"]
		if sid == "" {
			sid = UnknownServiceID
		}
		buckets = append(buckets, Bucket{
			ServiceID: sid,
			Type:      g.Keys["type"],
			Count:     g.Count,
		})
	}

	// Descending by count. Ties keep the store's bucket order, which is
	// not specified and may differ between backends.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})

	titles, err := a.reader.ServiceTitles(ctx)
	if err != nil {
		return nil, err
	}

	rows := mergeLabels(buckets, titles)
	if unfiltered {
		a.cache.Set(ctx, rows)
	}
	return rows, nil
}
