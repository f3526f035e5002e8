package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "somdev-backend/internal/common/errors"
	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/common/metrics"
	"somdev-backend/internal/notify"
	"somdev-backend/internal/store"
)

var trackPayloadSchema = map[string]interface{}{
	"type":                 "object",
	"required":             []interface{}{"user_id", "type"},
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"user_id": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"service_id": map[string]interface{}{
			"type": "string",
		},
		"type": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{TypeView, TypeOrder},
		},
		"details": map[string]interface{}{
			"type": "object",
		},
	},
}

// Recorder validates and persists interaction events.
type Recorder struct {
	store    store.Store
	cache    ReportCache
	notifier notify.Notifier
	logger   logger.Logger
}

func NewRecorder(s store.Store, cache ReportCache, notifier notify.Notifier, log logger.Logger) *Recorder {
	if cache == nil {
		cache = NoopCache{}
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Recorder{store: s, cache: cache, notifier: notifier, logger: log}
}

// Record validates the payload, persists it as an interaction document and
// returns the new document id. An order event additionally triggers a
// best-effort notification; notification failures never fail the record.
func (r *Recorder) Record(ctx context.Context, payload TrackPayload) (string, error) {
	if err := r.validate(payload); err != nil {
		return "", err
	}

	fields := map[string]interface{}{
		"user_id": payload.UserID,
		"type":    payload.Type,
	}
	if payload.ServiceID != "" {
		fields["service_id"] = payload.ServiceID
	}
	if payload.Details != nil {
		fields["details"] = payload.Details
	}

	id, err := r.store.InsertOne(ctx, store.CollectionInteraction, fields)
	if err != nil {
		return "", apperrors.NewInsertFailedError(store.CollectionInteraction, err)
	}

	metrics.InteractionsRecorded.WithLabelValues(payload.Type).Inc()
	r.cache.Invalidate(ctx)

	if payload.Type == TypeOrder {
		if err := r.notifier.OrderReceived(ctx, payload.UserID, payload.ServiceID, payload.Details); err != nil {
			r.logger.WithError(err).Warn("Order notification failed", map[string]interface{}{
				"user_id":    payload.UserID,
				"service_id": payload.ServiceID,
			})
		}
	}

	return id, nil
}

func (r *Recorder) validate(payload TrackPayload) error {
	doc := map[string]interface{}{
		"user_id": payload.UserID,
		"type":    payload.Type,
	}
	if payload.ServiceID != "" {
		doc["service_id"] = payload.ServiceID
	}
	if payload.Details != nil {
		doc["details"] = payload.Details
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(trackPayloadSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return apperrors.NewValidationFailedError(fmt.Sprintf("schema validation error: %v", err))
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return apperrors.NewValidationFailedError(strings.Join(details, "; "))
	}
	return nil
}
