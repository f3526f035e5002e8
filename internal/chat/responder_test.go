package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somdev-backend/internal/catalog"
	"somdev-backend/internal/common/config"
	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/store"
)

func newResponder(t *testing.T, cfg config.ChatConfig) (*Responder, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	log := logger.NewTestLogger(t)
	seeder := catalog.NewSeeder(mem, nil, log)
	reader := catalog.NewReader(mem, seeder)
	return NewResponder(mem, reader, cfg, log), mem
}

func TestResponder_ServicesAnswerListsCatalog(t *testing.T) {
	ctx := context.Background()
	responder, _ := newResponder(t, config.ChatConfig{})

	answer, err := responder.Respond(ctx, "u-1", "What services do you offer?")
	require.NoError(t, err)

	assert.Contains(t, answer, "Here are our core services:")
	assert.Contains(t, answer, "• Custom Web Apps:")
	assert.Contains(t, answer, "• AI Integrations:")
	assert.Contains(t, answer, "• Cloud & DevOps:")
	assert.Contains(t, answer, "• UI/UX Design:")
}

func TestResponder_ProjectsAnswerListsTags(t *testing.T) {
	ctx := context.Background()
	responder, _ := newResponder(t, config.ChatConfig{})

	answer, err := responder.Respond(ctx, "u-1", "show me your portfolio")
	require.NoError(t, err)

	assert.Contains(t, answer, "recent projects")
	assert.Contains(t, answer, "FinTech Analytics Suite — React, FastAPI, Kafka, Postgres")
	assert.Contains(t, answer, "E-commerce Headless Storefront — Next.js, Stripe, Algolia")
}

func TestResponder_PricingAnswer(t *testing.T) {
	ctx := context.Background()
	responder, _ := newResponder(t, config.ChatConfig{})

	answer, err := responder.Respond(ctx, "u-1", "what does it cost?")
	require.NoError(t, err)
	assert.Contains(t, answer, "Web Apps from $4,999")
}

func TestResponder_FallbackAnswer(t *testing.T) {
	ctx := context.Background()
	responder, _ := newResponder(t, config.ChatConfig{})

	answer, err := responder.Respond(ctx, "u-1", "hello")
	require.NoError(t, err)
	assert.Contains(t, answer, "SomDev's assistant")
}

func TestResponder_ConfigOverridesCannedCopy(t *testing.T) {
	ctx := context.Background()
	responder, _ := newResponder(t, config.ChatConfig{
		PricingAnswer:  "Custom pricing copy.",
		FallbackAnswer: "Custom fallback copy.",
	})

	answer, err := responder.Respond(ctx, "u-1", "budget?")
	require.NoError(t, err)
	assert.Equal(t, "Custom pricing copy.", answer)

	answer, err = responder.Respond(ctx, "u-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Custom fallback copy.", answer)
}

func TestResponder_PersistsBothSides(t *testing.T) {
	ctx := context.Background()
	responder, mem := newResponder(t, config.ChatConfig{})

	_, err := responder.Respond(ctx, "u-7", "hello")
	require.NoError(t, err)

	docs, err := mem.Find(ctx, store.CollectionMessage, map[string]interface{}{"user_id": "u-7"}, "")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "user", docs[0].GetString("role"))
	assert.Equal(t, "hello", docs[0].GetString("content"))
	assert.Equal(t, "assistant", docs[1].GetString("role"))
	assert.NotEmpty(t, docs[1].GetString("content"))
}
