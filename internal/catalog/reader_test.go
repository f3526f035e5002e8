package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/store"
)

func newTestReader(t *testing.T) (*Reader, *store.MemoryStore) {
	st := store.NewMemoryStore()
	seeder := NewSeeder(st, nil, logger.NewTestLogger(t))
	return NewReader(st, seeder), st
}

func TestReader_ListServicesSeedsAndSorts(t *testing.T) {
	ctx := context.Background()
	reader, _ := newTestReader(t)

	services, err := reader.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 4)

	titles := make([]string, 0, len(services))
	for _, svc := range services {
		titles = append(titles, svc.Title)
	}
	assert.Equal(t, []string{"AI Integrations", "Cloud & DevOps", "Custom Web Apps", "UI/UX Design"}, titles)

	for _, svc := range services {
		assert.NotEmpty(t, svc.ID)
		assert.NotEmpty(t, svc.CTALabel)
	}
}

func TestReader_ListProjectsSeedsAndSorts(t *testing.T) {
	ctx := context.Background()
	reader, _ := newTestReader(t)

	projects, err := reader.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)

	assert.Equal(t, "E-commerce Headless Storefront", projects[0].Title)
	assert.Equal(t, "FinTech Analytics Suite", projects[1].Title)
	assert.Equal(t, "Healthcare Telemedicine Platform", projects[2].Title)

	assert.Equal(t, []string{"Next.js", "Stripe", "Algolia"}, projects[0].Tags)
}

func TestReader_DefaultCTALabelApplied(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	_, err := st.InsertOne(ctx, store.CollectionService, map[string]interface{}{
		"title":       "Bare Service",
		"description": "no cta stored",
	})
	require.NoError(t, err)

	seeder := NewSeeder(st, nil, logger.NewTestLogger(t))
	reader := NewReader(st, seeder)

	services, err := reader.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, DefaultCTALabel, services[0].CTALabel)
}

func TestReader_ServiceTitles(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	id, err := st.InsertOne(ctx, store.CollectionService, map[string]interface{}{
		"title": "Custom Web Apps",
	})
	require.NoError(t, err)

	seeder := NewSeeder(st, nil, logger.NewTestLogger(t))
	reader := NewReader(st, seeder)

	titles, err := reader.ServiceTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{id: "Custom Web Apps"}, titles)
}
