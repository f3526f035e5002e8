// internal/catalog/reader.go
package catalog

import (
	"context"

	apperrors "somdev-backend/internal/common/errors"
	"somdev-backend/internal/store"
)

// Reader lists the reference collections, title-sorted. It triggers the
// seeder before every read so a fresh deployment serves the default catalog.
type Reader struct {
	store  store.Store
	seeder *Seeder
}

func NewReader(st store.Store, seeder *Seeder) *Reader {
	return &Reader{store: st, seeder: seeder}
}

// ListServices returns every service sorted lexicographically by title.
func (r *Reader) ListServices(ctx context.Context) ([]Service, error) {
	r.seeder.EnsureSeeded(ctx)

	docs, err := r.store.Find(ctx, store.CollectionService, nil, "title")
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}

	services := make([]Service, 0, len(docs))
	for _, doc := range docs {
		services = append(services, serviceFromDoc(doc))
	}
	return services, nil
}

// ListProjects returns every project sorted lexicographically by title.
func (r *Reader) ListProjects(ctx context.Context) ([]Project, error) {
	r.seeder.EnsureSeeded(ctx)

	docs, err := r.store.Find(ctx, store.CollectionProject, nil, "title")
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}

	projects := make([]Project, 0, len(docs))
	for _, doc := range docs {
		projects = append(projects, projectFromDoc(doc))
	}
	return projects, nil
}

// ServiceTitles returns an id to title map for the label join in analytics,
// as a single bulk fetch.
func (r *Reader) ServiceTitles(ctx context.Context) (map[string]string, error) {
	docs, err := r.store.Find(ctx, store.CollectionService, nil, "")
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}

	titles := make(map[string]string, len(docs))
	for _, doc := range docs {
		titles[doc.ID] = doc.GetString("title")
	}
	return titles, nil
}
