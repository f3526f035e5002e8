// internal/catalog/seeder.go
package catalog

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"somdev-backend/internal/common/logger"
	"somdev-backend/internal/store"
)

// seededMarkerKey is a best-effort redis flag that short-circuits the
// emptiness probes once a seed pass has completed. It is an optimization
// only; correctness never depends on it.
const seededMarkerKey = "somdev:seeded"

const seededMarkerTTL = 24 * time.Hour

// Seeder inserts the default catalog when a reference collection is empty.
// All failures are swallowed: seeding must never abort a user-facing
// request. The first-run check-then-act race across processes is accepted;
// the worst case is duplicate informational rows.
type Seeder struct {
	store  store.Store
	redis  *redis.Client // optional, may be nil
	logger logger.Logger
}

func NewSeeder(st store.Store, rdb *redis.Client, log logger.Logger) *Seeder {
	return &Seeder{
		store:  st,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"component": "seeder"}),
	}
}

// EnsureSeeded seeds the service and project collections when empty.
// Idempotent by the emptiness test only.
func (s *Seeder) EnsureSeeded(ctx context.Context) {
	if s.markerSet(ctx) {
		return
	}

	ok := true
	ok = s.seedServices(ctx) && ok
	ok = s.seedProjects(ctx) && ok

	if ok {
		s.setMarker(ctx)
	}
}

func (s *Seeder) seedServices(ctx context.Context) bool {
	n, err := s.store.Count(ctx, store.CollectionService, nil)
	if err != nil {
		s.logger.Warn("seed check failed, skipping", map[string]interface{}{
			"collection": store.CollectionService,
			"error":      err.Error(),
		})
		return false
	}
	if n > 0 {
		return true
	}

	for _, svc := range defaultServices {
		if _, err := s.store.InsertOne(ctx, store.CollectionService, svc.toDoc()); err != nil {
			s.logger.Warn("seed insert failed", map[string]interface{}{
				"collection": store.CollectionService,
				"title":      svc.Title,
				"error":      err.Error(),
			})
			return false
		}
	}

	s.logger.Info("seeded default services", map[string]interface{}{
		"count": len(defaultServices),
	})
	return true
}

func (s *Seeder) seedProjects(ctx context.Context) bool {
	n, err := s.store.Count(ctx, store.CollectionProject, nil)
	if err != nil {
		s.logger.Warn("seed check failed, skipping", map[string]interface{}{
			"collection": store.CollectionProject,
			"error":      err.Error(),
		})
		return false
	}
	if n > 0 {
		return true
	}

	for _, prj := range defaultProjects {
		if _, err := s.store.InsertOne(ctx, store.CollectionProject, prj.toDoc()); err != nil {
			s.logger.Warn("seed insert failed", map[string]interface{}{
				"collection": store.CollectionProject,
				"title":      prj.Title,
				"error":      err.Error(),
			})
			return false
		}
	}

	s.logger.Info("seeded default projects", map[string]interface{}{
		"count": len(defaultProjects),
	})
	return true
}

func (s *Seeder) markerSet(ctx context.Context) bool {
	if s.redis == nil {
		return false
	}
	val, err := s.redis.Get(ctx, seededMarkerKey).Result()
	return err == nil && val == "1"
}

func (s *Seeder) setMarker(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, seededMarkerKey, "1", seededMarkerTTL).Err(); err != nil {
		s.logger.Debug("seed marker write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
