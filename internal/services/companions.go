package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"journeylink_app/internal/models"
)

const companionsCacheKey = "companions"

// CompanionService reads companion profiles from the usuario collection
type CompanionService struct {
	docs  DocumentStore
	cache *RedisCache
	ttl   time.Duration
}

// NewCompanionService creates the service; cache may be nil
func NewCompanionService(docs DocumentStore, cache *RedisCache, ttl time.Duration) *CompanionService {
	return &CompanionService{docs: docs, cache: cache, ttl: ttl}
}

// List returns all companions ordered by name
func (s *CompanionService) List(ctx context.Context) ([]models.Companion, error) {
	if s.cache == nil {
		return s.load(ctx)
	}
	return GetOrSet(ctx, s.cache, companionsCacheKey, s.ttl, func() ([]models.Companion, error) {
		return s.load(ctx)
	})
}

func (s *CompanionService) load(ctx context.Context) ([]models.Companion, error) {
	docs, err := s.docs.List(ctx, models.CollectionUsers)
	if err != nil {
		return nil, fmt.Errorf("list companions: %w", err)
	}

	companions := make([]models.Companion, 0, len(docs))
	for _, doc := range docs {
		companions = append(companions, companionFromDoc(doc))
	}
	sort.SliceStable(companions, func(i, j int) bool {
		return companions[i].Name < companions[j].Name
	})
	return companions, nil
}

// Profile returns the companion document of uid
func (s *CompanionService) Profile(ctx context.Context, uid string) (models.Companion, error) {
	doc, err := s.docs.Get(ctx, models.CollectionUsers, uid)
	if err != nil {
		return models.Companion{}, err
	}
	return companionFromDoc(doc), nil
}

// Invalidate drops the cached list, e.g. after a registration
func (s *CompanionService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, companionsCacheKey)
}

// FeaturedMinRating is the rating a companion needs to be featured
const FeaturedMinRating = 4.0

// Featured returns the first companion in list order rated at least
// FeaturedMinRating, or false when nobody qualifies
func Featured(companions []models.Companion) (models.Companion, bool) {
	for _, c := range companions {
		if c.Rating >= FeaturedMinRating {
			return c, true
		}
	}
	return models.Companion{}, false
}

func companionFromDoc(doc Document) models.Companion {
	return models.Companion{
		ID:     doc.ID,
		Email:  stringField(doc.Data, "email"),
		Name:   stringField(doc.Data, "name"),
		Rating: floatField(doc.Data, "rating"),
	}
}
