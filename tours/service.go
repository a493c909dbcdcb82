package tours

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strconv"
	"time"

	"tourdesk/models"
	"tourdesk/mq"
	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	featuredCacheKey = "tours:featured"
	countCacheKey    = "tours:count"
	cacheTTL         = 5 * time.Minute
)

// Cache is the response cache used for the featured and count listings.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Del(ctx context.Context, keys ...string)
}

// Emitter publishes change notifications.
type Emitter interface {
	Emit(ctx context.Context, eventName string, content mq.Index)
}

// Service implements the tour query and mutation operations.
type Service struct {
	store   Store
	reviews ReviewSource
	cache   Cache
	events  Emitter
	now     func() time.Time
}

// NewService wires a Service. cache and events may be nil.
func NewService(store Store, reviews ReviewSource, cache Cache, events Emitter) *Service {
	return &Service{
		store:   store,
		reviews: reviews,
		cache:   cache,
		events:  events,
		now:     time.Now,
	}
}

// ParseID converts a path identifier, rejecting malformed values.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, utils.Invalid("invalid tour id %q", id)
	}
	return oid, nil
}

// List returns one page of tours, newest first, with reviews populated.
func (s *Service) List(ctx context.Context, page int) ([]models.Tour, error) {
	if page < 0 {
		page = 0
	}
	if int64(page) > math.MaxInt64/PageSize {
		return []models.Tour{}, nil
	}
	tours, err := s.store.Find(ctx, Query{
		Sort:  SortNewest,
		Skip:  int64(page) * PageSize,
		Limit: PageSize,
	})
	if err != nil {
		return nil, err
	}
	return tours, s.populate(ctx, tours)
}

// Get returns one tour with reviews populated.
func (s *Service) Get(ctx context.Context, id string) (models.Tour, error) {
	oid, err := ParseID(id)
	if err != nil {
		return models.Tour{}, err
	}
	t, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return t, err
	}
	one := []models.Tour{t}
	if err := s.populate(ctx, one); err != nil {
		return t, err
	}
	return one[0], nil
}

// ByTitle looks a tour up by its unique title. Reviews are not populated.
func (s *Service) ByTitle(ctx context.Context, title string) (models.Tour, error) {
	return s.store.FindByTitle(ctx, title)
}

// Search returns every tour matching c, with reviews populated.
func (s *Service) Search(ctx context.Context, c Criteria) ([]models.Tour, error) {
	tours, err := s.store.Find(ctx, Query{Criteria: c})
	if err != nil {
		return nil, err
	}
	return tours, s.populate(ctx, tours)
}

// Featured returns up to FeaturedLimit featured tours, most recently updated
// first. Reviews are left as identifiers.
func (s *Service) Featured(ctx context.Context) ([]models.Tour, error) {
	if cached, ok := s.cacheGet(ctx, featuredCacheKey); ok {
		var tours []models.Tour
		if err := json.Unmarshal([]byte(cached), &tours); err == nil {
			return tours, nil
		}
	}

	tours, err := s.store.Find(ctx, Query{
		Criteria: Criteria{FeaturedOnly: true},
		Sort:     SortRecentlyUpdated,
		Limit:    FeaturedLimit,
	})
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(tours); err == nil {
		s.cacheSet(ctx, featuredCacheKey, string(data))
	}
	return tours, nil
}

// Count returns the number of tours.
func (s *Service) Count(ctx context.Context) (int64, error) {
	if cached, ok := s.cacheGet(ctx, countCacheKey); ok {
		if n, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return n, nil
		}
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	s.cacheSet(ctx, countCacheKey, strconv.FormatInt(n, 10))
	return n, nil
}

// Create validates f and inserts a new tour.
func (s *Service) Create(ctx context.Context, f models.TourFields) (models.Tour, error) {
	if err := f.ValidateCreate(); err != nil {
		return models.Tour{}, err
	}
	t := f.NewTour(s.now())
	if err := s.store.Insert(ctx, t); err != nil {
		return models.Tour{}, err
	}
	s.changed(ctx, "tour-created", t.ID, "POST")
	return t, nil
}

// Update replaces the fields present in f on the tour with the given id.
func (s *Service) Update(ctx context.Context, id string, f models.TourFields) (models.Tour, error) {
	oid, err := ParseID(id)
	if err != nil {
		return models.Tour{}, err
	}
	if err := f.ValidateUpdate(); err != nil {
		return models.Tour{}, err
	}
	t, err := s.store.Update(ctx, oid, f, s.now())
	if err != nil {
		return t, err
	}
	s.changed(ctx, "tour-updated", oid, "PUT")
	return t, nil
}

// Delete removes the tour, then the reviews it referenced. The review
// cleanup is best effort: a failure there is logged and the delete stands.
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	t, err := s.store.Delete(ctx, oid)
	if err != nil {
		return err
	}

	if len(t.ReviewIDs) > 0 && s.reviews != nil {
		if n, err := s.reviews.DeleteByIDs(ctx, t.ReviewIDs); err != nil {
			log.Printf("[tours.Delete] tour %s deleted but review cleanup failed: %v", oid.Hex(), err)
		} else {
			log.Printf("[tours.Delete] tour %s: removed %d reviews", oid.Hex(), n)
		}
	}
	s.changed(ctx, "tour-deleted", oid, "DELETE")
	return nil
}

// populate resolves ReviewIDs into Reviews for every tour with one lookup.
// Identifiers that no longer resolve are dropped.
func (s *Service) populate(ctx context.Context, tours []models.Tour) error {
	var ids []primitive.ObjectID
	for _, t := range tours {
		ids = append(ids, t.ReviewIDs...)
	}

	byID := map[primitive.ObjectID]models.Review{}
	if len(ids) > 0 && s.reviews != nil {
		found, err := s.reviews.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		for _, r := range found {
			byID[r.ID] = r
		}
	}

	for i := range tours {
		resolved := make([]models.Review, 0, len(tours[i].ReviewIDs))
		for _, id := range tours[i].ReviewIDs {
			if r, ok := byID[id]; ok {
				resolved = append(resolved, r)
			}
		}
		tours[i].Reviews = resolved
		tours[i].Populated = true
	}
	return nil
}

func (s *Service) changed(ctx context.Context, event string, id primitive.ObjectID, method string) {
	if s.cache != nil {
		s.cache.Del(ctx, featuredCacheKey, countCacheKey)
	}
	if s.events != nil {
		s.events.Emit(ctx, event, mq.Index{EntityType: "tour", EntityId: id.Hex(), Method: method})
	}
}

// Exists returns NotFound when no tour has the given id.
func (s *Service) Exists(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.store.FindByID(ctx, id)
	return err
}

// AttachReview appends reviewID to the tour's review list.
func (s *Service) AttachReview(ctx context.Context, tourID, reviewID primitive.ObjectID) error {
	if err := s.store.AddReview(ctx, tourID, reviewID); err != nil {
		return err
	}
	// updatedAt moved, so the featured ordering may have too.
	if s.cache != nil {
		s.cache.Del(ctx, featuredCacheKey)
	}
	return nil
}

func (s *Service) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	return s.cache.Get(ctx, key)
}

func (s *Service) cacheSet(ctx context.Context, key, value string) {
	if s.cache != nil {
		s.cache.Set(ctx, key, value, cacheTTL)
	}
}
