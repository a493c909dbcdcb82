package tours

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tourdesk/models"
	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store with the same filter, sort and uniqueness
// rules as MongoStore.
type memStore struct {
	mu    sync.Mutex
	tours []models.Tour
}

func (m *memStore) matches(c Criteria, t models.Tour) bool {
	if c.Term != "" {
		term := strings.ToLower(c.Term)
		if !strings.Contains(strings.ToLower(t.Title), term) && !strings.Contains(strings.ToLower(t.City), term) {
			return false
		}
	}
	if c.HasPriceRange() && (t.Price < *c.MinPrice || t.Price > *c.MaxPrice) {
		return false
	}
	if c.FeaturedOnly && !t.Featured {
		return false
	}
	return true
}

func (m *memStore) Find(_ context.Context, q Query) ([]models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Tour{}
	for _, t := range m.tours {
		if m.matches(q.Criteria, t) {
			out = append(out, t)
		}
	}

	less := func(a, b time.Time, ai, bi primitive.ObjectID) bool {
		if !a.Equal(b) {
			return a.After(b)
		}
		return ai.Hex() > bi.Hex()
	}
	switch q.Sort {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
		})
	case SortRecentlyUpdated:
		sort.SliceStable(out, func(i, j int) bool {
			return less(out[i].UpdatedAt, out[j].UpdatedAt, out[i].ID, out[j].ID)
		})
	}

	if q.Skip > 0 {
		if q.Skip >= int64(len(out)) {
			return []models.Tour{}, nil
		}
		out = out[q.Skip:]
	}
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memStore) index(id primitive.ObjectID) int {
	for i, t := range m.tours {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *memStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		return m.tours[i], nil
	}
	return models.Tour{}, utils.NotFound("Tour not found")
}

func (m *memStore) FindByTitle(_ context.Context, title string) (models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tours {
		if t.Title == title {
			return t, nil
		}
	}
	return models.Tour{}, utils.NotFound("Tour not found")
}

func (m *memStore) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.tours)), nil
}

func (m *memStore) titleTaken(title string, except primitive.ObjectID) bool {
	for _, t := range m.tours {
		if t.Title == title && t.ID != except {
			return true
		}
	}
	return false
}

func (m *memStore) Insert(_ context.Context, t models.Tour) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.titleTaken(t.Title, primitive.NilObjectID) {
		return utils.Conflict("A tour with this title already exists", nil)
	}
	m.tours = append(m.tours, t)
	return nil
}

func (m *memStore) Update(_ context.Context, id primitive.ObjectID, f models.TourFields, now time.Time) (models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return models.Tour{}, utils.NotFound("Tour not found")
	}
	if f.Title != nil && m.titleTaken(strings.TrimSpace(*f.Title), id) {
		return models.Tour{}, utils.Conflict("A tour with this title already exists", nil)
	}
	f.Apply(&m.tours[i], now)
	return m.tours[i], nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) (models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return models.Tour{}, utils.NotFound("Tour not found")
	}
	t := m.tours[i]
	m.tours = append(m.tours[:i], m.tours[i+1:]...)
	return t, nil
}

func (m *memStore) AddReview(_ context.Context, tourID, reviewID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(tourID)
	if i < 0 {
		return utils.NotFound("Tour not found")
	}
	m.tours[i].ReviewIDs = append(m.tours[i].ReviewIDs, reviewID)
	return nil
}

// memReviews is an in-memory ReviewSource.
type memReviews struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]models.Review
	failDel error
}

func newMemReviews(rs ...models.Review) *memReviews {
	m := &memReviews{reviews: map[primitive.ObjectID]models.Review{}}
	for _, r := range rs {
		m.reviews[r.ID] = r
	}
	return m
}

func (m *memReviews) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Review{}
	for _, id := range ids {
		if r, ok := m.reviews[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReviews) DeleteByIDs(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDel != nil {
		return 0, m.failDel
	}
	var n int64
	for _, id := range ids {
		if _, ok := m.reviews[id]; ok {
			delete(m.reviews, id)
			n++
		}
	}
	return n, nil
}

// memCache records cache traffic.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
	dels int
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *memCache) Del(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.dels++
}
