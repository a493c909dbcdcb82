package tours

import (
	"context"
	"time"

	"tourdesk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the number of tours returned per listing page.
const PageSize = 12

// FeaturedLimit caps the featured listing.
const FeaturedLimit = 4

// SortKey selects the ordering of a Find. Every ordering breaks ties by _id
// descending so pages stay stable.
type SortKey int

const (
	SortNatural SortKey = iota
	SortNewest          // createdAt desc
	SortRecentlyUpdated // updatedAt desc
)

// Criteria is the search filter. An empty Criteria matches every tour.
type Criteria struct {
	Term         string // case-insensitive substring of title or city
	MinPrice     *float64
	MaxPrice     *float64 // the price range applies only when both bounds are set
	FeaturedOnly bool
}

// HasPriceRange reports whether both bounds are present.
func (c Criteria) HasPriceRange() bool {
	return c.MinPrice != nil && c.MaxPrice != nil
}

// Query is a single Find against the tour collection.
type Query struct {
	Criteria Criteria
	Sort     SortKey
	Skip     int64
	Limit    int64 // 0 means no limit
}

// Store is the tour persistence boundary. Implementations translate driver
// errors into utils.Error kinds.
type Store interface {
	Find(ctx context.Context, q Query) ([]models.Tour, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Tour, error)
	FindByTitle(ctx context.Context, title string) (models.Tour, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, t models.Tour) error
	Update(ctx context.Context, id primitive.ObjectID, f models.TourFields, now time.Time) (models.Tour, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.Tour, error)
	AddReview(ctx context.Context, tourID, reviewID primitive.ObjectID) error
}

// ReviewSource resolves and removes the reviews a tour references.
type ReviewSource interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Review, error)
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}
