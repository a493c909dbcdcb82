package reviews

import (
	"context"
	"log"
	"strings"
	"time"

	"tourdesk/models"
	"tourdesk/mq"
	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore persists reviews in the reviews collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, r models.Review) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return utils.Unexpected("insert review", err)
	}
	return nil
}

// FindByIDs resolves a tour's review references.
func (s *MongoStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Review, error) {
	if len(ids) == 0 {
		return []models.Review{}, nil
	}
	found, err := utils.FindAndDecode[models.Review](ctx, s.coll, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, utils.Unexpected("find reviews", err)
	}
	return found, nil
}

func (s *MongoStore) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, utils.Unexpected("delete reviews", err)
	}
	return res.DeletedCount, nil
}

// Store is what Service needs from review persistence.
type Store interface {
	Insert(ctx context.Context, r models.Review) error
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

// Tours is what Service needs from the tour catalog.
type Tours interface {
	Exists(ctx context.Context, id primitive.ObjectID) error
	AttachReview(ctx context.Context, tourID, reviewID primitive.ObjectID) error
}

// Emitter publishes change notifications.
type Emitter interface {
	Emit(ctx context.Context, eventName string, content mq.Index)
}

// Service handles review submission.
type Service struct {
	store  Store
	tours  Tours
	events Emitter
	now    func() time.Time
}

// NewService wires a Service. events may be nil.
func NewService(store Store, tours Tours, events Emitter) *Service {
	return &Service{store: store, tours: tours, events: events, now: time.Now}
}

// Submit stores a review for tourID and appends it to the tour's review list.
// userID is empty for anonymous submissions.
func (s *Service) Submit(ctx context.Context, tourID string, userID string, in models.ReviewInput) (models.Review, error) {
	oid, err := primitive.ObjectIDFromHex(tourID)
	if err != nil {
		return models.Review{}, utils.Invalid("invalid tour id %q", tourID)
	}
	if err := in.Validate(); err != nil {
		return models.Review{}, err
	}
	if err := s.tours.Exists(ctx, oid); err != nil {
		return models.Review{}, err
	}

	now := s.now()
	review := models.Review{
		ID:         primitive.NewObjectID(),
		TourID:     oid,
		UserID:     userID,
		Username:   strings.TrimSpace(in.Username),
		ReviewText: strings.TrimSpace(in.ReviewText),
		Rating:     int(in.Rating),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, review); err != nil {
		return models.Review{}, err
	}

	if err := s.tours.AttachReview(ctx, oid, review.ID); err != nil {
		// The tour vanished between the check and the push; drop the orphan.
		if _, delErr := s.store.DeleteByIDs(ctx, []primitive.ObjectID{review.ID}); delErr != nil {
			log.Printf("[reviews.Submit] orphan review %s left behind: %v", review.ID.Hex(), delErr)
		}
		return models.Review{}, err
	}

	if s.events != nil {
		s.events.Emit(ctx, "review-added", mq.Index{
			EntityType: "review",
			EntityId:   review.ID.Hex(),
			Method:     "POST",
			ItemId:     oid.Hex(),
			ItemType:   "tour",
		})
	}
	return review, nil
}
