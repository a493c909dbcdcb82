package booking

import (
	"context"
	"errors"

	"tourdesk/models"
	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is booking persistence.
type Store interface {
	Insert(ctx context.Context, b models.Booking) error
	FindByID(ctx context.Context, id string) (models.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, b models.Booking) error {
	if _, err := s.coll.InsertOne(ctx, b); err != nil {
		return utils.Unexpected("insert booking", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Booking{}, utils.NotFound("Booking not found")
	}
	if err != nil {
		return models.Booking{}, utils.Unexpected("find booking", err)
	}
	return b, nil
}

// FindByUser lists a user's bookings, newest first.
func (s *MongoStore) FindByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	out, err := utils.FindAndDecode[models.Booking](ctx, s.coll, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, utils.Unexpected("find bookings", err)
	}
	return out, nil
}
