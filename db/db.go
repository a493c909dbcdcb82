package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store is the process-wide MongoDB handle. It is opened once in main and
// closed on shutdown.
type Store struct {
	Client             *mongo.Client
	ToursCollection    *mongo.Collection
	ReviewsCollection  *mongo.Collection
	BookingsCollection *mongo.Collection
}

// Connect dials MongoDB, verifies the connection and binds the collections.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	d := client.Database(database)
	log.Printf("MongoDB connected (%s)", database)
	return &Store{
		Client:             client,
		ToursCollection:    d.Collection("tours"),
		ReviewsCollection:  d.Collection("reviews"),
		BookingsCollection: d.Collection("bookings"),
	}, nil
}

// EnsureIndexes creates the unique title index and the sort indexes used by
// the listing queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	tourIdxs := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_title"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
		{
			Keys:    bson.D{{Key: "featured", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("featured_updated"),
		},
	}
	if _, err := s.ToursCollection.Indexes().CreateMany(ctx, tourIdxs); err != nil {
		return fmt.Errorf("tour indexes: %w", err)
	}

	reviewIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "tourId", Value: 1}},
		Options: options.Index().SetName("review_tour"),
	}
	if _, err := s.ReviewsCollection.Indexes().CreateOne(ctx, reviewIdx); err != nil {
		return fmt.Errorf("review indexes: %w", err)
	}

	bookingIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("booking_user"),
	}
	if _, err := s.BookingsCollection.Indexes().CreateOne(ctx, bookingIdx); err != nil {
		return fmt.Errorf("booking indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
