package tours

import (
	"context"
	"errors"
	"regexp"
	"time"

	"tourdesk/models"
	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the Store backed by the tours collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// filterFor translates search criteria into a Mongo filter. The term is
// quoted so user input is matched literally.
func filterFor(c Criteria) bson.M {
	filter := bson.M{}
	if c.Term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(c.Term), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"city": pattern},
		}
	}
	if c.HasPriceRange() {
		filter["price"] = bson.M{"$gte": *c.MinPrice, "$lte": *c.MaxPrice}
	}
	if c.FeaturedOnly {
		filter["featured"] = true
	}
	return filter
}

func sortFor(k SortKey) bson.D {
	switch k {
	case SortNewest:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	case SortRecentlyUpdated:
		return bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return nil
	}
}

func findOptions(q Query) *options.FindOptions {
	opts := options.Find()
	if s := sortFor(q.Sort); s != nil {
		opts.SetSort(s)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}

func (s *MongoStore) Find(ctx context.Context, q Query) ([]models.Tour, error) {
	tours, err := utils.FindAndDecode[models.Tour](ctx, s.coll, filterFor(q.Criteria), findOptions(q))
	if err != nil {
		return nil, utils.Unexpected("find tours", err)
	}
	return tours, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Tour, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindByTitle(ctx context.Context, title string) (models.Tour, error) {
	return s.findOne(ctx, bson.M{"title": title})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (models.Tour, error) {
	var t models.Tour
	err := s.coll.FindOne(ctx, filter).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return t, utils.NotFound("Tour not found")
	}
	if err != nil {
		return t, utils.Unexpected("find tour", err)
	}
	return t, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, utils.Unexpected("count tours", err)
	}
	return n, nil
}

func (s *MongoStore) Insert(ctx context.Context, t models.Tour) error {
	_, err := s.coll.InsertOne(ctx, t)
	return writeErr("insert tour", err)
}

func (s *MongoStore) Update(ctx context.Context, id primitive.ObjectID, f models.TourFields, now time.Time) (models.Tour, error) {
	var t models.Tour
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": f.SetDoc(now)}, opts).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return t, utils.NotFound("Tour not found")
	}
	return t, writeErr("update tour", err)
}

func (s *MongoStore) Delete(ctx context.Context, id primitive.ObjectID) (models.Tour, error) {
	var t models.Tour
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return t, utils.NotFound("Tour not found")
	}
	if err != nil {
		return t, utils.Unexpected("delete tour", err)
	}
	return t, nil
}

func (s *MongoStore) AddReview(ctx context.Context, tourID, reviewID primitive.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": tourID},
		bson.M{"$push": bson.M{"reviews": reviewID}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return utils.Unexpected("attach review", err)
	}
	if res.MatchedCount == 0 {
		return utils.NotFound("Tour not found")
	}
	return nil
}

func writeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return utils.Conflict("A tour with this title already exists", err)
	default:
		return utils.Unexpected(op, err)
	}
}
