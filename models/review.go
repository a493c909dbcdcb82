package models

import (
	"math"
	"strings"
	"time"

	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one user's rating and comment on a tour.
type Review struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TourID     primitive.ObjectID `json:"tourId" bson:"tourId"`
	UserID     string             `json:"userId,omitempty" bson:"userId,omitempty"`
	Username   string             `json:"username" bson:"username"`
	ReviewText string             `json:"reviewText" bson:"reviewText"`
	Rating     int                `json:"rating" bson:"rating"` // 1..5
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ReviewInput is the body of a review submission.
type ReviewInput struct {
	Username   string `json:"username"`
	ReviewText string `json:"reviewText"`
	Rating     Number `json:"rating"`
}

func (in ReviewInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return utils.Invalid("username is required")
	}
	if strings.TrimSpace(in.ReviewText) == "" {
		return utils.Invalid("reviewText is required")
	}
	if in.Rating < 1 || in.Rating > 5 || in.Rating != Number(math.Trunc(float64(in.Rating))) {
		return utils.Invalid("rating must be a whole number between 1 and 5")
	}
	return nil
}

// AverageRating returns the rating sum and the mean rounded to one decimal.
func AverageRating(reviews []Review) (total int, avg float64) {
	if len(reviews) == 0 {
		return 0, 0
	}
	for _, r := range reviews {
		total += r.Rating
	}
	avg = math.Round(float64(total)/float64(len(reviews))*10) / 10
	return total, avg
}
