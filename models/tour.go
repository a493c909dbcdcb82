package models

import (
	"bytes"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleItem is one day of a tour itinerary.
type ScheduleItem struct {
	Day         string `json:"day" bson:"day"`
	Description string `json:"description" bson:"description"`
	Location    string `json:"location" bson:"location"`
}

// Tour struct for MongoDB documents
type Tour struct {
	ID                primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Title             string               `json:"title" bson:"title"`
	City              string               `json:"city" bson:"city"`
	Address           string               `json:"address" bson:"address"`   // "3N/4D" style text
	Distance          string               `json:"distance" bson:"distance"` // date range text
	Photo             string               `json:"photo" bson:"photo"`
	Desc              string               `json:"desc,omitempty" bson:"desc,omitempty"`
	Price             float64              `json:"price" bson:"price"`
	MaxGroupSize      int                  `json:"maxGroupSize" bson:"maxGroupSize"`
	Featured          bool                 `json:"featured" bson:"featured"`
	Schedule          []ScheduleItem       `json:"schedule" bson:"schedule"`
	IncludedInPackage []string             `json:"includedInPackage" bson:"includedInPackage"`
	ExcludedInPackage []string             `json:"excludedInPackage" bson:"excludedInPackage"`
	ImportantInfo     string               `json:"importantInfo,omitempty" bson:"importantInfo,omitempty"`
	ReviewIDs         []primitive.ObjectID `json:"-" bson:"reviews"`
	CreatedAt         time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt" bson:"updatedAt"`

	// Reviews holds the resolved documents once Populated is set.
	Reviews   []Review `json:"-" bson:"-"`
	Populated bool     `json:"-" bson:"-"`
}

// MarshalJSON writes "reviews" as full documents when populated, as ids otherwise.
func (t Tour) MarshalJSON() ([]byte, error) {
	type alias Tour

	var reviews any
	if t.Populated {
		reviews = nonNil(t.Reviews)
	} else {
		reviews = nonNil(t.ReviewIDs)
	}

	return json.Marshal(struct {
		alias
		Reviews any `json:"reviews"`
	}{alias(t), reviews})
}

// UnmarshalJSON accepts either shape of "reviews".
func (t *Tour) UnmarshalJSON(b []byte) error {
	type alias Tour
	aux := struct {
		*alias
		Reviews json.RawMessage `json:"reviews"`
	}{alias: (*alias)(t)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.Reviews)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var objs []json.RawMessage
	if err := json.Unmarshal(raw, &objs); err != nil {
		return err
	}
	if len(objs) > 0 && bytes.HasPrefix(bytes.TrimSpace(objs[0]), []byte("{")) {
		if err := json.Unmarshal(raw, &t.Reviews); err != nil {
			return err
		}
		t.Populated = true
		t.ReviewIDs = make([]primitive.ObjectID, 0, len(t.Reviews))
		for _, r := range t.Reviews {
			t.ReviewIDs = append(t.ReviewIDs, r.ID)
		}
		return nil
	}
	return json.Unmarshal(raw, &t.ReviewIDs)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
