package models

import (
	"math"
	"slices"
	"strings"
	"time"

	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TourFields is the allow-list of tour fields accepted from a request body.
// Create and Update both decode into it; a nil field was absent from the body.
type TourFields struct {
	Title             *string         `json:"title,omitempty"`
	City              *string         `json:"city,omitempty"`
	Desc              *string         `json:"desc,omitempty"`
	MaxGroupSize      *Number         `json:"maxGroupSize,omitempty"`
	Photo             *string         `json:"photo,omitempty"`
	Address           *string         `json:"address,omitempty"`
	Price             *Number         `json:"price,omitempty"`
	Distance          *Text           `json:"distance,omitempty"`
	Schedule          *[]ScheduleItem `json:"schedule,omitempty"`
	IncludedInPackage *Lines          `json:"includedInPackage,omitempty"`
	ExcludedInPackage *Lines          `json:"excludedInPackage,omitempty"`
	ImportantInfo     *string         `json:"importantInfo,omitempty"`
	Featured          *bool           `json:"featured,omitempty"`
}

// ValidateCreate requires every field the Tour schema marks required.
func (f TourFields) ValidateCreate() error {
	missing := []string{}
	for name, v := range map[string]*string{
		"title":   f.Title,
		"city":    f.City,
		"address": f.Address,
		"photo":   f.Photo,
	} {
		if v == nil || strings.TrimSpace(*v) == "" {
			missing = append(missing, name)
		}
	}
	if f.Distance == nil || strings.TrimSpace(string(*f.Distance)) == "" {
		missing = append(missing, "distance")
	}
	if f.Price == nil {
		missing = append(missing, "price")
	}
	if f.MaxGroupSize == nil {
		missing = append(missing, "maxGroupSize")
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return utils.Invalid("missing required fields: %s", strings.Join(missing, ", "))
	}
	return f.validateValues()
}

// ValidateUpdate allows absent fields but rejects present required fields left blank.
func (f TourFields) ValidateUpdate() error {
	for name, v := range map[string]*string{
		"title":   f.Title,
		"city":    f.City,
		"address": f.Address,
		"photo":   f.Photo,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return utils.Invalid("%s cannot be empty", name)
		}
	}
	if f.Distance != nil && strings.TrimSpace(string(*f.Distance)) == "" {
		return utils.Invalid("distance cannot be empty")
	}
	return f.validateValues()
}

func (f TourFields) validateValues() error {
	if f.Price != nil && *f.Price < 0 {
		return utils.Invalid("price must not be negative")
	}
	if f.MaxGroupSize != nil {
		if err := validGroupSize(*f.MaxGroupSize); err != nil {
			return err
		}
	}
	if f.Schedule != nil {
		for i, item := range *f.Schedule {
			if strings.TrimSpace(item.Day) == "" ||
				strings.TrimSpace(item.Description) == "" ||
				strings.TrimSpace(item.Location) == "" {
				return utils.Invalid("schedule[%d]: day, description and location are required", i)
			}
		}
	}
	return nil
}

// GroupSizeLimit caps maxGroupSize on tours and bookings.
const GroupSizeLimit = 1000

// validGroupSize accepts whole numbers in [1, GroupSizeLimit].
func validGroupSize(n Number) error {
	f := float64(n)
	if f != math.Trunc(f) || f < 1 || f > GroupSizeLimit {
		return utils.Invalid("maxGroupSize must be a whole number between 1 and %d", GroupSizeLimit)
	}
	return nil
}

// NewTour builds a fresh document from validated fields.
func (f TourFields) NewTour(now time.Time) Tour {
	t := Tour{
		ID:                primitive.NewObjectID(),
		Schedule:          []ScheduleItem{},
		IncludedInPackage: []string{},
		ExcludedInPackage: []string{},
		ReviewIDs:         []primitive.ObjectID{},
		CreatedAt:         now,
	}
	f.Apply(&t, now)
	return t
}

// Apply replaces every present field on t. Lists are replaced wholesale.
func (f TourFields) Apply(t *Tour, now time.Time) {
	if f.Title != nil {
		t.Title = strings.TrimSpace(*f.Title)
	}
	if f.City != nil {
		t.City = strings.TrimSpace(*f.City)
	}
	if f.Desc != nil {
		t.Desc = *f.Desc
	}
	if f.MaxGroupSize != nil {
		t.MaxGroupSize = int(*f.MaxGroupSize)
	}
	if f.Photo != nil {
		t.Photo = strings.TrimSpace(*f.Photo)
	}
	if f.Address != nil {
		t.Address = *f.Address
	}
	if f.Price != nil {
		t.Price = float64(*f.Price)
	}
	if f.Distance != nil {
		t.Distance = string(*f.Distance)
	}
	if f.Schedule != nil {
		t.Schedule = append([]ScheduleItem{}, (*f.Schedule)...)
	}
	if f.IncludedInPackage != nil {
		t.IncludedInPackage = append([]string{}, (*f.IncludedInPackage)...)
	}
	if f.ExcludedInPackage != nil {
		t.ExcludedInPackage = append([]string{}, (*f.ExcludedInPackage)...)
	}
	if f.ImportantInfo != nil {
		t.ImportantInfo = *f.ImportantInfo
	}
	if f.Featured != nil {
		t.Featured = *f.Featured
	}
	t.UpdatedAt = now
}

// SetDoc is the $set document for an update carrying only the present fields.
func (f TourFields) SetDoc(now time.Time) bson.M {
	var t Tour
	f.Apply(&t, now)

	set := bson.M{"updatedAt": now}
	if f.Title != nil {
		set["title"] = t.Title
	}
	if f.City != nil {
		set["city"] = t.City
	}
	if f.Desc != nil {
		set["desc"] = t.Desc
	}
	if f.MaxGroupSize != nil {
		set["maxGroupSize"] = t.MaxGroupSize
	}
	if f.Photo != nil {
		set["photo"] = t.Photo
	}
	if f.Address != nil {
		set["address"] = t.Address
	}
	if f.Price != nil {
		set["price"] = t.Price
	}
	if f.Distance != nil {
		set["distance"] = t.Distance
	}
	if f.Schedule != nil {
		set["schedule"] = t.Schedule
	}
	if f.IncludedInPackage != nil {
		set["includedInPackage"] = t.IncludedInPackage
	}
	if f.ExcludedInPackage != nil {
		set["excludedInPackage"] = t.ExcludedInPackage
	}
	if f.ImportantInfo != nil {
		set["importantInfo"] = t.ImportantInfo
	}
	if f.Featured != nil {
		set["featured"] = t.Featured
	}
	return set
}
