package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTourFieldsAcceptFormValues(t *testing.T) {
	body := `{
		"title": "Goa Getaway", "city": "Goa", "address": "3N/4D", "photo": "u",
		"price": "15000", "maxGroupSize": "4", "distance": 0,
		"includedInPackage": "Hotel\n\nBreakfast\n",
		"excludedInPackage": ["Airfare"]
	}`
	var f TourFields
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := f.ValidateCreate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	tour := f.NewTour(time.Now())
	if tour.Price != 15000 || tour.MaxGroupSize != 4 || tour.Distance != "0" {
		t.Fatalf("unexpected numbers: %+v", tour)
	}
	if len(tour.IncludedInPackage) != 2 || tour.IncludedInPackage[1] != "Breakfast" {
		t.Fatalf("unexpected included list %v", tour.IncludedInPackage)
	}
	if tour.Featured {
		t.Fatal("featured must default to false")
	}
}

func TestValidateCreateListsMissingFields(t *testing.T) {
	title := "Only title"
	err := TourFields{Title: &title}.ValidateCreate()
	if utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, name := range []string{"address", "city", "distance", "maxGroupSize", "photo", "price"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected %q in %q", name, err.Error())
		}
	}
}

func TestMaxGroupSizeMustBeWholeAndBounded(t *testing.T) {
	for _, n := range []Number{0, 2.5, 1e30, GroupSizeLimit + 1, Number(math.Inf(1)), Number(math.NaN())} {
		size := n
		if err := (TourFields{MaxGroupSize: &size}).ValidateUpdate(); utils.KindOf(err) != utils.KindValidation {
			t.Errorf("update with maxGroupSize %v: expected validation error, got %v", n, err)
		}
	}

	var f TourFields
	body := `{"title": "t", "city": "c", "address": "a", "photo": "p", "distance": "d", "price": 1, "maxGroupSize": "1e30"}`
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := f.ValidateCreate(); utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("create with huge maxGroupSize: expected validation error, got %v", err)
	}

	size := Number(GroupSizeLimit)
	if err := (TourFields{MaxGroupSize: &size}).ValidateUpdate(); err != nil {
		t.Fatalf("limit must be accepted: %v", err)
	}
}

func TestValidateScheduleItems(t *testing.T) {
	schedule := []ScheduleItem{{Day: "1", Description: "Arrival"}}
	err := TourFields{Schedule: &schedule}.ValidateUpdate()
	if utils.KindOf(err) != utils.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateUpdateRejectsBlankRequired(t *testing.T) {
	blank := "  "
	if err := (TourFields{City: &blank}).ValidateUpdate(); err == nil {
		t.Fatal("expected error for blank city")
	}
	if err := (TourFields{}).ValidateUpdate(); err != nil {
		t.Fatalf("empty update should be valid: %v", err)
	}
}

func TestSetDocOnlyPresentFields(t *testing.T) {
	featured := true
	schedule := []ScheduleItem{{Day: "2", Description: "Beach", Location: "Calangute"}}
	now := time.Now()
	set := TourFields{Featured: &featured, Schedule: &schedule}.SetDoc(now)

	if len(set) != 3 {
		t.Fatalf("expected featured, schedule, updatedAt; got %v", set)
	}
	if set["featured"] != true {
		t.Fatalf("featured not set: %v", set)
	}
	if got := set["schedule"].([]ScheduleItem); len(got) != 1 || got[0].Day != "2" {
		t.Fatalf("schedule not replaced: %v", got)
	}
	if _, ok := set["title"]; ok {
		t.Fatal("absent title must not be set")
	}
}

func TestTourJSONReviewsShape(t *testing.T) {
	rid := primitive.NewObjectID()
	tour := Tour{ID: primitive.NewObjectID(), Title: "T", ReviewIDs: []primitive.ObjectID{rid}}

	b, _ := json.Marshal(tour)
	if !strings.Contains(string(b), `"reviews":["`+rid.Hex()+`"]`) {
		t.Fatalf("expected id list, got %s", b)
	}

	tour.Populated = true
	tour.Reviews = []Review{{ID: rid, Username: "asha", Rating: 4}}
	b, _ = json.Marshal(tour)
	if !strings.Contains(string(b), `"username":"asha"`) {
		t.Fatalf("expected populated reviews, got %s", b)
	}

	var back Tour
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.Populated || len(back.Reviews) != 1 || back.ReviewIDs[0] != rid {
		t.Fatalf("round trip lost reviews: %+v", back)
	}
}

func TestTourJSONEmptyReviews(t *testing.T) {
	b, _ := json.Marshal(Tour{})
	if !strings.Contains(string(b), `"reviews":[]`) {
		t.Fatalf("expected empty list, got %s", b)
	}
}

func TestAverageRating(t *testing.T) {
	total, avg := AverageRating(nil)
	if total != 0 || avg != 0 {
		t.Fatalf("expected zeroes, got %d %v", total, avg)
	}
	total, avg = AverageRating([]Review{{Rating: 5}, {Rating: 4}, {Rating: 4}})
	if total != 13 || avg != 4.3 {
		t.Fatalf("expected 13 / 4.3, got %d / %v", total, avg)
	}
}

func TestReviewInputValidate(t *testing.T) {
	ok := ReviewInput{Username: "asha", ReviewText: "lovely", Rating: 5}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	for _, in := range []ReviewInput{
		{ReviewText: "x", Rating: 3},
		{Username: "a", Rating: 3},
		{Username: "a", ReviewText: "x", Rating: 0},
		{Username: "a", ReviewText: "x", Rating: 6},
		{Username: "a", ReviewText: "x", Rating: 2.5},
	} {
		if err := in.Validate(); err == nil {
			t.Errorf("expected error for %+v", in)
		}
	}
}

func TestNumberRejectsGarbage(t *testing.T) {
	var n Number
	if err := json.Unmarshal([]byte(`"abc"`), &n); err == nil {
		t.Fatal("expected error")
	}
	if err := json.Unmarshal([]byte(`"12.5"`), &n); err != nil || n != 12.5 {
		t.Fatalf("got %v %v", n, err)
	}
}
