package tours

import (
	"net/url"
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterForEmptyCriteria(t *testing.T) {
	if f := filterFor(Criteria{}); len(f) != 0 {
		t.Fatalf("expected empty filter, got %v", f)
	}
}

func TestFilterForTermIsLiteralAndCaseInsensitive(t *testing.T) {
	f := filterFor(Criteria{Term: "st. john (old)"})
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("expected $or over title and city, got %v", f)
	}
	title := or[0].(bson.M)["title"].(primitive.Regex)
	if title.Options != "i" {
		t.Fatalf("expected case-insensitive regex, got %q", title.Options)
	}
	re := regexp.MustCompile(title.Pattern)
	if !re.MatchString("visit st. john (old) quarter") || re.MatchString("stX john old") {
		t.Fatalf("pattern %q must match the term literally", title.Pattern)
	}
	if _, ok := or[1].(bson.M)["city"]; !ok {
		t.Fatal("second clause must match city")
	}
	if _, ok := f["price"]; ok {
		t.Fatal("no price filter without bounds")
	}
}

func TestFilterForPriceNeedsBothBounds(t *testing.T) {
	lo, hi := 100.0, 500.0
	f := filterFor(Criteria{MinPrice: &lo, MaxPrice: &hi})
	price, ok := f["price"].(bson.M)
	if !ok || price["$gte"] != 100.0 || price["$lte"] != 500.0 {
		t.Fatalf("unexpected price filter %v", f)
	}

	if f := filterFor(Criteria{MinPrice: &lo}); len(f) != 0 {
		t.Fatalf("single bound must not filter, got %v", f)
	}
}

func TestFilterForFeatured(t *testing.T) {
	if f := filterFor(Criteria{FeaturedOnly: true}); f["featured"] != true {
		t.Fatalf("expected featured filter, got %v", f)
	}
}

func TestSortForTieBreaksOnID(t *testing.T) {
	for _, k := range []SortKey{SortNewest, SortRecentlyUpdated} {
		s := sortFor(k)
		if len(s) != 2 || s[1].Key != "_id" || s[0].Value != -1 {
			t.Fatalf("sort %d: unexpected %v", k, s)
		}
	}
	if sortFor(SortNatural) != nil {
		t.Fatal("natural order has no sort")
	}
}

func TestParsePage(t *testing.T) {
	cases := map[string]int{"": 0, "abc": 0, "-2": 0, "3": 3, " 1 ": 1}
	for in, want := range cases {
		if got := ParsePage(url.Values{"page": {in}}); got != want {
			t.Errorf("page %q: expected %d, got %d", in, want, got)
		}
	}
}

func TestParseCriteria(t *testing.T) {
	c := ParseCriteria(url.Values{"search": {" paris "}, "minPrice": {"100"}, "maxPrice": {"500.5"}})
	if c.Term != "paris" || !c.HasPriceRange() || *c.MaxPrice != 500.5 {
		t.Fatalf("unexpected %+v", c)
	}

	c = ParseCriteria(url.Values{"minPrice": {"100"}, "maxPrice": {"lots"}})
	if c.HasPriceRange() {
		t.Fatal("invalid bound must disable the range")
	}
	c = ParseCriteria(url.Values{"minPrice": {"NaN"}, "maxPrice": {"10"}})
	if c.HasPriceRange() {
		t.Fatal("NaN must not count as a number")
	}
}
