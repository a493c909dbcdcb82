package tours

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ParsePage reads ?page=N. Absent, non-numeric and negative values mean page 0.
func ParsePage(q url.Values) int {
	page, err := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	if err != nil || page < 0 {
		return 0
	}
	return page
}

// ParseCriteria reads ?search=&minPrice=&maxPrice=. A bound that does not
// parse as a finite number is dropped, which disables the price range.
func ParseCriteria(q url.Values) Criteria {
	return Criteria{
		Term:     strings.TrimSpace(q.Get("search")),
		MinPrice: parsePrice(q.Get("minPrice")),
		MaxPrice: parsePrice(q.Get("maxPrice")),
	}
}

func parsePrice(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
