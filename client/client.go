package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tourdesk/models"
)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client calls the tour API.
type Client struct {
	base  string
	http  *http.Client
	token string
}

type Option func(*Client)

// WithToken sends token as a bearer credential.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// envelope covers both response shapes the API uses.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Count   int    `json:"count"`
}

// TourDetail is a single tour with its rating summary.
type TourDetail struct {
	Tour        models.Tour
	TotalRating int
	AvgRating   float64
}

// Criteria for Search. Nil bounds are omitted.
type Criteria struct {
	Term     string
	MinPrice *float64
	MaxPrice *float64
}

func (c Criteria) query() url.Values {
	q := url.Values{}
	if c.Term != "" {
		q.Set("search", c.Term)
	}
	if c.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*c.MinPrice, 'f', -1, 64))
	}
	if c.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*c.MaxPrice, 'f', -1, 64))
	}
	return q
}

// ToursURL and the other URL helpers give the keys Fetcher dedupes on.
func (c *Client) ToursURL(page int) string {
	return c.base + "/tour?page=" + strconv.Itoa(page)
}

func (c *Client) TourURL(id string) string {
	return c.base + "/tour/" + url.PathEscape(id)
}

func (c *Client) SearchURL(crit Criteria) string {
	if q := crit.query().Encode(); q != "" {
		return c.base + "/tour/search?" + q
	}
	return c.base + "/tour/search"
}

func (c *Client) do(ctx context.Context, method, rawURL string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	if w, ok := out.(io.Writer); ok {
		_, err := io.Copy(w, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func getData[T any](ctx context.Context, c *Client, rawURL string) (T, error) {
	var env envelope[T]
	err := c.do(ctx, http.MethodGet, rawURL, nil, &env)
	return env.Data, err
}

func (c *Client) Tours(ctx context.Context, page int) ([]models.Tour, error) {
	return getData[[]models.Tour](ctx, c, c.ToursURL(page))
}

func (c *Client) Tour(ctx context.Context, id string) (TourDetail, error) {
	var env struct {
		Data        models.Tour `json:"data"`
		TotalRating int         `json:"totalRating"`
		AvgRating   float64     `json:"avgRating"`
	}
	if err := c.do(ctx, http.MethodGet, c.TourURL(id), nil, &env); err != nil {
		return TourDetail{}, err
	}
	return TourDetail{Tour: env.Data, TotalRating: env.TotalRating, AvgRating: env.AvgRating}, nil
}

func (c *Client) Search(ctx context.Context, crit Criteria) ([]models.Tour, error) {
	return getData[[]models.Tour](ctx, c, c.SearchURL(crit))
}

func (c *Client) Featured(ctx context.Context) ([]models.Tour, error) {
	return getData[[]models.Tour](ctx, c, c.base+"/tour/featured")
}

func (c *Client) Count(ctx context.Context) (int64, error) {
	return getData[int64](ctx, c, c.base+"/tour/count")
}

func (c *Client) CreateTour(ctx context.Context, f models.TourFields) (models.Tour, error) {
	var env envelope[models.Tour]
	err := c.do(ctx, http.MethodPost, c.base+"/tour", f, &env)
	return env.Data, err
}

func (c *Client) UpdateTour(ctx context.Context, id string, f models.TourFields) (models.Tour, error) {
	var env envelope[models.Tour]
	err := c.do(ctx, http.MethodPut, c.TourURL(id), f, &env)
	return env.Data, err
}

func (c *Client) DeleteTour(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.TourURL(id), nil, nil)
}

func (c *Client) SubmitReview(ctx context.Context, tourID string, in models.ReviewInput) (models.Review, error) {
	var out struct {
		Review models.Review `json:"review"`
	}
	err := c.do(ctx, http.MethodPost, c.base+"/review/"+url.PathEscape(tourID), in, &out)
	return out.Review, err
}

func (c *Client) CreateBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	var env envelope[models.Booking]
	err := c.do(ctx, http.MethodPost, c.base+"/booking", req, &env)
	return env.Data, err
}

func (c *Client) Bookings(ctx context.Context) ([]models.Booking, error) {
	return getData[[]models.Booking](ctx, c, c.base+"/booking")
}

func (c *Client) Booking(ctx context.Context, id string) (models.Booking, error) {
	return getData[models.Booking](ctx, c, c.base+"/booking/"+url.PathEscape(id))
}

func (c *Client) ChatLink(ctx context.Context, id string) (string, error) {
	return getData[string](ctx, c, c.base+"/booking/"+url.PathEscape(id)+"/chat")
}

// Receipt copies the booking's PDF receipt to w.
func (c *Client) Receipt(ctx context.Context, id string, w io.Writer) error {
	return c.do(ctx, http.MethodGet, c.base+"/booking/"+url.PathEscape(id)+"/receipt", nil, w)
}
