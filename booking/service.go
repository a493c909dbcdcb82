package booking

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/url"
	"strings"
	"time"

	"tourdesk/models"
	"tourdesk/mq"
	"tourdesk/utils"

	"github.com/google/uuid"
)

// Tours resolves the tour a booking refers to.
type Tours interface {
	ByTitle(ctx context.Context, title string) (models.Tour, error)
}

// Emitter publishes change notifications.
type Emitter interface {
	Emit(ctx context.Context, eventName string, content mq.Index)
}

type Service struct {
	store  Store
	tours  Tours
	events Emitter
	number string
	now    func() time.Time
}

// NewService wires a Service. number is the WhatsApp number bookings are
// handed off to; events may be nil.
func NewService(store Store, tours Tours, events Emitter, number string) *Service {
	return &Service{store: store, tours: tours, events: events, number: number, now: time.Now}
}

// Create stores a booking for userID. The total is always recomputed from the
// tour's current price.
func (s *Service) Create(ctx context.Context, userID string, req models.BookingRequest) (models.Booking, error) {
	if userID == "" {
		return models.Booking{}, utils.Unauthorized("Unauthorized")
	}
	if err := req.Validate(); err != nil {
		return models.Booking{}, err
	}
	if req.UserID != "" && req.UserID != userID {
		log.Printf("[booking.Create] body userId %q ignored for token user %q", req.UserID, userID)
	}

	tour, err := s.tours.ByTitle(ctx, strings.TrimSpace(req.TourName))
	if err != nil {
		return models.Booking{}, err
	}

	persons := int(req.MaxGroupSize)
	if tour.MaxGroupSize > 0 && persons > tour.MaxGroupSize {
		return models.Booking{}, utils.Invalid("group size %d exceeds the tour limit of %d", persons, tour.MaxGroupSize)
	}
	total := float64(persons) * tour.Price
	if req.TotalPrice != 0 && float64(req.TotalPrice) != total {
		log.Printf("[booking.Create] submitted total %.2f for %q differs from %.2f; using server total",
			float64(req.TotalPrice), tour.Title, total)
	}

	b := models.Booking{
		ID:           uuid.NewString(),
		UserID:       userID,
		TourID:       tour.ID,
		TourName:     tour.Title,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(string(req.Phone)),
		MaxGroupSize: persons,
		UnitPrice:    tour.Price,
		TotalPrice:   total,
		BookAt:       req.BookAt,
		Date:         req.Date,
		CreatedAt:    s.now(),
	}
	if err := s.store.Insert(ctx, b); err != nil {
		return models.Booking{}, err
	}

	if s.events != nil {
		s.events.Emit(ctx, "booking-created", mq.Index{
			EntityType: "booking",
			EntityId:   b.ID,
			Method:     "POST",
			ItemId:     tour.ID.Hex(),
			ItemType:   "tour",
		})
	}
	return b, nil
}

// Get returns booking id if it belongs to userID. Other users' bookings read
// as missing.
func (s *Service) Get(ctx context.Context, userID, id string) (models.Booking, error) {
	b, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	if b.UserID != userID {
		return models.Booking{}, utils.NotFound("Booking not found")
	}
	return b, nil
}

func (s *Service) Mine(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.store.FindByUser(ctx, userID)
}

// ChatMessage is the text prefilled in the WhatsApp hand-off.
func ChatMessage(b models.Booking) string {
	var sb strings.Builder
	sb.WriteString("Hello! I am interested in this tour package. Here are my details:\n")
	fmt.Fprintf(&sb, "- Tour Package: %s\n", b.TourName)
	fmt.Fprintf(&sb, "- Name: %s\n", b.FullName)
	fmt.Fprintf(&sb, "- Contact Number: %s\n", b.Phone)
	fmt.Fprintf(&sb, "- Number of Persons: %d\n", b.MaxGroupSize)
	fmt.Fprintf(&sb, "- Total Price: ₹%s\n", formatPrice(b.TotalPrice))
	if b.Date != "" {
		fmt.Fprintf(&sb, "- Travel Date: %s\n", b.Date)
	}
	sb.WriteString("I want to book it.")
	return sb.String()
}

// ChatLink builds the wa.me deep link for b.
func (s *Service) ChatLink(b models.Booking) string {
	return "https://wa.me/" + s.number + "?text=" + url.QueryEscape(ChatMessage(b))
}

func formatPrice(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
