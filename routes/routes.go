package routes

import (
	"fmt"
	"net/http"

	"tourdesk/booking"
	"tourdesk/middleware"
	"tourdesk/ratelim"
	"tourdesk/reviews"
	"tourdesk/tours"

	"github.com/julienschmidt/httprouter"
)

// Deps are the handlers and guards the routes are built from.
type Deps struct {
	Auth    *middleware.Auth
	Limiter *ratelim.RateLimiter
	Tours   *tours.Handler
	Reviews *reviews.Handler
	Booking *booking.Handler
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddHealthRoutes(router *httprouter.Router) {
	router.GET("/health", Index)
}

func AddTourRoutes(router *httprouter.Router, d Deps) {
	router.GET("/tour", d.Tours.GetTours)
	// also serves /tour/search, /tour/featured and /tour/count
	router.GET("/tour/:id", d.Tours.GetTour)
	router.POST("/tour", d.Auth.RequireAdmin(d.Tours.CreateTour))
	router.PUT("/tour/:id", d.Auth.RequireAdmin(d.Tours.UpdateTour))
	router.DELETE("/tour/:id", d.Auth.RequireAdmin(d.Tours.DeleteTour))
}

func AddReviewsRoutes(router *httprouter.Router, d Deps) {
	router.POST("/review/:tourId", d.Limiter.Limit(d.Auth.OptionalAuth(d.Reviews.AddReview)))
}

func AddBookingRoutes(router *httprouter.Router, d Deps) {
	router.POST("/booking", d.Limiter.Limit(d.Auth.Authenticate(d.Booking.CreateBooking)))
	router.GET("/booking", d.Auth.Authenticate(d.Booking.ListBookings))
	router.GET("/booking/:id", d.Auth.Authenticate(d.Booking.GetBooking))
	router.GET("/booking/:id/chat", d.Auth.Authenticate(d.Booking.GetChatLink))
	router.GET("/booking/:id/receipt", d.Auth.Authenticate(d.Booking.GetReceipt))
}
