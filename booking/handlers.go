package booking

import (
	"context"
	"log"
	"net/http"
	"time"

	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /booking
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req models.BookingRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.Create(ctx, middleware.UserID(r.Context()), req)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "message": "Booking request received", "data": b})
}

// GET /booking
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.svc.Mine(ctx, middleware.UserID(r.Context()))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": bookings, "count": len(bookings)})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (models.Booking, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.Get(ctx, middleware.UserID(r.Context()), ps.ByName("id"))
	if err != nil {
		utils.RespondWithErr(w, err)
		return models.Booking{}, false
	}
	return b, true
}

// GET /booking/:id
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if b, ok := h.load(w, r, ps); ok {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": b})
	}
}

// GET /booking/:id/chat
func (h *Handler) GetChatLink(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if b, ok := h.load(w, r, ps); ok {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": h.svc.ChatLink(b)})
	}
}

// GET /booking/:id/receipt
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, ok := h.load(w, r, ps)
	if !ok {
		return
	}
	pdf, err := h.svc.Receipt(b)
	if err != nil {
		log.Printf("[booking.GetReceipt] %s: %v", b.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=booking-"+b.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[booking.GetReceipt] %s: write: %v", b.ID, err)
	}
}
