package tours

import (
	"context"
	"net/http"
	"time"

	"tourdesk/models"
	"tourdesk/utils"

	"github.com/julienschmidt/httprouter"
)

const requestTimeout = 5 * time.Second

// Handler exposes the tour Service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GET /tour?page=N
func (h *Handler) GetTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tours, err := h.svc.List(ctx, ParsePage(r.URL.Query()))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": tours, "count": len(tours)})
}

// GET /tour/:id
//
// httprouter does not allow static siblings of a wildcard, so the search,
// featured and count listings are dispatched from here.
func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	switch id := ps.ByName("id"); id {
	case "search":
		h.SearchTours(w, r, ps)
	case "featured":
		h.GetFeaturedTours(w, r, ps)
	case "count":
		h.GetTourCount(w, r, ps)
	default:
		h.getSingleTour(w, r, id)
	}
}

func (h *Handler) getSingleTour(w http.ResponseWriter, r *http.Request, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tour, err := h.svc.Get(ctx, id)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	total, avg := models.AverageRating(tour.Reviews)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"data":        tour,
		"message":     "Data received successfully",
		"totalRating": total,
		"avgRating":   avg,
	})
}

// GET /tour/search?search=&minPrice=&maxPrice=
func (h *Handler) SearchTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tours, err := h.svc.Search(ctx, ParseCriteria(r.URL.Query()))
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": tours, "count": len(tours)})
}

// GET /tour/featured
func (h *Handler) GetFeaturedTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tours, err := h.svc.Featured(ctx)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": tours, "count": len(tours)})
}

// GET /tour/count
func (h *Handler) GetTourCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	n, err := h.svc.Count(ctx)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "data": n})
}

// POST /tour
func (h *Handler) CreateTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var fields models.TourFields
	if err := utils.DecodeJSON(w, r, &fields); err != nil {
		utils.RespondWithErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tour, err := h.svc.Create(ctx, fields)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"message": "Tour created successfully", "data": tour})
}

// PUT /tour/:id
func (h *Handler) UpdateTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var fields models.TourFields
	if err := utils.DecodeJSON(w, r, &fields); err != nil {
		utils.RespondWithErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tour, err := h.svc.Update(ctx, ps.ByName("id"), fields)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Tour updated successfully", "data": tour})
}

// DELETE /tour/:id
func (h *Handler) DeleteTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.Delete(ctx, ps.ByName("id")); err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Tour deleted successfully"})
}
