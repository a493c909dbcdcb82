package reviews

import (
	"context"
	"net/http"
	"time"

	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler exposes review submission over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// POST /review/:tourId
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.ReviewInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	review, err := h.svc.Submit(ctx, ps.ByName("tourId"), middleware.UserID(r.Context()), in)
	if err != nil {
		utils.RespondWithErr(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Review submitted", "review": review})
}
