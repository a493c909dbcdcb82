package routes

import (
	"net/http"

	"tourdesk/utils"

	"github.com/julienschmidt/httprouter"
)

// RoutesWrapper registers every route on router.
func RoutesWrapper(router *httprouter.Router, d Deps) {
	AddHealthRoutes(router)
	AddTourRoutes(router, d)
	AddReviewsRoutes(router, d)
	AddBookingRoutes(router, d)
}

// New returns a router with all routes and JSON 404/405 responses.
func New(d Deps) *httprouter.Router {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	RoutesWrapper(router, d)
	return router
}
