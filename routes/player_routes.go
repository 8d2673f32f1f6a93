package routes

import (
	"poolhall_server/controllers"
	"poolhall_server/services"

	"github.com/gorilla/mux"
)

// RegisterPlayerRoutes sets up routes for player operations under /api/players
func RegisterPlayerRoutes(r *mux.Router, ratingService *services.RatingService) {
	controller := controllers.NewPlayerController(ratingService)

	playerRouter := r.PathPrefix("/api/players").Subrouter()

	playerRouter.HandleFunc("/{playerId}", controller.GetPlayer).Methods("GET")
	playerRouter.HandleFunc("/{playerId}", controller.UpsertPlayer).Methods("PUT")
}
