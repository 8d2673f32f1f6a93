package routes

import (
	"poolhall_server/controllers"
	"poolhall_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match lifecycle operations under /api/matches
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, exportService *services.ArchiveExportService) {
	controller := controllers.NewMatchController(matchService, exportService)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()

	matchRouter.HandleFunc("", controller.StartMatch).Methods("POST")
	matchRouter.HandleFunc("/active", controller.GetActiveMatches).Methods("GET")
	matchRouter.HandleFunc("/{matchId}/score", controller.UpdateScore).Methods("PATCH")
	matchRouter.HandleFunc("/{matchId}/end", controller.EndMatch).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/complete", controller.CompleteMatchDirect).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/archive", controller.ArchiveMatch).Methods("POST")
	matchRouter.HandleFunc("/archives/{archiveId}/export-url", controller.GetArchiveExportURL).Methods("GET")
}
