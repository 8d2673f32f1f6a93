package routes

import (
	"poolhall_server/controllers"
	"poolhall_server/services"

	"github.com/gorilla/mux"
)

// RegisterQueueRoutes sets up routes for queue operations under /api/queue
func RegisterQueueRoutes(r *mux.Router, queueService *services.QueueService) {
	controller := controllers.NewQueueController(queueService)

	queueRouter := r.PathPrefix("/api/queue").Subrouter()

	queueRouter.HandleFunc("", controller.GetQueue).Methods("GET")
	queueRouter.HandleFunc("", controller.AddToQueue).Methods("POST")
	queueRouter.HandleFunc("/{entryId}", controller.RemoveFromQueue).Methods("DELETE")
	queueRouter.HandleFunc("/{entryId}/skip", controller.ToggleSkip).Methods("PATCH")
}
