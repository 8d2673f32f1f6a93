package routes

import (
	"poolhall_server/controllers"
	"poolhall_server/services"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up routes for notifications under /api/notifications
func RegisterNotificationRoutes(r *mux.Router, notificationService *services.NotificationService) {
	controller := controllers.NewNotificationController(notificationService)

	notificationRouter := r.PathPrefix("/api/notifications").Subrouter()

	notificationRouter.HandleFunc("", controller.GetNotifications).Methods("GET")
	notificationRouter.HandleFunc("/{notificationId}/read", controller.MarkRead).Methods("PATCH")
}
