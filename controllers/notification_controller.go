package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"poolhall_server/models"
	"poolhall_server/services"

	"github.com/gorilla/mux"
)

// NotificationController handles HTTP requests for player notifications
type NotificationController struct {
	NotificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController instance
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// GetNotifications fetches all notifications for a player
func (nc *NotificationController) GetNotifications(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}

	notifications, err := nc.NotificationService.GetNotificationsForPlayer(r.Context(), playerID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch notifications: %v", err), http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"notifications": notifications})
}

// MarkRead flags a notification as read
func (nc *NotificationController) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notificationId"]

	if err := nc.NotificationService.MarkNotificationRead(r.Context(), notificationID); err != nil {
		http.Error(w, fmt.Sprintf("Failed to mark notification read: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification marked read", "notificationId": notificationID})
}
