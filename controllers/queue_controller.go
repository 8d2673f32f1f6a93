package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"poolhall_server/models"
	"poolhall_server/services"

	"github.com/gorilla/mux"
)

// QueueController handles HTTP requests for table queues
type QueueController struct {
	QueueService *services.QueueService
}

// NewQueueController creates a new QueueController instance
func NewQueueController(queueService *services.QueueService) *QueueController {
	return &QueueController{QueueService: queueService}
}

// GetQueue fetches a table's queue ordered by position
func (qc *QueueController) GetQueue(w http.ResponseWriter, r *http.Request) {
	tableID := r.URL.Query().Get("tableId")
	if tableID == "" {
		http.Error(w, "tableId is required", http.StatusBadRequest)
		return
	}

	queue, err := qc.QueueService.GetQueue(r.Context(), tableID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch queue: %v", err), http.StatusInternalServerError)
		return
	}
	if queue == nil {
		queue = []models.QueueEntry{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"queue": queue})
}

// AddToQueue appends a player to a table's queue
func (qc *QueueController) AddToQueue(w http.ResponseWriter, r *http.Request) {
	var request struct {
		TableID  string `json:"tableId"`
		PlayerID string `json:"playerId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Println("❌ Invalid request payload:", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.TableID == "" || request.PlayerID == "" {
		http.Error(w, "tableId and playerId are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry, err := qc.QueueService.AddToQueue(ctx, request.TableID, request.PlayerID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to join queue: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// RemoveFromQueue deletes an entry and renumbers the rest of the queue
func (qc *QueueController) RemoveFromQueue(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryId"]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := qc.QueueService.RemoveFromQueue(ctx, entryID); err != nil {
		http.Error(w, fmt.Sprintf("Failed to leave queue: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Removed from queue", "entryId": entryID})
}

// ToggleSkip flips an entry's skipped flag
func (qc *QueueController) ToggleSkip(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryId"]

	entry, err := qc.QueueService.ToggleSkip(r.Context(), entryID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to toggle skip: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entry)
}
