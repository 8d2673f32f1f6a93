package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"poolhall_server/models"
	"poolhall_server/services"

	"github.com/gorilla/mux"
)

// PlayerController handles HTTP requests for players and their ratings
type PlayerController struct {
	RatingService *services.RatingService
}

// NewPlayerController creates a new PlayerController instance
func NewPlayerController(ratingService *services.RatingService) *PlayerController {
	return &PlayerController{RatingService: ratingService}
}

// GetPlayer fetches a player by ID
func (pc *PlayerController) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["playerId"]

	player, err := pc.RatingService.GetPlayer(r.Context(), playerID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch player: %v", err), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(player)
}

// UpsertPlayer creates or replaces a player row
func (pc *PlayerController) UpsertPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := mux.Vars(r)["playerId"]

	var player models.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	player.ID = playerID

	saved, err := pc.RatingService.UpsertPlayer(r.Context(), player)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to save player: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(saved)
}
