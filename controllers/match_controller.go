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

// MatchController handles HTTP requests for the match lifecycle
type MatchController struct {
	MatchService  *services.MatchService
	ExportService *services.ArchiveExportService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, exportService *services.ArchiveExportService) *MatchController {
	return &MatchController{MatchService: matchService, ExportService: exportService}
}

// StartMatch handles creating a new match on a table
func (mc *MatchController) StartMatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		TableID string        `json:"tableId"`
		Teams   []models.Team `json:"teams"`
		RaceTo  int           `json:"raceTo"`
		Name    string        `json:"name,omitempty"`
		Type    string        `json:"type,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Println("❌ Invalid request payload:", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.TableID == "" {
		http.Error(w, "tableId is required", http.StatusBadRequest)
		return
	}

	var metadata map[string]interface{}
	if request.Name != "" || request.Type != "" {
		metadata = map[string]interface{}{}
		if request.Name != "" {
			metadata["name"] = request.Name
		}
		if request.Type != "" {
			metadata["type"] = request.Type
		}
	}

	match, err := mc.MatchService.StartMatch(r.Context(), request.TableID, request.Teams, request.RaceTo, metadata)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to start match: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(match)
}

// UpdateScore handles updating the running score of a match
func (mc *MatchController) UpdateScore(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request struct {
		Score []int `json:"score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	match, err := mc.MatchService.UpdateScore(r.Context(), matchID, request.Score)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update score: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(match)
}

// EndMatch completes a match and runs the queue rotation for its table
func (mc *MatchController) EndMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request struct {
		TableID         string `json:"tableId"`
		WinnerTeamIndex int    `json:"winnerTeamIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.TableID == "" {
		http.Error(w, "tableId is required", http.StatusBadRequest)
		return
	}

	result, err := mc.MatchService.EndMatch(r.Context(), matchID, request.TableID, request.WinnerTeamIndex)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to end match: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// CompleteMatchDirect completes and archives a match without rotation
func (mc *MatchController) CompleteMatchDirect(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request struct {
		TableID         string `json:"tableId"`
		WinnerTeamIndex int    `json:"winnerTeamIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.TableID == "" {
		http.Error(w, "tableId is required", http.StatusBadRequest)
		return
	}

	if err := mc.MatchService.CompleteMatchDirect(r.Context(), matchID, request.TableID, request.WinnerTeamIndex); err != nil {
		http.Error(w, fmt.Sprintf("Failed to complete match: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Match completed", "matchId": matchID})
}

// ArchiveMatch archives a completed match; calling it again is a no-op
func (mc *MatchController) ArchiveMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	if err := mc.MatchService.ArchiveMatch(r.Context(), matchID); err != nil {
		http.Error(w, fmt.Sprintf("Failed to archive match: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Match archived", "matchId": matchID})
}

// GetActiveMatches fetches active matches for a table or a player
func (mc *MatchController) GetActiveMatches(w http.ResponseWriter, r *http.Request) {
	tableID := r.URL.Query().Get("tableId")
	playerID := r.URL.Query().Get("playerId")

	if tableID == "" && playerID == "" {
		http.Error(w, "tableId or playerId is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if tableID != "" {
		match, err := mc.MatchService.GetActiveMatchForTable(ctx, tableID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		matches := []models.Match{}
		if match != nil {
			matches = append(matches, *match)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"matches": matches})
		return
	}

	matches, err := mc.MatchService.GetActiveMatchesForPlayer(ctx, playerID)
	if err != nil {
		// Best-effort contract: the empty result still goes out.
		log.Printf("⚠️ Active-match read for player %s degraded: %v", playerID, err)
	}
	if matches == nil {
		matches = []models.Match{}
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"matches": matches})
}

// GetArchiveExportURL returns a presigned download link for an exported archive
func (mc *MatchController) GetArchiveExportURL(w http.ResponseWriter, r *http.Request) {
	archiveID := mux.Vars(r)["archiveId"]

	if mc.ExportService == nil {
		http.Error(w, "Archive export is not configured", http.StatusNotImplemented)
		return
	}

	url, err := mc.ExportService.GenerateReadURL(r.Context(), "match-archives/"+archiveID+".json")
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate export URL: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
