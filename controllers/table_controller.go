package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"poolhall_server/models"
	"poolhall_server/services"
)

// TableController handles read-only HTTP requests for pool tables
type TableController struct {
	TableService *services.TableService
}

// NewTableController creates a new TableController instance
func NewTableController(tableService *services.TableService) *TableController {
	return &TableController{TableService: tableService}
}

// GetTables fetches all tables at a venue
func (tc *TableController) GetTables(w http.ResponseWriter, r *http.Request) {
	venueID := r.URL.Query().Get("venueId")
	if venueID == "" {
		http.Error(w, "venueId is required", http.StatusBadRequest)
		return
	}

	tables, err := tc.TableService.ListTablesByVenue(r.Context(), venueID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch tables: %v", err), http.StatusInternalServerError)
		return
	}
	if tables == nil {
		tables = []models.Table{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"tables": tables})
}
