package routes

import (
	"poolhall_server/controllers"
	"poolhall_server/services"

	"github.com/gorilla/mux"
)

// RegisterTableRoutes sets up read-only table routes under /api/tables
func RegisterTableRoutes(r *mux.Router, tableService *services.TableService) {
	controller := controllers.NewTableController(tableService)

	tableRouter := r.PathPrefix("/api/tables").Subrouter()

	tableRouter.HandleFunc("", controller.GetTables).Methods("GET")
}
