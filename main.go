package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"poolhall_server/routes"
	"poolhall_server/services"
	"poolhall_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Realtime change feed for the UI
	socketServer := socket.NewSocketServer()
	feed := &socket.Broadcaster{Server: socketServer}

	// Initialize Services
	tableService := &services.TableService{Dynamo: dynamoService}
	ratingService := &services.RatingService{Dynamo: dynamoService}
	notificationService := &services.NotificationService{Dynamo: dynamoService, Feed: feed}
	exportService := services.NewArchiveExportService()

	matchService := &services.MatchService{
		Dynamo:        dynamoService,
		Tables:        tableService,
		Ratings:       ratingService,
		Notifications: notificationService,
		Exports:       exportService,
		Feed:          feed,
	}
	queueService := &services.QueueService{Dynamo: dynamoService, Matches: matchService, Feed: feed}
	matchService.Queue = queueService

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to the Pool Hall API")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterMatchRoutes(r, matchService, exportService)
	routes.RegisterQueueRoutes(r, queueService)
	routes.RegisterNotificationRoutes(r, notificationService)
	routes.RegisterPlayerRoutes(r, ratingService)
	routes.RegisterTableRoutes(r, tableService)

	// Mount the change feed
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
