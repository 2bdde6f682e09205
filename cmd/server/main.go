package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/beelink/governance-backend/internal/corrector"
	"github.com/beelink/governance-backend/internal/database"
	"github.com/beelink/governance-backend/internal/evaluate"
	"github.com/beelink/governance-backend/internal/exercise"
	"github.com/beelink/governance-backend/internal/governance"
	"github.com/beelink/governance-backend/internal/session"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services and handlers
	evaluator := governance.NewFromEnv()
	corr := corrector.NewFromEnv()

	exerciseStore := exercise.NewStore(db)
	exerciseHandler := exercise.NewHandler(exerciseStore)

	evalService := evaluate.NewService(evaluator, corr, exerciseStore)
	evalStore := evaluate.NewStore(db)
	evalHandler := evaluate.NewHandler(evalService, evalStore)

	govHandler := governance.NewHandler(evaluator)
	sessionHandler := session.NewHandler()

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(session.Middleware)

	// Session
	api.HandleFunc("/session", sessionHandler.Create).Methods("POST")
	api.HandleFunc("/session/me", sessionHandler.Me).Methods("GET")

	// Exercise
	api.HandleFunc("/default_exercise", exerciseHandler.Default).Methods("GET")

	// Evaluation
	api.HandleFunc("/evaluate", evalHandler.Evaluate).Methods("POST")
	api.HandleFunc("/evaluations", session.RequireSession(evalHandler.History)).Methods("GET")
	api.HandleFunc("/evaluations/latest", evalHandler.Latest).Methods("GET")

	// Free-text governance scoring
	api.HandleFunc("/governance/score", govHandler.ScoreText).Methods("POST")
	api.HandleFunc("/governance/latest", govHandler.Latest).Methods("GET")
	api.HandleFunc("/governance/metrics", govHandler.Catalog).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// corsOrigins reads CORS_ORIGINS as a comma-separated list. The default
// covers the local frontend dev server.
func corsOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:3001", "http://127.0.0.1:3001"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
