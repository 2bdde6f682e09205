package exercise

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/beelink/governance-backend/internal/models"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Default handles GET /api/default_exercise.
func (h *Handler) Default(w http.ResponseWriter, r *http.Request) {
	ex, err := h.store.DefaultExercise()
	if err != nil {
		log.Printf("Failed to load default exercise: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load default exercise"})
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
