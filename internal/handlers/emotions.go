package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/daybook-app/daybook-backend/internal/services"
)

type CreateEmotionRequest struct {
	EmotionType string `json:"emotion_type"`
}

// CreateEmotion handles POST /api/emotions/. The authenticated id is
// re-checked against the users table before writing; failures surface only a
// generic message while the detail is logged server-side.
func CreateEmotion(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req CreateEmotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !models.ValidEmotionType(req.EmotionType) {
		writeError(w, http.StatusBadRequest, "Invalid emotion type")
		return
	}

	// Defensive check: a valid token can outlive its account row.
	if _, err := services.GetUserByID(userID); err != nil {
		if err == sql.ErrNoRows {
			log.Printf("WARNING: emotion create for unknown user %s", userID)
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("ERROR: user lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to record emotion")
		}
		return
	}

	emotion, err := services.CreateEmotion(userID, req.EmotionType)
	if err != nil {
		log.Printf("ERROR: failed to save emotion for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Failed to record emotion")
		return
	}

	writeJSON(w, http.StatusCreated, emotion)
}

// ListEmotions handles GET /api/emotions/.
func ListEmotions(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	emotions, err := services.ListEmotions(userID)
	if err != nil {
		log.Printf("ERROR: failed to list emotions: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load emotions")
		return
	}

	if emotions == nil {
		emotions = []*models.Emotion{}
	}
	writeJSON(w, http.StatusOK, emotions)
}

// EmotionStats handles GET /api/emotions/stats/{period}/.
// period is day, week, or month; unrecognized values fall back to month.
// Rows at exactly the cutoff instant are counted (timestamp >= start).
func EmotionStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	period := chi.URLParam(r, "period")
	start := services.StatsWindow(period, time.Now())

	stats, err := services.EmotionStats(userID, start)
	if err != nil {
		log.Printf("ERROR: failed to compute emotion stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
