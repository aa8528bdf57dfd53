package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/daybook-app/daybook-backend/internal/services"
)

type CreateReviewRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

func reviewIDFromURL(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// ListReviews handles GET /api/reviews/.
func ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := services.ListReviews()
	if err != nil {
		log.Printf("ERROR: failed to list reviews: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load reviews")
		return
	}

	if reviews == nil {
		reviews = []*models.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

// CreateReview handles POST /api/reviews/.
func CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := fieldErrors{}
	if strings.TrimSpace(req.Text) == "" {
		errs["text"] = "Review text is required"
	}
	if req.Rating < 1 || req.Rating > 5 {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	user, err := services.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("ERROR: user lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create review")
		}
		return
	}

	review, err := services.CreateReview(userID, user.Username, req.Text, req.Rating)
	if err != nil {
		log.Printf("ERROR: failed to create review: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create review")
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// ToggleLike handles POST /api/reviews/{id}/like/.
func ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	reviewID, err := reviewIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Review not found")
		return
	}

	exists, err := services.ReviewExists(reviewID)
	if err != nil {
		log.Printf("ERROR: review lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to toggle like")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "Review not found")
		return
	}

	liked, likes, err := services.ToggleLike(userID, reviewID)
	if err != nil {
		log.Printf("ERROR: failed to toggle like: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to toggle like")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"liked": liked,
		"likes": likes,
	})
}

// ListComments handles GET /api/reviews/{id}/comments/.
func ListComments(w http.ResponseWriter, r *http.Request) {
	reviewID, err := reviewIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Review not found")
		return
	}

	exists, err := services.ReviewExists(reviewID)
	if err != nil {
		log.Printf("ERROR: review lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load comments")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "Review not found")
		return
	}

	comments, err := services.ListComments(reviewID)
	if err != nil {
		log.Printf("ERROR: failed to list comments: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load comments")
		return
	}

	if comments == nil {
		comments = []*models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// CreateComment handles POST /api/reviews/{id}/comments/.
func CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	reviewID, err := reviewIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Review not found")
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeFieldErrors(w, fieldErrors{"text": "Comment text is required"})
		return
	}

	exists, err := services.ReviewExists(reviewID)
	if err != nil {
		log.Printf("ERROR: review lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "Review not found")
		return
	}

	user, err := services.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("ERROR: user lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create comment")
		}
		return
	}

	comment, err := services.CreateComment(userID, reviewID, user.Username, req.Text)
	if err != nil {
		log.Printf("ERROR: failed to create comment: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create comment")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}
