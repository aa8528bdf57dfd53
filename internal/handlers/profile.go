package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/daybook-app/daybook-backend/internal/services"
	"github.com/daybook-app/daybook-backend/pkg/utils"
)

// UpdateMeRequest enumerates the mutable profile fields. nil means "not
// supplied". Unknown keys are rejected with 400.
type UpdateMeRequest struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	ProfileImage *string `json:"profile_image"`
}

// GetMe handles GET /api/users/me/.
func GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	user, err := services.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("ERROR: user lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to load profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, user.Profile())
}

// UpdateMe handles PATCH /api/users/me/. Only supplied fields are applied;
// a replaced profile image overwrites the stored URL without cleanup.
func UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req UpdateMeRequest
	if err := dec.Decode(&req); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			writeError(w, http.StatusBadRequest, "Request contains unknown fields")
		} else {
			writeError(w, http.StatusBadRequest, "Invalid request body")
		}
		return
	}

	errs := fieldErrors{}

	if req.Username != nil {
		if err := utils.ValidateUsername(*req.Username); err != nil {
			errs["username"] = err.Error()
		} else {
			normalized := utils.NormalizeUsername(*req.Username)
			req.Username = &normalized
		}
	}
	if req.Email != nil {
		if err := utils.ValidateEmail(*req.Email); err != nil {
			errs["email"] = err.Error()
		} else {
			normalized := utils.NormalizeEmail(*req.Email)
			req.Email = &normalized
		}
	}

	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	current, err := services.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("ERROR: user lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	// Uniqueness checks only when the value actually changes.
	if req.Username != nil && *req.Username != current.Username {
		taken, err := services.UsernameTaken(*req.Username)
		if err != nil {
			log.Printf("ERROR: username lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		if taken {
			errs["username"] = "This username is already taken."
		}
	}
	if req.Email != nil && *req.Email != current.Email {
		taken, err := services.EmailTaken(*req.Email)
		if err != nil {
			log.Printf("ERROR: email lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		if taken {
			errs["email"] = "This email is already in use."
		}
	}

	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	err = services.UpdateProfile(userID, services.ProfileUpdate{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		log.Printf("ERROR: profile update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	user, err := services.GetUserByID(userID)
	if err != nil {
		log.Printf("ERROR: user reload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, user.Profile())
}
