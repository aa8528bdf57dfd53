package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/daybook-app/daybook-backend/internal/middleware"
	"github.com/daybook-app/daybook-backend/internal/services"
	"github.com/daybook-app/daybook-backend/pkg/utils"
)

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// Register handles POST /api/users/register/.
// On success returns 201 with the account summary and a token pair.
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	errs := fieldErrors{}

	if err := utils.ValidateUsername(req.Username); err != nil {
		errs["username"] = err.Error()
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		errs["email"] = err.Error()
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		errs["password"] = err.Error()
	}
	if req.Password != req.Password2 {
		errs["password"] = "Password fields didn't match."
	}

	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	username := utils.NormalizeUsername(req.Username)
	email := utils.NormalizeEmail(req.Email)

	taken, err := services.EmailTaken(email)
	if err != nil {
		log.Printf("ERROR: email lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	if taken {
		errs["email"] = "This email is already in use."
	}

	taken, err = services.UsernameTaken(username)
	if err != nil {
		log.Printf("ERROR: username lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}
	if taken {
		errs["username"] = "This username is already taken."
	}

	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("ERROR: password hashing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user, err := services.CreateUser(username, email, passwordHash, req.FirstName, req.LastName)
	if err != nil {
		log.Printf("ERROR: failed to create user: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	access, refresh, err := tokens.Issue(user.ID)
	if err != nil {
		log.Printf("ERROR: token issuance failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":    user.Summary(),
		"token":   access,
		"refresh": refresh,
	})
}

// Login handles POST /api/users/login/. Wrong email and wrong password get
// the same 401 so accounts cannot be enumerated.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := services.GetUserByEmail(req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		} else {
			log.Printf("ERROR: user lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	access, refresh, err := tokens.Issue(user.ID)
	if err != nil {
		log.Printf("ERROR: token issuance failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user.Summary(),
		"token":   access,
		"refresh": refresh,
	})
}

// RefreshToken handles POST /api/users/token/refresh/. Refresh tokens
// rotate: the consumed token is blacklisted and a new pair is returned.
func RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
		writeError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	access, refresh, err := tokens.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access":  access,
		"refresh": refresh,
	})
}

// authenticatedUserID pulls the account id placed in the context by the auth
// middleware.
func authenticatedUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided")
		return uuid.Nil, false
	}
	return id, true
}
