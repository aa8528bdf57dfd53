package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/daybook-app/daybook-backend/internal/services"
	"github.com/daybook-app/daybook-backend/pkg/utils"
)

type SetPinRequest struct {
	PinCode    string `json:"pin_code"`
	ConfirmPin string `json:"confirm_pin"`
}

type VerifyPinRequest struct {
	PinCode string `json:"pin_code"`
}

type DontRemindRequest struct {
	RemindPin bool `json:"remind_pin"`
}

// SetPin handles POST /api/users/set-pin/. Both values must be exactly
// 4 digits and equal; a mismatch never mutates the stored PIN.
func SetPin(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req SetPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidatePin(req.PinCode); err != nil {
		writeFieldErrors(w, fieldErrors{"pin_code": err.Error()})
		return
	}
	if err := utils.ValidatePin(req.ConfirmPin); err != nil {
		writeFieldErrors(w, fieldErrors{"confirm_pin": err.Error()})
		return
	}
	if req.PinCode != req.ConfirmPin {
		writeFieldErrors(w, fieldErrors{"pin_code": "Pin codes do not match"})
		return
	}

	if err := services.SetPin(userID, req.PinCode); err != nil {
		log.Printf("ERROR: failed to set pin: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to set pin")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// VerifyPin handles POST /api/users/verify-pin/. Success is a gate pass for
// this request only; no session elevation happens.
func VerifyPin(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req VerifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidatePin(req.PinCode); err != nil {
		writeFieldErrors(w, fieldErrors{"pin_code": err.Error()})
		return
	}

	user, err := services.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "User not found")
		} else {
			log.Printf("ERROR: user lookup failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to verify pin")
		}
		return
	}

	// Direct equality against the stored value. No lockout or attempt
	// counting exists on this gate.
	if user.PinCode != req.PinCode {
		writeError(w, http.StatusBadRequest, "Invalid pin code")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// DontRemind handles POST /api/users/dont-remind/.
func DontRemind(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req DontRemindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := services.SetRemindPin(userID, req.RemindPin); err != nil {
		log.Printf("ERROR: failed to update remind preference: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to update preference")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
