package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/daybook-app/daybook-backend/internal/config"
	"github.com/daybook-app/daybook-backend/internal/services"
)

var (
	tokens            *services.TokenService
	cloudinaryService *services.CloudinaryService
	cloudinaryFolder  string
)

// InitTokenService wires the token service used by auth handlers.
func InitTokenService(svc *services.TokenService) {
	tokens = svc
}

// InitCloudinaryService wires the upload service from config.
func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	cloudinaryFolder = cfg.CloudinaryFolder
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// fieldErrors is a 400 body mapping field names to validation messages.
type fieldErrors map[string]string

func writeFieldErrors(w http.ResponseWriter, errs fieldErrors) {
	writeJSON(w, http.StatusBadRequest, errs)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
