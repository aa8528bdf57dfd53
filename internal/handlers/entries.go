package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/daybook-app/daybook-backend/internal/services"
)

// CreateEntryRequest accepts html_content as a source field but it is
// stripped before storage; the stored record keeps only the plain content.
type CreateEntryRequest struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	HTMLContent     string `json:"html_content"`
	TextColor       string `json:"text_color"`
	FontSize        string `json:"font_size"`
	TextAlign       string `json:"text_align"`
	IsBold          bool   `json:"is_bold"`
	IsUnderline     bool   `json:"is_underline"`
	IsStrikethrough bool   `json:"is_strikethrough"`
	ListType        string `json:"list_type"`
	Location        string `json:"location"`
	CoverImage      string `json:"cover_image"`
	Date            string `json:"date"`
	Hashtags        string `json:"hashtags"`
	IsPublic        bool   `json:"is_public"`
}

// UpdateEntryRequest carries partial fields; nil means "not supplied".
// cover_image is only replaced when a non-null value is supplied, so a
// missing or null value never clears an existing image.
type UpdateEntryRequest struct {
	Title           *string `json:"title"`
	Content         *string `json:"content"`
	HTMLContent     *string `json:"html_content"`
	TextColor       *string `json:"text_color"`
	FontSize        *string `json:"font_size"`
	TextAlign       *string `json:"text_align"`
	IsBold          *bool   `json:"is_bold"`
	IsUnderline     *bool   `json:"is_underline"`
	IsStrikethrough *bool   `json:"is_strikethrough"`
	ListType        *string `json:"list_type"`
	Location        *string `json:"location"`
	CoverImage      *string `json:"cover_image"`
	Date            *string `json:"date"`
	Hashtags        *string `json:"hashtags"`
	IsPublic        *bool   `json:"is_public"`
}

// parseEntryDate accepts both date-only and RFC 3339 timestamps.
func parseEntryDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func entryIDFromURL(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// CreateEntry handles POST /api/entries/.
func CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry := &models.Entry{
		UserID:          userID,
		Title:           req.Title,
		Content:         req.Content,
		TextColor:       req.TextColor,
		FontSize:        req.FontSize,
		TextAlign:       req.TextAlign,
		IsBold:          req.IsBold,
		IsUnderline:     req.IsUnderline,
		IsStrikethrough: req.IsStrikethrough,
		ListType:        req.ListType,
		Location:        req.Location,
		CoverImage:      req.CoverImage,
		Hashtags:        req.Hashtags,
		IsPublic:        req.IsPublic,
	}

	if req.Date != "" {
		date, err := parseEntryDate(req.Date)
		if err != nil {
			writeFieldErrors(w, fieldErrors{"date": "Enter a valid date"})
			return
		}
		entry.Date = date
	}

	if err := services.CreateEntry(entry); err != nil {
		log.Printf("ERROR: failed to create entry: %v", err)
		writeError(w, http.StatusBadRequest, "Error creating entry")
		return
	}

	writeJSON(w, http.StatusCreated, entry.Serialize())
}

// ListEntries handles GET /api/entries/. Only the caller's entries are
// visible.
func ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	entries, err := services.ListEntries(userID)
	if err != nil {
		log.Printf("ERROR: failed to list entries: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to load entries")
		return
	}

	result := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		result = append(result, entry.Serialize())
	}

	writeJSON(w, http.StatusOK, result)
}

// GetEntry handles GET /api/entries/{id}/. Entries owned by other accounts
// are indistinguishable from missing ones.
func GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	entryID, err := entryIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	entry, err := services.GetEntry(userID, entryID)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Entry not found")
		} else {
			log.Printf("ERROR: failed to load entry: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to load entry")
		}
		return
	}

	writeJSON(w, http.StatusOK, entry.Serialize())
}

// UpdateEntry handles PATCH/PUT /api/entries/{id}/.
func UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	entryID, err := entryIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req UpdateEntryRequest
	if err := dec.Decode(&req); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			writeError(w, http.StatusBadRequest, "Request contains unknown fields")
		} else {
			writeError(w, http.StatusBadRequest, "Invalid request body")
		}
		return
	}

	update := services.EntryUpdate{
		Title:           req.Title,
		Content:         req.Content,
		TextColor:       req.TextColor,
		FontSize:        req.FontSize,
		TextAlign:       req.TextAlign,
		IsBold:          req.IsBold,
		IsUnderline:     req.IsUnderline,
		IsStrikethrough: req.IsStrikethrough,
		ListType:        req.ListType,
		Location:        req.Location,
		CoverImage:      req.CoverImage,
		Hashtags:        req.Hashtags,
		IsPublic:        req.IsPublic,
	}

	if req.Date != nil {
		date, err := parseEntryDate(*req.Date)
		if err != nil {
			writeFieldErrors(w, fieldErrors{"date": "Enter a valid date"})
			return
		}
		update.Date = &date
	}

	entry, err := services.UpdateEntry(userID, entryID, update)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Entry not found")
		} else {
			log.Printf("ERROR: failed to update entry: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to update entry")
		}
		return
	}

	writeJSON(w, http.StatusOK, entry.Serialize())
}

// DeleteEntry handles DELETE /api/entries/{id}/.
func DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	entryID, err := entryIDFromURL(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Entry not found")
		return
	}

	if err := services.DeleteEntry(userID, entryID); err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "Entry not found")
		} else {
			log.Printf("ERROR: failed to delete entry: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete entry")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
