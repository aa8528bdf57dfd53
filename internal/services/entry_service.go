package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/daybook-app/daybook-backend/internal/database"
	"github.com/daybook-app/daybook-backend/internal/models"
)

const entryColumns = `id, user_id, created_at, updated_at, title, content,
	text_color, font_size, text_align, is_bold, is_underline, is_strikethrough,
	list_type, location, cover_image, date, hashtags, is_public`

func scanEntry(scanner interface{ Scan(...interface{}) error }) (*models.Entry, error) {
	var e models.Entry
	err := scanner.Scan(&e.ID, &e.UserID, &e.CreatedAt, &e.UpdatedAt, &e.Title,
		&e.Content, &e.TextColor, &e.FontSize, &e.TextAlign, &e.IsBold,
		&e.IsUnderline, &e.IsStrikethrough, &e.ListType, &e.Location,
		&e.CoverImage, &e.Date, &e.Hashtags, &e.IsPublic)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntry persists a new diary entry for the owning account.
func CreateEntry(entry *models.Entry) error {
	now := time.Now()
	entry.ID = uuid.New()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.Date.IsZero() {
		entry.Date = now
	}

	_, err := database.PostgresDB.Exec(`
		INSERT INTO entries (id, user_id, created_at, updated_at, title, content,
			text_color, font_size, text_align, is_bold, is_underline, is_strikethrough,
			list_type, location, cover_image, date, hashtags, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, entry.ID, entry.UserID, entry.CreatedAt, entry.UpdatedAt, entry.Title,
		entry.Content, entry.TextColor, entry.FontSize, entry.TextAlign,
		entry.IsBold, entry.IsUnderline, entry.IsStrikethrough, entry.ListType,
		entry.Location, entry.CoverImage, entry.Date, entry.Hashtags, entry.IsPublic)
	return err
}

// ListEntries returns the account's entries, newest date first. Storage order
// is not stable on its own, so the sort is explicit.
func ListEntries(userID uuid.UUID) ([]*models.Entry, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT `+entryColumns+` FROM entries WHERE user_id = $1 ORDER BY date DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetEntry loads an entry by id scoped to the owning account. Returns
// sql.ErrNoRows both when the entry does not exist and when it belongs to
// another account, so foreign rows are never revealed.
func GetEntry(userID, entryID uuid.UUID) (*models.Entry, error) {
	row := database.PostgresDB.QueryRow(`
		SELECT `+entryColumns+` FROM entries WHERE id = $1 AND user_id = $2
	`, entryID, userID)
	return scanEntry(row)
}

// EntryUpdate carries the mutable entry fields for a partial update.
// nil means "not supplied, leave unchanged". CoverImage follows the same
// rule: a null or absent value never clears an existing image.
type EntryUpdate struct {
	Title           *string
	Content         *string
	TextColor       *string
	FontSize        *string
	TextAlign       *string
	IsBold          *bool
	IsUnderline     *bool
	IsStrikethrough *bool
	ListType        *string
	Location        *string
	CoverImage      *string
	Date            *time.Time
	Hashtags        *string
	IsPublic        *bool
}

// UpdateEntry applies only the supplied fields to an entry owned by the
// account and returns the updated row. Returns sql.ErrNoRows when the entry
// is missing or not owned.
func UpdateEntry(userID, entryID uuid.UUID, update EntryUpdate) (*models.Entry, error) {
	res, err := database.PostgresDB.Exec(`
		UPDATE entries SET
			title = COALESCE($3, title),
			content = COALESCE($4, content),
			text_color = COALESCE($5, text_color),
			font_size = COALESCE($6, font_size),
			text_align = COALESCE($7, text_align),
			is_bold = COALESCE($8, is_bold),
			is_underline = COALESCE($9, is_underline),
			is_strikethrough = COALESCE($10, is_strikethrough),
			list_type = COALESCE($11, list_type),
			location = COALESCE($12, location),
			cover_image = COALESCE($13, cover_image),
			date = COALESCE($14, date),
			hashtags = COALESCE($15, hashtags),
			is_public = COALESCE($16, is_public),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, entryID, userID, update.Title, update.Content, update.TextColor,
		update.FontSize, update.TextAlign, update.IsBold, update.IsUnderline,
		update.IsStrikethrough, update.ListType, update.Location,
		update.CoverImage, update.Date, update.Hashtags, update.IsPublic)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}

	return GetEntry(userID, entryID)
}

// DeleteEntry removes an entry owned by the account. Returns sql.ErrNoRows
// when the entry is missing or not owned.
func DeleteEntry(userID, entryID uuid.UUID) error {
	res, err := database.PostgresDB.Exec(`
		DELETE FROM entries WHERE id = $1 AND user_id = $2
	`, entryID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
