package models

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a rich-text diary entry. HTMLContent is never persisted: it is
// accepted on input as a source field and synthesized from Content at
// serialization time when absent.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title   string `json:"title"`
	Content string `json:"content"`

	TextColor       string `json:"text_color"`
	FontSize        string `json:"font_size"`
	TextAlign       string `json:"text_align"`
	IsBold          bool   `json:"is_bold"`
	IsUnderline     bool   `json:"is_underline"`
	IsStrikethrough bool   `json:"is_strikethrough"`
	ListType        string `json:"list_type"`

	Location   string    `json:"location,omitempty"`
	CoverImage string    `json:"cover_image,omitempty"`
	Date       time.Time `json:"date"`
	Hashtags   string    `json:"hashtags"`
	IsPublic   bool      `json:"is_public"`
}

// Serialize renders the entry for the API. html_content is backfilled with
// the plain content so readers always have renderable text.
func (e *Entry) Serialize() map[string]interface{} {
	htmlContent := e.Content
	return map[string]interface{}{
		"id":               e.ID.String(),
		"title":            e.Title,
		"content":          e.Content,
		"html_content":     htmlContent,
		"text_color":       e.TextColor,
		"font_size":        e.FontSize,
		"text_align":       e.TextAlign,
		"is_bold":          e.IsBold,
		"is_underline":     e.IsUnderline,
		"is_strikethrough": e.IsStrikethrough,
		"list_type":        e.ListType,
		"location":         e.Location,
		"cover_image":      e.CoverImage,
		"date":             e.Date,
		"hashtags":         e.Hashtags,
		"is_public":        e.IsPublic,
		"created_at":       e.CreatedAt,
		"updated_at":       e.UpdatedAt,
	}
}
