package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a public piece of app feedback with a 1-5 rating.
type Review struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a reply on a review.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	ReviewID  uuid.UUID `json:"review_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
