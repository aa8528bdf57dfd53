package models

import (
	"time"

	"github.com/google/uuid"
)

// Emotion types are a fixed enumeration; anything else is rejected at the API.
const (
	EmotionJoy     = "joy"
	EmotionSadness = "sadness"
	EmotionNeutral = "neutral"
)

// ValidEmotionType reports whether t is one of the allowed emotion types.
func ValidEmotionType(t string) bool {
	switch t {
	case EmotionJoy, EmotionSadness, EmotionNeutral:
		return true
	}
	return false
}

// Emotion is an append-only mood log row. Never updated after creation.
type Emotion struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	EmotionType string    `json:"emotion_type"`
	Timestamp   time.Time `json:"timestamp"`
}

// EmotionStats is the time-windowed aggregation returned from the stats
// endpoint. All three counts are always present, zeros included.
type EmotionStats struct {
	Joy     int `json:"joy"`
	Sadness int `json:"sadness"`
	Neutral int `json:"neutral"`
}
