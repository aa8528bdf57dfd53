package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/daybook-app/daybook-backend/internal/database"
	"github.com/daybook-app/daybook-backend/internal/models"
)

// CreateEmotion appends an emotion log row for the account. Emotions are
// never updated after creation.
func CreateEmotion(userID uuid.UUID, emotionType string) (*models.Emotion, error) {
	emotion := &models.Emotion{
		ID:          uuid.New(),
		UserID:      userID,
		EmotionType: emotionType,
		Timestamp:   time.Now(),
	}

	_, err := database.PostgresDB.Exec(`
		INSERT INTO emotions (id, user_id, emotion_type, timestamp)
		VALUES ($1, $2, $3, $4)
	`, emotion.ID, emotion.UserID, emotion.EmotionType, emotion.Timestamp)
	if err != nil {
		return nil, err
	}

	return emotion, nil
}

// ListEmotions returns the account's emotion log, newest first.
func ListEmotions(userID uuid.UUID) ([]*models.Emotion, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT id, user_id, emotion_type, timestamp FROM emotions
		WHERE user_id = $1 ORDER BY timestamp DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emotions []*models.Emotion
	for rows.Next() {
		var e models.Emotion
		if err := rows.Scan(&e.ID, &e.UserID, &e.EmotionType, &e.Timestamp); err != nil {
			return nil, err
		}
		emotions = append(emotions, &e)
	}
	return emotions, rows.Err()
}

// StatsWindow returns the aggregation start time for a stats period.
// Unrecognized periods fall back to month.
func StatsWindow(period string, now time.Time) time.Time {
	switch period {
	case "day":
		return now.Add(-24 * time.Hour)
	case "week":
		return now.Add(-7 * 24 * time.Hour)
	default: // month
		return now.Add(-30 * 24 * time.Hour)
	}
}

// EmotionStats counts the account's emotions of each type with
// timestamp >= start. The cutoff instant itself is included.
func EmotionStats(userID uuid.UUID, start time.Time) (*models.EmotionStats, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT emotion_type, COUNT(*) FROM emotions
		WHERE user_id = $1 AND timestamp >= $2
		GROUP BY emotion_type
	`, userID, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &models.EmotionStats{}
	for rows.Next() {
		var emotionType string
		var count int
		if err := rows.Scan(&emotionType, &count); err != nil {
			return nil, err
		}
		switch emotionType {
		case models.EmotionJoy:
			stats.Joy = count
		case models.EmotionSadness:
			stats.Sadness = count
		case models.EmotionNeutral:
			stats.Neutral = count
		}
	}
	return stats, rows.Err()
}
