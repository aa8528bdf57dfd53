package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/daybook-app/daybook-backend/internal/database"
	"github.com/daybook-app/daybook-backend/internal/models"
)

// CreateReview persists a review with its author's username resolved for display.
func CreateReview(userID uuid.UUID, username, text string, rating int) (*models.Review, error) {
	review := &models.Review{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  username,
		Text:      text,
		Rating:    rating,
		CreatedAt: time.Now(),
	}

	_, err := database.PostgresDB.Exec(`
		INSERT INTO reviews (id, user_id, created_at, text, rating)
		VALUES ($1, $2, $3, $4, $5)
	`, review.ID, review.UserID, review.CreatedAt, review.Text, review.Rating)
	if err != nil {
		return nil, err
	}

	return review, nil
}

// ListReviews returns all reviews newest first, with author usernames and
// like counts.
func ListReviews() ([]*models.Review, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT r.id, r.user_id, u.username, r.text, r.rating, r.created_at,
			(SELECT COUNT(*) FROM likes l WHERE l.review_id = r.id)
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.Username, &rv.Text, &rv.Rating, &rv.CreatedAt, &rv.Likes); err != nil {
			return nil, err
		}
		reviews = append(reviews, &rv)
	}
	return reviews, rows.Err()
}

// ReviewExists reports whether the review id resolves to a row.
func ReviewExists(reviewID uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := database.PostgresDB.QueryRow(`SELECT id FROM reviews WHERE id = $1`, reviewID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ToggleLike adds the caller's like to a review, or removes it when already
// present. Returns the resulting liked state and total like count.
func ToggleLike(userID, reviewID uuid.UUID) (liked bool, likes int, err error) {
	res, err := database.PostgresDB.Exec(`
		DELETE FROM likes WHERE user_id = $1 AND review_id = $2
	`, userID, reviewID)
	if err != nil {
		return false, 0, err
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}

	if removed == 0 {
		_, err = database.PostgresDB.Exec(`
			INSERT INTO likes (id, user_id, review_id) VALUES ($1, $2, $3)
		`, uuid.New(), userID, reviewID)
		if err != nil {
			return false, 0, err
		}
		liked = true
	}

	err = database.PostgresDB.QueryRow(`
		SELECT COUNT(*) FROM likes WHERE review_id = $1
	`, reviewID).Scan(&likes)
	if err != nil {
		return false, 0, err
	}

	return liked, likes, nil
}

// CreateComment persists a comment on a review.
func CreateComment(userID, reviewID uuid.UUID, username, text string) (*models.Comment, error) {
	comment := &models.Comment{
		ID:        uuid.New(),
		UserID:    userID,
		ReviewID:  reviewID,
		Username:  username,
		Text:      text,
		CreatedAt: time.Now(),
	}

	_, err := database.PostgresDB.Exec(`
		INSERT INTO comments (id, user_id, review_id, created_at, text)
		VALUES ($1, $2, $3, $4, $5)
	`, comment.ID, comment.UserID, comment.ReviewID, comment.CreatedAt, comment.Text)
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments returns a review's comments oldest first.
func ListComments(reviewID uuid.UUID) ([]*models.Comment, error) {
	rows, err := database.PostgresDB.Query(`
		SELECT c.id, c.user_id, c.review_id, u.username, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.review_id = $1
		ORDER BY c.created_at ASC
	`, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.ReviewID, &c.Username, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
