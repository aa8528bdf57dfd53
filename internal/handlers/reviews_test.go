package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewValidation(t *testing.T) {
	setupMockDB(t)
	r := testRouter(uuid.New())

	req := httptest.NewRequest("POST", "/api/reviews/", jsonBody(`{"text":"   ","rating":9}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Review text is required", resp["text"])
	assert.Equal(t, "Rating must be between 1 and 5", resp["rating"])
}

func TestCreateReviewSuccess(t *testing.T) {
	mock := setupMockDB(t)
	userID := uuid.New()
	r := testRouter(userID)

	mock.ExpectQuery(userColumnsPattern).
		WithArgs(userID).
		WillReturnRows(userRow(userID, "mara", "mara@example.com", "hash", ""))
	mock.ExpectExec(`INSERT INTO reviews`).
		WithArgs(sqlmock.AnyArg(), userID, sqlmock.AnyArg(), "Love this app", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/api/reviews/", jsonBody(`{"text":"Love this app","rating":5}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "mara", resp["username"])
	assert.Equal(t, float64(5), resp["rating"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeAddsThenRemoves(t *testing.T) {
	mock := setupMockDB(t)
	userID := uuid.New()
	reviewID := uuid.New()
	r := testRouter(userID)

	// First toggle: nothing to delete, so a like is inserted.
	mock.ExpectQuery(`SELECT id FROM reviews WHERE id = \$1`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(reviewID))
	mock.ExpectExec(`DELETE FROM likes WHERE user_id = \$1 AND review_id = \$2`).
		WithArgs(userID, reviewID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO likes`).
		WithArgs(sqlmock.AnyArg(), userID, reviewID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM likes WHERE review_id = \$1`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	req := httptest.NewRequest("POST", "/api/reviews/"+reviewID.String()+"/like/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"liked":true,"likes":1}`, rec.Body.String())

	// Second toggle: the existing like is removed.
	mock.ExpectQuery(`SELECT id FROM reviews WHERE id = \$1`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(reviewID))
	mock.ExpectExec(`DELETE FROM likes WHERE user_id = \$1 AND review_id = \$2`).
		WithArgs(userID, reviewID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM likes WHERE review_id = \$1`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/api/reviews/"+reviewID.String()+"/like/", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"liked":false,"likes":0}`, rec.Body.String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeMissingReview(t *testing.T) {
	mock := setupMockDB(t)
	reviewID := uuid.New()
	r := testRouter(uuid.New())

	mock.ExpectQuery(`SELECT id FROM reviews WHERE id = \$1`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := httptest.NewRequest("POST", "/api/reviews/"+reviewID.String()+"/like/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCommentRequiresText(t *testing.T) {
	setupMockDB(t)
	reviewID := uuid.New()
	r := testRouter(uuid.New())

	req := httptest.NewRequest("POST", "/api/reviews/"+reviewID.String()+"/comments/", jsonBody(`{"text":""}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Comment text is required", resp["text"])
}

func TestCreateCommentSuccess(t *testing.T) {
	mock := setupMockDB(t)
	userID := uuid.New()
	reviewID := uuid.New()
	r := testRouter(userID)

	mock.ExpectQuery(`SELECT id FROM reviews WHERE id = \$1`).
		WithArgs(reviewID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(reviewID))
	mock.ExpectQuery(userColumnsPattern).
		WithArgs(userID).
		WillReturnRows(userRow(userID, "mara", "mara@example.com", "hash", ""))
	mock.ExpectExec(`INSERT INTO comments`).
		WithArgs(sqlmock.AnyArg(), userID, reviewID, sqlmock.AnyArg(), "Same here").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/api/reviews/"+reviewID.String()+"/comments/", jsonBody(`{"text":"Same here"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Same here", resp["text"])
	assert.Equal(t, "mara", resp["username"])

	assert.NoError(t, mock.ExpectationsWereMet())
}
