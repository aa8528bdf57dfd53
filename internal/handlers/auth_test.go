package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook-backend/internal/services"
	"github.com/daybook-app/daybook-backend/pkg/utils"
)

func TestRegisterPasswordMismatch(t *testing.T) {
	mock := setupMockDB(t)

	body := `{"username":"newuser","email":"new@example.com","password":"validpass1","password2":"otherpass1"}`
	req := httptest.NewRequest("POST", "/api/users/register/", jsonBody(body))
	rec := httptest.NewRecorder()

	Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errs map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errs))
	assert.Contains(t, errs, "password")

	// No account may be persisted on a failed registration.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterWeakPassword(t *testing.T) {
	setupMockDB(t)

	body := `{"username":"newuser","email":"new@example.com","password":"123456789","password2":"123456789"}`
	req := httptest.NewRequest("POST", "/api/users/register/", jsonBody(body))
	rec := httptest.NewRecorder()

	Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errs map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errs))
	assert.Contains(t, errs, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT email FROM users WHERE LOWER\(email\)`).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("taken@example.com"))
	mock.ExpectQuery(`SELECT username FROM users WHERE LOWER\(username\)`).
		WithArgs("newuser").
		WillReturnError(sql.ErrNoRows)

	body := `{"username":"newuser","email":"taken@example.com","password":"validpass1","password2":"validpass1"}`
	req := httptest.NewRequest("POST", "/api/users/register/", jsonBody(body))
	rec := httptest.NewRecorder()

	Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errs map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errs))
	assert.Contains(t, errs, "email")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterSuccess(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT email FROM users WHERE LOWER\(email\)`).
		WithArgs("new@example.com").
		WillReturnError(sql.ErrNoRows)
	// Mixed-case input is normalized before both the uniqueness check and
	// the stored row.
	mock.ExpectQuery(`SELECT username FROM users WHERE LOWER\(username\)`).
		WithArgs("newuser").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"newuser", "new@example.com", sqlmock.AnyArg(), "New", "",
			true, true, false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := `{"username":"NewUser","email":"new@example.com","password":"validpass1","password2":"validpass1","first_name":"New"}`
	req := httptest.NewRequest("POST", "/api/users/register/", jsonBody(body))
	rec := httptest.NewRecorder()

	Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User  map[string]interface{} `json:"user"`
		Token string                 `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "newuser", resp.User["username"])
	assert.Equal(t, "new@example.com", resp.User["email"])
	assert.Equal(t, false, resp.User["has_pin"])
	assert.NotEmpty(t, resp.Token)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginSuccessTokenSubjectIsAccountID(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()
	hash, err := utils.HashPassword("validpass1")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE LOWER\(email\)`).
		WithArgs("user@example.com").
		WillReturnRows(userRow(userID, "someuser", "user@example.com", hash, ""))

	body := `{"email":"user@example.com","password":"validpass1"}`
	req := httptest.NewRequest("POST", "/api/users/login/", jsonBody(body))
	rec := httptest.NewRecorder()

	Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		User  map[string]interface{} `json:"user"`
		Token string                 `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID.String(), resp.User["id"])

	var claims services.Claims
	_, err = jwt.ParseWithClaims(resp.Token, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestLoginWrongPassword(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()
	hash, err := utils.HashPassword("rightpass1")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE LOWER\(email\)`).
		WithArgs("user@example.com").
		WillReturnRows(userRow(userID, "someuser", "user@example.com", hash, ""))

	body := `{"email":"user@example.com","password":"wrongpass1"}`
	req := httptest.NewRequest("POST", "/api/users/login/", jsonBody(body))
	rec := httptest.NewRecorder()

	Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE LOWER\(email\)`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	body := `{"email":"ghost@example.com","password":"whatever1"}`
	req := httptest.NewRequest("POST", "/api/users/login/", jsonBody(body))
	rec := httptest.NewRecorder()

	Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	// Wire a token service with an in-memory blacklist so rotation can be
	// observed without Redis; restore the default afterwards.
	old := tokens
	InitTokenService(services.NewTokenService("test-secret", time.Hour, 24*time.Hour, newMemBlacklist()))
	t.Cleanup(func() { InitTokenService(old) })

	userID := uuid.New()
	_, refresh, err := tokens.Issue(userID)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]string{"refresh": refresh})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/users/token/refresh/", jsonBody(string(body)))
	rec := httptest.NewRecorder()

	RefreshToken(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["access"])
	assert.NotEmpty(t, resp["refresh"])

	// Replaying the consumed refresh token fails: rotation blacklisted it.
	reqReplay := httptest.NewRequest("POST", "/api/users/token/refresh/", jsonBody(string(body)))
	recReplay := httptest.NewRecorder()

	RefreshToken(recReplay, reqReplay)
	assert.Equal(t, http.StatusUnauthorized, recReplay.Code)
}

func TestRefreshTokenInvalid(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/users/token/refresh/", jsonBody(`{"refresh":"garbage"}`))
	rec := httptest.NewRecorder()

	RefreshToken(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
