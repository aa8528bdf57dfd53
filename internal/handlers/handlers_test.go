package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook-backend/internal/database"
	"github.com/daybook-app/daybook-backend/internal/middleware"
	"github.com/daybook-app/daybook-backend/internal/services"
)

func init() {
	InitTokenService(services.NewTokenService("test-secret", time.Hour, 24*time.Hour, nil))
}

// memBlacklist keeps revoked token ids in memory so rotation tests run
// without Redis.
type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{revoked: make(map[string]bool)}
}

func (b *memBlacklist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = true
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[jti], nil
}

// setupMockDB swaps the package-level Postgres handle for a sqlmock and
// restores cleanup on test end.
func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	database.PostgresDB = db
	t.Cleanup(func() { db.Close() })

	return mock
}

// testRouter registers the authenticated routes with a stub auth layer that
// injects the given account id, mirroring what RequireAuth does.
func testRouter(userID uuid.UUID) *chi.Mux {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	r.Get("/api/users/me/", GetMe)
	r.Patch("/api/users/me/", UpdateMe)
	r.Post("/api/users/set-pin/", SetPin)
	r.Post("/api/users/verify-pin/", VerifyPin)
	r.Post("/api/users/dont-remind/", DontRemind)

	r.Post("/api/entries/", CreateEntry)
	r.Get("/api/entries/", ListEntries)
	r.Get("/api/entries/{id}/", GetEntry)
	r.Patch("/api/entries/{id}/", UpdateEntry)
	r.Delete("/api/entries/{id}/", DeleteEntry)

	r.Post("/api/emotions/", CreateEmotion)
	r.Get("/api/emotions/", ListEmotions)
	r.Get("/api/emotions/stats/{period}/", EmotionStats)

	r.Get("/api/reviews/", ListReviews)
	r.Post("/api/reviews/", CreateReview)
	r.Post("/api/reviews/{id}/like/", ToggleLike)
	r.Get("/api/reviews/{id}/comments/", ListComments)
	r.Post("/api/reviews/{id}/comments/", CreateComment)

	return r
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

const userColumnsPattern = `SELECT (.+) FROM users WHERE id = \$1 AND is_active = TRUE`

func userRowColumns() []string {
	return []string{"id", "created_at", "updated_at", "username", "email",
		"password_hash", "first_name", "last_name", "pin_code", "remind_pin",
		"profile_image", "is_active", "is_staff"}
}

func userRow(userID uuid.UUID, username, email, passwordHash, pin string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userRowColumns()).
		AddRow(userID, now, now, username, email, passwordHash, "", "", pin, true, "", true, false)
}
