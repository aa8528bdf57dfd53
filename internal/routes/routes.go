package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/daybook-app/daybook-backend/internal/handlers"
	"github.com/daybook-app/daybook-backend/internal/middleware"
	"github.com/daybook-app/daybook-backend/internal/services"
)

// SetupRoutes registers the API surface. Paths keep trailing slashes; that
// is part of the contract with the frontend.
func SetupRoutes(r *chi.Mux, tokens *services.TokenService) {
	// Public auth routes
	r.Post("/api/users/register/", handlers.Register)
	r.Post("/api/users/login/", handlers.Login)
	r.Post("/api/users/token/refresh/", handlers.RefreshToken)

	// Everything else requires a bearer access token
	r.Group(func(auth chi.Router) {
		auth.Use(middleware.RequireAuth(tokens))

		auth.Get("/api/users/me/", handlers.GetMe)
		auth.Patch("/api/users/me/", handlers.UpdateMe)
		auth.Post("/api/users/set-pin/", handlers.SetPin)
		auth.Post("/api/users/verify-pin/", handlers.VerifyPin)
		auth.Post("/api/users/dont-remind/", handlers.DontRemind)

		auth.Post("/api/entries/", handlers.CreateEntry)
		auth.Get("/api/entries/", handlers.ListEntries)
		auth.Get("/api/entries/{id}/", handlers.GetEntry)
		auth.Patch("/api/entries/{id}/", handlers.UpdateEntry)
		auth.Put("/api/entries/{id}/", handlers.UpdateEntry)
		auth.Delete("/api/entries/{id}/", handlers.DeleteEntry)

		auth.Post("/api/emotions/", handlers.CreateEmotion)
		auth.Get("/api/emotions/", handlers.ListEmotions)
		auth.Get("/api/emotions/stats/{period}/", handlers.EmotionStats)

		auth.Get("/api/reviews/", handlers.ListReviews)
		auth.Post("/api/reviews/", handlers.CreateReview)
		auth.Post("/api/reviews/{id}/like/", handlers.ToggleLike)
		auth.Get("/api/reviews/{id}/comments/", handlers.ListComments)
		auth.Post("/api/reviews/{id}/comments/", handlers.CreateComment)

		auth.Post("/api/upload", handlers.UploadFile)
	})
}
