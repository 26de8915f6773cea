package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Pineacles/habit-pulse/internal/models"
	"github.com/Pineacles/habit-pulse/internal/repository"
	"github.com/Pineacles/habit-pulse/internal/services"
)

type contextKey string

const UserContextKey contextKey = "user"

// RequireAuth authenticates requests by bearer token and stores the
// resolved user in the request context.
func RequireAuth(authService *services.AuthService, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				unauthorized(w)
				return
			}

			userID, err := authService.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) models.User {
	user, _ := ctx.Value(UserContextKey).(models.User)
	return user
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Unauthorized"}`))
}
