package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/flexiforms/FlexiForms/internal/auth"
	"github.com/flexiforms/FlexiForms/internal/model"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID извлекает идентификатор пользователя из контекста запроса.
// Пустая строка означает анонимный запрос.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID кладёт идентификатор пользователя в контекст (для тестов).
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireAuth — строгий режим: без валидного токена запрос отклоняется
// до выполнения бизнес-логики.
func RequireAuth(a *auth.Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := a.UserIDFromRequest(r)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(model.ErrorResponse{Error: "access denied"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth — толерантный режим: невалидный или отсутствующий токен
// не ошибка, запрос продолжается как анонимный.
func OptionalAuth(a *auth.Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := a.UserIDFromRequest(r); ok {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}
