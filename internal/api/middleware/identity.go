package middleware

import (
	"context"
	"net/http"

	"cosmetics-store-backend/internal/models"

	"github.com/google/uuid"
)

type actorContextKey string

const ActorContextKey = actorContextKey("actor")

const SessionCookieName = "session_key"

// Identity resolves the request to an Actor: an authenticated user when a
// valid bearer token is present, otherwise a guest keyed by session cookie.
// A fresh session key is minted (and set as a cookie) for first-time guests,
// so every cart/checkout request always has exactly one identity.
func (m *AuthMiddleware) Identity(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if claims, ok := m.parseToken(r); ok {

			ctx = context.WithValue(ctx, UserContextKey, claims)
			ctx = context.WithValue(ctx, ActorContextKey, models.UserActor(claims.UserID))

			next.ServeHTTP(w, r.WithContext(ctx))

			return
		}

		sessionKey := guestSessionKey(r)
		if sessionKey == "" {

			sessionKey = uuid.NewString()

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sessionKey,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

		}

		ctx = context.WithValue(ctx, ActorContextKey, models.GuestActor(sessionKey))

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func guestSessionKey(r *http.Request) string {

	if key := r.Header.Get("X-Session-Key"); key != "" {
		return key
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// GuestSessionKey exposes the raw guest key for handlers that need it even
// for authenticated requests (the login cart merge).
func GuestSessionKey(r *http.Request) string {
	return guestSessionKey(r)
}

func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(ActorContextKey).(models.Actor)

	return actor, ok
}
