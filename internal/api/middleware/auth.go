package middleware

import (
	"context"
	"net/http"
	"strings"

	appErrors "cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	"cosmetics-store-backend/internal/utils/response"

	"github.com/golang-jwt/jwt/v5"
)

type userContextKey string

const UserContextKey = userContextKey("user")

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey}
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := m.parseToken(r)
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))

			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// parseToken validates the Authorization header, if present.
func (m *AuthMiddleware) parseToken(r *http.Request) (*models.Claims, bool) {

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}

	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return nil, false
	}

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return m.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	return claims, true
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)

	return claims, ok
}
