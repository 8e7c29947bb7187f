package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"cosmetics-store-backend/internal/api/middleware"
	"cosmetics-store-backend/internal/models"

	"github.com/google/uuid"
)

// CreateTestRequestWithActor builds a request carrying a resolved buyer
// identity, the way the identity middleware would for a live request.
func CreateTestRequestWithActor(method, target string, body io.Reader, actor models.Actor, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.ActorContextKey, actor)
	ctx = context.WithValue(ctx, middleware.LoggerKey, logger)

	if userID, ok := actor.UserID(); ok {
		claims := &models.Claims{UserID: userID, Email: "test@example.com"}
		ctx = context.WithValue(ctx, middleware.UserContextKey, claims)
	}

	return req.WithContext(ctx)
}

func CreateTestRequestWithContext(method, target string, body io.Reader, userID uuid.UUID, pathParams map[string]string) *http.Request {
	return CreateTestRequestWithActor(method, target, body, models.UserActor(userID), pathParams)
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}
