package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmetics-store-backend/internal/api/handlers"
	"cosmetics-store-backend/internal/api/middleware"
	appErrors "cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	"cosmetics-store-backend/internal/services/mocks"
	"cosmetics-store-backend/internal/testutils"
	"cosmetics-store-backend/internal/utils/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupUserTest() (*mocks.UserService, *handlers.UserHandler) {
	mockUserService := new(mocks.UserService)
	userHandler := handlers.NewUserHandler(mockUserService)

	return mockUserService, userHandler
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockUserService, userHandler := setupUserTest()

		body, err := json.Marshal(models.RegisterRequest{
			Name:     "Sara Ahmed",
			Email:    "sara@example.com",
			Password: "strongpassword",
		})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/users/register", bytes.NewBuffer(body), nil)
		recorder := httptest.NewRecorder()

		registered := &models.User{ID: uuid.New(), Name: "Sara Ahmed", Email: "sara@example.com"}

		mockUserService.On("Register", mock.Anything, mock.MatchedBy(func(req *models.RegisterRequest) bool {
			return req.Email == "sara@example.com"
		})).Return(registered, nil).Once()

		// Act
		userHandler.Register()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp struct {
			Success bool        `json:"success"`
			Data    models.User `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "sara@example.com", resp.Data.Email)

		mockUserService.AssertExpectations(t)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		// Arrange
		mockUserService, userHandler := setupUserTest()

		body, err := json.Marshal(models.RegisterRequest{
			Name:     "Sara Ahmed",
			Email:    "sara@example.com",
			Password: "short",
		})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/users/register", bytes.NewBuffer(body), nil)
		recorder := httptest.NewRecorder()

		// Act
		userHandler.Register()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockUserService.AssertNotCalled(t, "Register")
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		// Arrange
		mockUserService, userHandler := setupUserTest()

		body, err := json.Marshal(models.RegisterRequest{
			Name:     "Sara Ahmed",
			Email:    "sara@example.com",
			Password: "strongpassword",
		})
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/users/register", bytes.NewBuffer(body), nil)
		recorder := httptest.NewRecorder()

		mockUserService.On("Register", mock.Anything, mock.AnythingOfType("*models.RegisterRequest")).
			Return(nil, appErrors.DuplicateEntryError("Email already registered")).Once()

		// Act
		userHandler.Register()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)

		var resp response.APIResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, resp.Error.Code)

		mockUserService.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	makeBody := func(t *testing.T) []byte {
		t.Helper()

		body, err := json.Marshal(models.LoginRequest{Email: "sara@example.com", Password: "strongpassword"})
		require.NoError(t, err)

		return body
	}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockUserService, userHandler := setupUserTest()

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/users/login", bytes.NewBuffer(makeBody(t)), nil)
		recorder := httptest.NewRecorder()

		loginResp := &models.LoginResponse{
			Token:     "jwt-token",
			ExpiresAt: time.Now().Add(24 * time.Hour),
			User:      &models.User{ID: uuid.New(), Email: "sara@example.com"},
		}

		mockUserService.On("Login", mock.Anything, mock.AnythingOfType("*models.LoginRequest"), "").
			Return(loginResp, nil).Once()

		// Act
		userHandler.Login()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp struct {
			Success bool                 `json:"success"`
			Data    models.LoginResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.Equal(t, "jwt-token", resp.Data.Token)

		mockUserService.AssertExpectations(t)
	})

	t.Run("ForwardsGuestSessionKey", func(t *testing.T) {
		// Arrange: a guest logging in should have their cart merged
		mockUserService, userHandler := setupUserTest()

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/users/login", bytes.NewBuffer(makeBody(t)), nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "guest-session-15"})
		recorder := httptest.NewRecorder()

		loginResp := &models.LoginResponse{
			Token: "jwt-token",
			User:  &models.User{ID: uuid.New(), Email: "sara@example.com"},
		}

		mockUserService.On("Login", mock.Anything, mock.AnythingOfType("*models.LoginRequest"), "guest-session-15").
			Return(loginResp, nil).Once()

		// Act
		userHandler.Login()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockUserService.AssertExpectations(t)
	})

	t.Run("WrongCredentials", func(t *testing.T) {
		// Arrange
		mockUserService, userHandler := setupUserTest()

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/users/login", bytes.NewBuffer(makeBody(t)), nil)
		recorder := httptest.NewRecorder()

		mockUserService.On("Login", mock.Anything, mock.AnythingOfType("*models.LoginRequest"), "").
			Return(nil, appErrors.UnauthorizedError("Invalid email or password")).Once()

		// Act
		userHandler.Login()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockUserService.AssertExpectations(t)
	})

	t.Run("RateLimited", func(t *testing.T) {
		// Arrange
		mockUserService, userHandler := setupUserTest()

		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/users/login", bytes.NewBuffer(makeBody(t)), nil)
		recorder := httptest.NewRecorder()

		mockUserService.On("Login", mock.Anything, mock.AnythingOfType("*models.LoginRequest"), "").
			Return(nil, appErrors.TooManyRequestsError("Too many login attempts")).Once()

		// Act
		userHandler.Login()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
		mockUserService.AssertExpectations(t)
	})
}

func TestProfile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockUserService, userHandler := setupUserTest()
		userID := uuid.New()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/users/profile", nil, userID, nil)
		recorder := httptest.NewRecorder()

		user := &models.User{ID: userID, Name: "Sara Ahmed", Email: "test@example.com"}

		mockUserService.On("Profile", mock.Anything, userID).Return(user, nil).Once()

		// Act
		userHandler.Profile()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockUserService.AssertExpectations(t)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		// Arrange
		mockUserService, userHandler := setupUserTest()

		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/users/profile", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		userHandler.Profile()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockUserService.AssertNotCalled(t, "Profile")
	})

	t.Run("NotFound", func(t *testing.T) {
		// Arrange
		mockUserService, userHandler := setupUserTest()
		userID := uuid.New()

		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/users/profile", nil, userID, nil)
		recorder := httptest.NewRecorder()

		mockUserService.On("Profile", mock.Anything, userID).
			Return(nil, appErrors.NotFoundError("User not found")).Once()

		// Act
		userHandler.Profile()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockUserService.AssertExpectations(t)
	})
}
