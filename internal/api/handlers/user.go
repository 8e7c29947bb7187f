package handlers

import (
	"log/slog"
	"net/http"

	"cosmetics-store-backend/internal/api/middleware"
	"cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	service "cosmetics-store-backend/internal/services"
	"cosmetics-store-backend/internal/utils"
	"cosmetics-store-backend/internal/utils/response"

	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

// Register godoc
//	@Summary		Register a new user
//	@Description	Creates a new user account with name, email and password.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	models.User				"Successfully registered user"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error or email already registered"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/users/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid registration input")
			return
		}

		logger = logger.With(slog.String("email", req.Email))

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Error("Registration failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User registered successfully", slog.String("userId", user.ID.String()))
		response.Success(w, http.StatusCreated, user)
	}
}

// Login godoc
//	@Summary		Log in
//	@Description	Authenticates a user and returns a JWT. Any guest cart tied to the caller's session key is merged into the user's cart.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest		true	"Login credentials"
//	@Success		200			{object}	models.LoginResponse	"Successfully authenticated"
//	@Failure		400			{object}	response.ErrorResponse	"Validation error"
//	@Failure		401			{object}	response.ErrorResponse	"Invalid credentials"
//	@Failure		429			{object}	response.ErrorResponse	"Too many login attempts"
//	@Failure		500			{object}	response.ErrorResponse	"Internal server error"
//	@Router			/users/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		logger = logger.With(slog.String("email", req.Email))

		resp, err := h.userService.Login(r.Context(), &req, middleware.GuestSessionKey(r))
		if err != nil {
			logger.Error("Login failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User logged in successfully", slog.String("userId", resp.User.ID.String()))
		response.Success(w, http.StatusOK, resp)
	}
}

// Profile godoc
//	@Summary		Get the authenticated user's profile
//	@Description	Retrieves the profile of the currently authenticated user.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	models.User				"User profile"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"User not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/users/me [get]
func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Profile access attempt: missing user claims")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		logger = logger.With(slog.String("userID", claims.UserID.String()))

		user, err := h.userService.Profile(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get profile", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Profile retrieved successfully")
		response.Success(w, http.StatusOK, user)
	}
}
