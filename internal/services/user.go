package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"cosmetics-store-backend/internal/errors"
	"cosmetics-store-backend/internal/models"
	repository "cosmetics-store-backend/internal/repositories"
	"cosmetics-store-backend/internal/repositories/redis"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest, guestSessionKey string) (*models.LoginResponse, error)
	Profile(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userService struct {
	repo        repository.UserRepository
	redisRepo   *redis.RedisRepo
	cartService CartService
	jwtKey      []byte
	tokenTTL    time.Duration
}

func NewUserService(repo repository.UserRepository, redisRepo *redis.RedisRepo, cartService CartService, jwtKey []byte, tokenTTL time.Duration) UserService {
	return &userService{
		repo:        repo,
		redisRepo:   redisRepo,
		cartService: cartService,
		jwtKey:      jwtKey,
		tokenTTL:    tokenTTL,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {

	existingUser, _ := s.repo.GetUserByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, errors.DuplicateEntryError("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, errors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

// Login authenticates the user and, when the caller was browsing as a guest,
// merges the guest cart into the user's cart so nothing is lost.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest, guestSessionKey string) (*models.LoginResponse, error) {

	if s.redisRepo != nil {

		allowed, _, retryAfter, err := s.redisRepo.CheckLoginRateLimit(ctx, req.Email)
		if err != nil {
			slog.Warn("Login rate limit check failed", slog.String("error", err.Error()))
		} else if !allowed {
			return nil, errors.TooManyRequestsError(fmt.Sprintf("Too many login attempts, retry after %d seconds", retryAfter))
		}

	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.UnauthorizedError("Invalid email or password")
		}

		return nil, errors.DatabaseError("Failed to load user").WithError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.UnauthorizedError("Invalid email or password")
	}

	expiresAt := time.Now().Add(s.tokenTTL)

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID.String(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to sign token").WithError(err)
	}

	if guestSessionKey != "" {
		if err := s.cartService.MergeGuestCartIntoUser(ctx, guestSessionKey, user.ID); err != nil {
			// Losing the merge is annoying but not worth failing the login.
			slog.Warn("Guest cart merge failed",
				slog.String("userId", user.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *userService) Profile(ctx context.Context, id uuid.UUID) (*models.User, error) {

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("User not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load user").WithError(err)
	}

	return user, nil
}
