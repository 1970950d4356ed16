package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokopos/internal/apperror"
	"tokopos/internal/models"
	"tokopos/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them to the database.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if err := validateStruct(user); err != nil {
		return err
	}

	if err := s.ensureFree(ctx, s.userRepo.GetByUsername, user.Username, "username '%s' already taken"); err != nil {
		return err
	}
	if err := s.ensureFree(ctx, s.userRepo.GetByEmail, user.Email, "email '%s' already registered"); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = "cashier"
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("username or email already registered")
		}
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

func (s *AuthService) ensureFree(ctx context.Context, lookup func(context.Context, string) (*models.User, error), value, conflict string) error {
	existing, err := lookup(ctx, value)
	switch {
	case err == nil && existing != nil:
		return apperror.Conflict(conflict, value)
	case err != nil && !apperror.Is(err, apperror.KindNotFound):
		return err
	}
	return nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, req LoginRequest) (string, error) {
	if err := validateStruct(req); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		// Do not reveal whether the username exists.
		return "", apperror.Unauthorized("invalid credentials", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", apperror.Unauthorized("invalid credentials", nil)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(s.tokenDurat).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token and returns the caller it names.
func (s *AuthService) ValidateToken(tokenString string) (models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return models.Principal{}, apperror.Unauthorized("invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, apperror.Unauthorized("invalid token", nil)
	}

	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	if userID == "" {
		return models.Principal{}, apperror.Unauthorized("invalid token", errors.New("missing user_id claim"))
	}
	return models.Principal{UserID: userID, Username: username}, nil
}
