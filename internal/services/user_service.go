package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"masterokBack/internal/models"
	"masterokBack/utils"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	CreateWorkerProfile(ctx context.Context, profile models.WorkerProfile) error
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateSession(ctx context.Context, session models.Session) error
	GetSessionByToken(ctx context.Context, refreshToken string) (models.Session, error)
	DeleteSession(ctx context.Context, userID int) error
	GetTopWorkers(ctx context.Context, limit int) ([]models.User, error)
}

type UserService struct {
	UserRepo     UserRepo
	ListRepo     UserListRepo
	TokenManager *utils.Manager
}

const (
	tokenTTL        = 120 * time.Minute
	refreshTokenTTL = 24 * 30 * 2 * time.Hour
)

func signingKey() []byte {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		return []byte(key)
	}
	return []byte("asdadsadadaadsasd")
}

func (s *UserService) SignUp(ctx context.Context, user models.User) (models.SignUpResponse, error) {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if user.Name == "" || user.Email == "" || user.Password == "" {
		return models.SignUpResponse{}, models.ErrMissingFields
	}
	if user.Role != models.RoleCustomer && user.Role != models.RoleWorker {
		user.Role = models.RoleCustomer
	}

	existing, err := s.UserRepo.GetUserByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, models.ErrUserNotFound) {
		return models.SignUpResponse{}, err
	}
	if existing.Email != "" {
		return models.SignUpResponse{}, models.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.SignUpResponse{}, err
	}
	profile := user.WorkerProfile
	user.Password = string(hashedPassword)
	user.WorkerProfile = nil

	created, err := s.UserRepo.CreateUser(ctx, user)
	if err != nil {
		return models.SignUpResponse{}, err
	}

	if created.Role == models.RoleWorker {
		wp := models.WorkerProfile{UserID: created.ID}
		if profile != nil {
			wp.Specialization = profile.Specialization
			wp.Experience = profile.Experience
		}
		if err := s.UserRepo.CreateWorkerProfile(ctx, wp); err != nil {
			return models.SignUpResponse{}, err
		}
	}

	if s.ListRepo != nil {
		if err := s.ListRepo.EnsureDefaultLists(ctx, created.ID); err != nil {
			return models.SignUpResponse{}, err
		}
	}

	tokens, err := s.createSession(ctx, created)
	if err != nil {
		return models.SignUpResponse{}, err
	}

	return models.SignUpResponse{User: created, Tokens: tokens}, nil
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (models.Tokens, error) {
	user, err := s.UserRepo.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return models.Tokens{}, models.ErrInvalidCredentials
		}
		return models.Tokens{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.Tokens{}, models.ErrInvalidCredentials
	}
	return s.createSession(ctx, user)
}

func (s *UserService) createSession(ctx context.Context, user models.User) (models.Tokens, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		UserID: uint(user.ID),
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	})
	accessToken, err := token.SignedString(signingKey())
	if err != nil {
		return models.Tokens{}, err
	}

	refreshToken := uuid.New().String()
	if s.TokenManager != nil {
		refreshToken, err = s.TokenManager.NewRefreshToken()
		if err != nil {
			return models.Tokens{}, err
		}
	}

	err = s.UserRepo.CreateSession(ctx, models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	})
	if err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *UserService) SignOut(ctx context.Context, userID int) error {
	return s.UserRepo.DeleteSession(ctx, userID)
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (models.User, error) {
	return s.UserRepo.GetUserByID(ctx, id)
}

func (s *UserService) GetTopWorkers(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.UserRepo.GetTopWorkers(ctx, limit)
}
