package service

import (
	"context"
	"errors"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Messages shown to the visitor for expected authentication failures.
const (
	MsgAlreadyRegistered = "You've already signed up with this email, log in instead!"
	MsgUnknownEmail      = "Email doesn't exist, try again!"
	MsgWrongPassword     = "Password is incorrect, try again!"
)

type UserService struct {
	userRepo repository.UserRepository
	hashCost int
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost, mainly so tests run quickly.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

// Register creates an account. An email already in use yields an
// ALREADY_EXISTS AppError, including when a concurrent request wins the race.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Email == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("Email, password and name are required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError(MsgAlreadyRegistered)
	}

	hash, err := HashPassword(in.Password, s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewConflictError(MsgAlreadyRegistered)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns the account for email when password matches it.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: MsgUnknownEmail}
	}
	if !CheckPassword(user.Password, password) {
		return nil, models.NewInvalidCredentialsError(MsgWrongPassword)
	}
	return user, nil
}

// GetUser loads the account behind a session.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
