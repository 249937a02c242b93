package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
	"inventory_backend/pkg/utils"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
	ErrUserConflict   = errors.New("username or email already in use")
	ErrInvalidRole    = errors.New("specified role not recognized")
	ErrValidation     = errors.New("validation failed")
)

// CreateUserRequest DTO
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=4"`
	Role     string `json:"role" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// UpdateUserRequest DTO. Password is rehashed only when supplied.
type UpdateUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	Email    string  `json:"email" binding:"omitempty,email"`
	IsActive bool    `json:"is_active"`
	Password *string `json:"password,omitempty"`
}

// UserService manages accounts. Deactivation (is_active=false) is distinct
// from deletion: a soft-disabled account keeps its row and its sales
// attribution.
type UserService interface {
	GetUsers() ([]models.User, error)
	CreateUser(req CreateUserRequest) (*models.User, error)
	UpdateUser(userID int64, req UpdateUserRequest) (*models.User, error)
	DeleteUser(userID int64) error
}

type userService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repositories.UserRepository, db *sql.DB) UserService {
	return &userService{userRepo: userRepo, db: db}
}

func (s *userService) GetUsers() ([]models.User, error) {
	users, err := s.userRepo.GetUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

func (s *userService) CreateUser(req CreateUserRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, req.Role)
	}

	hashedPassword, err := hashForStorage(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Role:     req.Role,
		IsActive: true,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if _, err := s.userRepo.CreateUser(s.db, user, hashedPassword); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			if strings.Contains(err.Error(), "email") {
				return nil, ErrEmailExists
			}
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateUser(userID int64, req UpdateUserRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, req.Role)
	}

	var email *string
	if req.Email != "" {
		email = &req.Email
	}

	// Reject a username/email held by a different user before writing.
	taken, err := s.userRepo.CredentialTaken(s.db, req.Username, email, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check credential collision: %w", err)
	}
	if taken {
		return nil, ErrUserConflict
	}

	var hashedPassword *string
	if req.Password != nil && *req.Password != "" {
		hashed, err := hashForStorage(*req.Password)
		if err != nil {
			return nil, err
		}
		hashedPassword = &hashed
	}

	user := &models.User{
		ID:       userID,
		Username: req.Username,
		Role:     req.Role,
		Email:    email,
		IsActive: req.IsActive,
	}

	if err := s.userRepo.UpdateUser(s.db, user, hashedPassword); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUserConflict
		}
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return s.userRepo.FindUserByID(userID)
}

// hashForStorage always produces the modern bcrypt form; the legacy digest
// is verify-only.
func hashForStorage(password string) (string, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return hashed, nil
}

// DeleteUser removes the account. Sales referencing it survive with a null
// seller; no cascade.
func (s *userService) DeleteUser(userID int64) error {
	if err := s.userRepo.DeleteUser(s.db, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	return nil
}
