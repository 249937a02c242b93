package services

import (
	"errors"
	"fmt"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
	"inventory_backend/pkg/utils"
)

// --- Custom Service Errors ---
var (
	// ErrInvalidCredentials covers wrong password, unknown username,
	// deactivated account and data-access failure alike. The caller must not
	// be able to tell which condition failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMFAVerification    = errors.New("invalid or expired verification code")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyMFARequest DTO
type VerifyMFARequest struct {
	Username string `json:"username" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// AuthResponse DTO. When MFARequired is set, no token is issued yet; the
// client must complete the verify-mfa step.
type AuthResponse struct {
	MFARequired bool         `json:"mfa_required"`
	User        *models.User `json:"user,omitempty"`
	AccessToken string       `json:"access_token,omitempty"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(req LoginRequest) (*AuthResponse, error)
	VerifyMFA(req VerifyMFARequest) (*AuthResponse, error)
	GetUserProfile(userID int64) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	mfa      MFAService
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repositories.UserRepository, mfa MFAService) AuthService {
	return &authService{userRepo: userRepo, mfa: mfa}
}

// Login verifies the password credential. Accounts with an email on file are
// then gated behind an emailed code; accounts without one get a token
// immediately.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	user, storedHash, err := s.userRepo.FindActiveByUsername(req.Username)
	if err != nil {
		// Every failure mode collapses into the same answer; the specific
		// cause is only logged.
		utils.LogError(err, "Login: user lookup failed")
		return nil, ErrInvalidCredentials
	}

	if !utils.VerifyPassword(storedHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if user.Email != nil && *user.Email != "" {
		if err := s.mfa.SendCode(user.Username, *user.Email); err != nil {
			utils.LogError(err, "Login: failed to send MFA code")
			return nil, ErrInvalidCredentials
		}
		return &AuthResponse{MFARequired: true}, nil
	}

	return s.issueToken(user)
}

// VerifyMFA completes a login after the emailed code is entered.
func (s *authService) VerifyMFA(req VerifyMFARequest) (*AuthResponse, error) {
	if !s.mfa.VerifyCode(req.Username, req.Code) {
		return nil, ErrMFAVerification
	}

	user, _, err := s.userRepo.FindActiveByUsername(req.Username)
	if err != nil {
		utils.LogError(err, "VerifyMFA: user lookup failed")
		return nil, ErrMFAVerification
	}
	return s.issueToken(user)
}

func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return user, nil
}

func (s *authService) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &AuthResponse{User: user, AccessToken: token}, nil
}
