package handlers

import (
	"errors"
	"net/http"

	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth and audit services.
type AuthHandler struct {
	authService  services.AuthService
	auditService services.AuditService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService, audit services.AuditService) *AuthHandler {
	return &AuthHandler{authService: as, auditService: audit}
}

// Login handles the first authentication step. The response either carries a
// token directly or signals that an emailed verification code is required.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", ""))
			return
		}
		utils.LogError(err, "Login: Error from authService.Login")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process login.", "Internal error"))
		return
	}

	if !resp.MFARequired {
		h.auditService.LogActivity(services.Actor{
			UserID:   resp.User.ID,
			Username: resp.User.Username,
			Role:     resp.User.Role,
		}, "login", resp.User.Username, nil)
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyMFA handles the second authentication step for accounts with an
// email on file.
func (h *AuthHandler) VerifyMFA(c *gin.Context) {
	var req services.VerifyMFARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.authService.VerifyMFA(req)
	if err != nil {
		if errors.Is(err, services.ErrMFAVerification) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired verification code.", ""))
			return
		}
		utils.LogError(err, "VerifyMFA: Error from authService.VerifyMFA")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to verify code.", "Internal error"))
		return
	}

	h.auditService.LogActivity(services.Actor{
		UserID:   resp.User.ID,
		Username: resp.User.Username,
		Role:     resp.User.Role,
	}, "login", resp.User.Username, gin.H{"mfa": true})
	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the authenticated user's own account.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor := actorFromContext(c)
	user, err := h.authService.GetUserProfile(actor.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", ""))
			return
		}
		utils.LogError(err, "GetProfile: Error from authService.GetUserProfile")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch profile.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout records the logout in the audit trail. Tokens are stateless, so
// there is nothing to invalidate server-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	actor := actorFromContext(c)
	h.auditService.LogActivity(actor, "logout", actor.Username, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
