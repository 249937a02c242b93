package handlers

import (
	"errors"
	"net/http"

	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the user and audit services.
type UserHandler struct {
	userService  services.UserService
	auditService services.AuditService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us services.UserService, audit services.AuditService) *UserHandler {
	return &UserHandler{userService: us, auditService: audit}
}

// GetUsers handles fetching all user accounts.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		utils.LogError(err, "GetUsers: Error from userService.GetUsers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch users.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser handles the creation of a new user account.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username already exists.", ""))
		case errors.Is(err, services.ErrEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already exists.", ""))
		case errors.Is(err, services.ErrInvalidRole), errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.LogError(err, "CreateUser: Error from userService.CreateUser")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create user.", "Internal error"))
		}
		return
	}

	h.auditService.LogActivity(actorFromContext(c), "user_created", user.Username, gin.H{"role": user.Role})
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles updating an existing user account.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid user ID format.", ""))
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	user, err := h.userService.UpdateUser(userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", ""))
		case errors.Is(err, services.ErrUserConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username or email already in use.", ""))
		case errors.Is(err, services.ErrInvalidRole), errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.LogError(err, "UpdateUser: Error from userService.UpdateUser")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update user.", "Internal error"))
		}
		return
	}

	h.auditService.LogActivity(actorFromContext(c), "user_updated", user.Username, gin.H{"is_active": user.IsActive, "role": user.Role})
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles deleting a user account. Sales recorded by the user
// keep their rows; the seller reference goes null.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid user ID format.", ""))
		return
	}

	actor := actorFromContext(c)
	if actor.UserID == userID {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "You cannot delete your own account.", ""))
		return
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", ""))
			return
		}
		utils.LogError(err, "DeleteUser: Error from userService.DeleteUser")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete user.", "Internal error"))
		return
	}

	h.auditService.LogActivity(actor, "user_deleted", "", gin.H{"user_id": userID})
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
