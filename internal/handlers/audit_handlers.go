package handlers

import (
	"net/http"
	"strconv"
	"time"

	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuditHandler holds the audit service.
type AuditHandler struct {
	auditService services.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(as services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: as}
}

// GetLogs handles fetching the activity log with optional filters:
// ?limit=, ?user_id=, ?action=.
func (h *AuditHandler) GetLogs(c *gin.Context) {
	limit := 200
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid limit parameter.", ""))
			return
		}
		limit = n
	}

	var userID *int64
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid user_id parameter.", ""))
			return
		}
		userID = &id
	}

	var action *string
	if v := c.Query("action"); v != "" {
		action = &v
	}

	logs, err := h.auditService.GetLogs(limit, userID, action)
	if err != nil {
		utils.LogError(err, "GetLogs: Error from auditService.GetLogs")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch activity logs.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, logs)
}

// ClearLogs handles pruning old activity log entries:
// ?older_than_days= (default 90).
func (h *AuditHandler) ClearLogs(c *gin.Context) {
	days := 90
	if v := c.Query("older_than_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid older_than_days parameter.", ""))
			return
		}
		days = n
	}

	deleted, err := h.auditService.ClearLogs(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		utils.LogError(err, "ClearLogs: Error from auditService.ClearLogs")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to prune activity logs.", "Internal error"))
		return
	}

	h.auditService.LogActivity(actorFromContext(c), "logs_pruned", "", gin.H{"deleted": deleted, "older_than_days": days})
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
