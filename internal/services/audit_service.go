package services

import (
	"encoding/json"
	"fmt"
	"time"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
	"inventory_backend/pkg/utils"
)

// Actor identifies who performed an audited action, captured from the
// authenticated session.
type Actor struct {
	UserID   int64
	Username string
	Role     string
}

// AuditService is the audit trail sink and its read side. Writes are
// best-effort: a failed log insert is reported in the application log but
// never fails the operation that triggered it.
type AuditService interface {
	LogActivity(actor Actor, action, target string, details interface{})
	GetLogs(limit int, userID *int64, actionSubstring *string) ([]models.ActivityLog, error)
	ClearLogs(olderThan time.Duration) (int64, error)
}

type auditService struct {
	logRepo repositories.ActivityLogRepository
}

// NewAuditService creates a new instance of AuditService.
func NewAuditService(logRepo repositories.ActivityLogRepository) AuditService {
	return &auditService{logRepo: logRepo}
}

// LogActivity records one audit entry. details may be any JSON-marshalable
// value or nil.
func (s *auditService) LogActivity(actor Actor, action, target string, details interface{}) {
	var detailsJSON []byte
	if details != nil {
		encoded, err := json.Marshal(details)
		if err != nil {
			utils.LogWarn("Failed to encode audit details, logging without them",
				map[string]interface{}{"action": action, "error": err.Error()})
		} else {
			detailsJSON = encoded
		}
	}

	var userID *int64
	if actor.UserID > 0 {
		userID = &actor.UserID
	}

	if err := s.logRepo.Insert(userID, actor.Username, actor.Role, action, target, detailsJSON); err != nil {
		utils.LogError(err, "Failed to write audit log entry for action "+action)
	}
}

func (s *auditService) GetLogs(limit int, userID *int64, actionSubstring *string) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	logs, err := s.logRepo.GetLogs(limit, userID, actionSubstring)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity logs: %w", err)
	}
	return logs, nil
}

// ClearLogs prunes entries older than the given age and returns the number
// removed.
func (s *auditService) ClearLogs(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	deleted, err := s.logRepo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity logs: %w", err)
	}
	return deleted, nil
}
