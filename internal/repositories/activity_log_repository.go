package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"inventory_backend/internal/models"
)

// ActivityLogRepository defines the interface for audit trail persistence.
type ActivityLogRepository interface {
	Insert(userID *int64, username, role, action, target string, detailsJSON []byte) error
	GetLogs(limit int, userID *int64, actionSubstring *string) ([]models.ActivityLog, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type activityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new instance of ActivityLogRepository.
func NewActivityLogRepository(db *sql.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Insert(userID *int64, username, role, action, target string, detailsJSON []byte) error {
	var details interface{}
	if len(detailsJSON) > 0 {
		details = string(detailsJSON)
	}
	_, err := r.db.Exec(
		`INSERT INTO user_logs (log_time, user_id, username, role, action, target, details)
		 VALUES (now(), $1, $2, $3, $4, $5, $6)`,
		userID, username, role, action, target, details,
	)
	if err != nil {
		return fmt.Errorf("%w: inserting activity log: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *activityLogRepository) GetLogs(limit int, userID *int64, actionSubstring *string) ([]models.ActivityLog, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(
		"SELECT id, log_time, user_id, username, role, action, target, details FROM user_logs")

	var conditions []string
	var args []interface{}
	argCount := 1

	if userID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argCount))
		args = append(args, *userID)
		argCount++
	}
	if actionSubstring != nil && *actionSubstring != "" {
		conditions = append(conditions, fmt.Sprintf("action ILIKE $%d", argCount))
		args = append(args, "%"+*actionSubstring+"%")
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY log_time DESC LIMIT $%d", argCount))
	args = append(args, limit)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting activity logs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	logs := []models.ActivityLog{}
	for rows.Next() {
		var entry models.ActivityLog
		var userID sql.NullInt64
		var username, role, target sql.NullString
		var details []byte
		if err := rows.Scan(&entry.ID, &entry.LogTime, &userID, &username, &role,
			&entry.Action, &target, &details); err != nil {
			return nil, fmt.Errorf("%w: scanning activity log: %v", ErrDatabaseError, err)
		}
		if userID.Valid {
			entry.UserID = &userID.Int64
		}
		entry.Username = username.String
		entry.Role = role.String
		entry.Target = target.String
		entry.Details = models.DecodeLogDetails(details)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading activity logs: %v", ErrDatabaseError, err)
	}
	return logs, nil
}

func (r *activityLogRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM user_logs WHERE log_time < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: pruning activity logs: %v", ErrDatabaseError, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: pruning activity logs: %v", ErrDatabaseError, err)
	}
	return deleted, nil
}
