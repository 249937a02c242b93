package models

import (
	"encoding/json"
	"time"
)

// ActivityLog is one audit trail entry. Details holds a key/value view of the
// stored JSON blob, or the raw text when the blob is not parseable.
type ActivityLog struct {
	ID       int64       `json:"id" db:"id"`
	LogTime  time.Time   `json:"log_time" db:"log_time"`
	UserID   *int64      `json:"user_id,omitempty" db:"user_id"`
	Username string      `json:"username" db:"username"`
	Role     string      `json:"role" db:"role"`
	Action   string      `json:"action" db:"action"`
	Target   string      `json:"target,omitempty" db:"target"`
	Details  interface{} `json:"details,omitempty"`
}

// DecodeLogDetails turns the stored details blob back into a key/value view.
// Unparseable content falls back to the raw string rather than failing the read.
func DecodeLogDetails(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var details map[string]interface{}
	if err := json.Unmarshal(raw, &details); err != nil {
		return string(raw)
	}
	return details
}
