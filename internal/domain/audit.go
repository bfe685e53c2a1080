package domain

import "time"

// AuditLog represents an audit log entry for tracking account and list actions
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    string                 `db:"user_id" json:"user_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	IP        string                 `db:"ip" json:"ip,omitempty"`
	UserAgent string                 `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryAuth = "auth"
	AuditCategoryList = "list"
)

// Audit actions
const (
	AuditActionSignup = "signup"
	AuditActionLogin  = "login"
	AuditActionLogout = "logout"

	AuditActionListCreate = "list_create"
	AuditActionListDelete = "list_delete"
)

// AuditQuery selects audit entries; empty fields match everything.
type AuditQuery struct {
	UserID   string
	Category string
	Limit    int
}
