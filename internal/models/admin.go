package models

import "encoding/json"

// AdminToken records a bearer token issued by a successful admin login.
// Tokens never expire; authorization is a membership test against this table.
type AdminToken struct {
	Token     string `gorm:"primaryKey" json:"token"`
	CreatedAt int64  `json:"created_at"`
}

// AuditEntry is an append-only record of a successful admin mutation.
type AuditEntry struct {
	ID         string          `gorm:"primaryKey" json:"id"`
	Action     string          `gorm:"not null;index" json:"action"`
	Details    json.RawMessage `gorm:"type:text" json:"details"`
	AdminToken *string         `json:"admin_token,omitempty"`
	CreatedAt  int64           `gorm:"index" json:"created_at"`
}
