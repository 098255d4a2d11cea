package models

// Report is an abuse report against a thread or comment. Resolving one report
// collapses every other report sharing the same target, so at most one record
// per reported target survives resolution.
type Report struct {
	ID         string `gorm:"primaryKey" json:"id"`
	TargetType string `gorm:"not null;index:idx_reports_target" json:"target_type"`
	TargetID   string `gorm:"not null;index:idx_reports_target" json:"target_id"`
	Reason     string `gorm:"type:text" json:"reason"`
	CreatedAt  int64  `gorm:"index" json:"created_at"`
	Resolved   bool   `gorm:"not null;default:false" json:"resolved"`
	ResolvedAt *int64 `json:"resolved_at,omitempty"`
}
