package models

// Vote directions.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is one ballot against a thread or comment. VoterID is optional;
// anonymous votes (empty VoterID) are never deduplicated. For a non-empty
// VoterID at most one Vote exists per (TargetType, TargetID, VoterID).
type Vote struct {
	ID         string `gorm:"primaryKey" json:"id"`
	TargetType string `gorm:"not null;index:idx_votes_target" json:"target_type"`
	TargetID   string `gorm:"not null;index:idx_votes_target" json:"target_id"`
	Vote       int    `gorm:"not null" json:"vote"`
	VoterID    string `gorm:"index" json:"voter_id,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}
