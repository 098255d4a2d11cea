package models

// Reaction is one emoji reaction against a thread or comment. For a non-empty
// VoterID at most one Reaction exists per (TargetType, TargetID, Emoji, VoterID).
type Reaction struct {
	ID         string `gorm:"primaryKey" json:"id"`
	TargetType string `gorm:"not null;index:idx_reactions_target" json:"target_type"`
	TargetID   string `gorm:"not null;index:idx_reactions_target" json:"target_id"`
	Emoji      string `gorm:"not null" json:"emoji"`
	VoterID    string `gorm:"index" json:"voter_id,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

// ReactionCount is the per-emoji aggregate for one target.
type ReactionCount struct {
	Count  int      `json:"count"`
	Voters []string `json:"voters"`
}

// ReactionSummary maps emoji to its aggregate, recomputed from the raw
// reaction rows on every mutation.
type ReactionSummary map[string]ReactionCount
