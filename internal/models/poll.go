package models

// Poll option count limits.
const (
	PollMinOptions = 2
	PollMaxOptions = 6
)

// Poll is attached to a thread. EndsAt is stored but not enforced against new
// votes.
type Poll struct {
	ID        string       `gorm:"primaryKey" json:"id"`
	ThreadID  string       `gorm:"not null;index" json:"thread_id"`
	Question  string       `gorm:"not null" json:"question"`
	Options   []PollOption `gorm:"foreignKey:PollID" json:"options"`
	CreatedAt int64        `json:"created_at"`
	EndsAt    *int64       `json:"ends_at,omitempty"`
}

// PollOption is one choice in a poll. Votes is a derived count, always
// recomputed from the PollVote rows after a mutation, never hand-incremented.
type PollOption struct {
	ID       string `gorm:"primaryKey" json:"id"`
	PollID   string `gorm:"not null;index" json:"-"`
	Label    string `gorm:"not null" json:"label"`
	Position int    `gorm:"not null" json:"-"`
	Votes    int    `json:"votes"`
}

// PollVote is one ballot in a poll. For a non-empty VoterID at most one
// PollVote exists per (PollID, VoterID); revoting replaces the old row.
type PollVote struct {
	ID        string `gorm:"primaryKey" json:"id"`
	PollID    string `gorm:"not null;index" json:"poll_id"`
	OptionID  string `gorm:"not null;index" json:"option_id"`
	VoterID   string `gorm:"index" json:"voter_id,omitempty"`
	CreatedAt int64  `json:"created_at"`
}
