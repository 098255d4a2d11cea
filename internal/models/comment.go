package models

// Comment is a reply on a thread. ParentID allows nested reply threading; the
// store does not guarantee the parent chain forms a tree. Score is a derived
// aggregate recomputed from the raw vote set after every vote mutation.
type Comment struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	ThreadID  string  `gorm:"not null;index" json:"thread_id"`
	ParentID  *string `json:"parent_id"`
	Body      string  `gorm:"type:text;not null" json:"body"`
	CreatedAt int64   `gorm:"index" json:"created_at"`
	Score     int     `json:"score"`
}
