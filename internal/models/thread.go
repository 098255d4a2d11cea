// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Target types for votes, reactions and reports.
const (
	TargetThread  = "thread"
	TargetComment = "comment"
)

// StringList is a []string stored as a JSON text column.
type StringList []string

// Value serializes the list for storage.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan deserializes the list from storage.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

// Thread is a top-level forum post. Upvotes, Downvotes and Score are derived
// aggregates recomputed from the raw vote set after every vote mutation.
type Thread struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	ImageURL  string     `json:"image,omitempty"`
	ThumbURL  string     `json:"thumb,omitempty"`
	Tags      StringList `gorm:"type:text" json:"tags,omitempty"`
	CreatedAt int64      `gorm:"index" json:"created_at"`
	Score     int        `json:"score"`
	Upvotes   int        `json:"upvotes"`
	Downvotes int        `json:"downvotes"`

	// CommentCount is not persisted; computed at query time
	CommentCount int `gorm:"-" json:"comment_count"`
	// TopComment is the highest-scored (earliest on ties) comment preview; computed
	TopComment *Comment `gorm:"-" json:"top_comment,omitempty"`
}

// ThreadPage is a paginated thread listing.
type ThreadPage struct {
	Items      []*Thread `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
}
