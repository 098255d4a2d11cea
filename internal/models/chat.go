package models

// ChatMessage is one entry in the transient live-chat log. Unpinned messages
// are removed by the retention sweeper once their age reaches the TTL; pinned
// messages survive until explicitly unpinned.
type ChatMessage struct {
	ID        string `gorm:"primaryKey" json:"id"`
	Author    string `gorm:"not null" json:"author"`
	Text      string `gorm:"type:text;not null" json:"text"`
	ImageURL  string `json:"image,omitempty"`
	CreatedAt int64  `gorm:"index" json:"created_at"`
	Pinned    bool   `gorm:"not null;default:false" json:"pinned"`
}
