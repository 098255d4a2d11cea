package models

// Bulletin keys.
const (
	BulletinAnnouncement = "announcement"
	BulletinRules        = "rules"
)

// Bulletin is a single admin-managed text blob (announcement or rules).
// Setting empty text deletes the row.
type Bulletin struct {
	Key       string `gorm:"primaryKey" json:"-"`
	Text      string `gorm:"type:text" json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// BlocklistTerm is one ordered entry of the content blocklist. Admin updates
// replace the whole list, they are not merged.
type BlocklistTerm struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	Term     string `gorm:"not null" json:"term"`
	Position int    `gorm:"not null" json:"-"`
}
