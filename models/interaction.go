package models

import (
	"time"

	"github.com/google/uuid"
)

// ProfileView is an append-only record of one profile viewing another.
// Re-viewing appends a new row; view history is allowed to grow.
type ProfileView struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	ViewerID uuid.UUID `gorm:"type:uuid;not null;index" json:"viewer_id"`
	Viewer   *Profile  `gorm:"foreignKey:ViewerID" json:"viewer,omitempty"`
	ViewedID uuid.UUID `gorm:"type:uuid;not null;index" json:"viewed_id"`
	Viewed   *Profile  `gorm:"foreignKey:ViewedID" json:"viewed,omitempty"`
	ViewedAt time.Time `gorm:"not null;index" json:"viewed_at"`
}

// ShortlistEntry is a user-curated bookmark of another profile. The unique
// index over (profile_id, shortlisted_id) is the concurrency control for
// duplicate shortlists: first writer wins, the second insert surfaces a
// unique violation.
type ShortlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProfileID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shortlist_pair" json:"profile_id"`
	ShortlistedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shortlist_pair" json:"shortlisted_id"`
	Shortlisted   *Profile  `gorm:"foreignKey:ShortlistedID" json:"shortlisted,omitempty"`
	Notes         string    `gorm:"size:1024" json:"notes,omitempty"`
}

// HiddenProfile marks a profile the owner never wants surfaced in search.
type HiddenProfile struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	ProfileID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_hidden_pair" json:"profile_id"`
	HiddenID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_hidden_pair" json:"hidden_id"`
}
