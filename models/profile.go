package models

import (
	"time"

	"github.com/google/uuid"
)

// Moderation status values. A profile is never hard-deleted; deactivation is
// a status transition.
const (
	StatusPending     = "pending"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusDeactivated = "deactivated"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

const (
	MaritalNeverMarried = "never_married"
	MaritalDivorced     = "divorced"
	MaritalWidowed      = "widowed"
	MaritalSeparated    = "separated"
)

// Profile is the identity-bearing matrimonial record (one-to-one with User).
// Education, profession and location are explicit columns rather than JSON
// blobs so the search layer can filter and score them directly.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"uniqueIndex;not null" json:"-"` // one-to-one relation
	User   User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	FirstName   string    `gorm:"size:255;not null" json:"first_name"`
	LastName    string    `gorm:"size:255" json:"last_name"`
	Gender      string    `gorm:"size:16;not null;index" json:"gender"`
	DateOfBirth time.Time `gorm:"not null;index" json:"date_of_birth"`

	ReligionID *uint     `gorm:"index" json:"religion_id,omitempty"`
	Religion   *Religion `gorm:"foreignKey:ReligionID" json:"religion,omitempty"`
	CasteID    *uint     `gorm:"index" json:"caste_id,omitempty"`
	Caste      *Caste    `gorm:"foreignKey:CasteID" json:"caste,omitempty"`

	MaritalStatus string  `gorm:"size:32" json:"marital_status"`
	HeightCM      float64 `gorm:"column:height_cm" json:"height"`
	WeightKG      float64 `gorm:"column:weight_kg" json:"weight"`
	MotherTongue  string  `gorm:"size:64" json:"mother_tongue"`

	Education  string `gorm:"size:255" json:"education"`
	Profession string `gorm:"size:255" json:"profession"`

	City    string `gorm:"size:128;index" json:"city"`
	State   string `gorm:"size:128;index" json:"state"`
	Country string `gorm:"size:128" json:"country"`

	AboutMe string `gorm:"size:2048" json:"about_me,omitempty"`

	// Moderation status; only the moderation routes write it.
	Status string `gorm:"size:16;not null;default:pending;index" json:"status"`
}

// Age returns whole years completed as of now.
func (p *Profile) Age(now time.Time) int {
	years := now.Year() - p.DateOfBirth.Year()
	if p.DateOfBirth.AddDate(years, 0, 0).After(now) {
		years--
	}
	return years
}
