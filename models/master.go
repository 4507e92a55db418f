package models

import "time"

// Religion is a master table row used for dropdowns and criteria validation.
type Religion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	Name         string    `gorm:"size:64;uniqueIndex;not null" json:"name"`
	IsActive     bool      `gorm:"default:true;not null" json:"-"`
	DisplayOrder int       `gorm:"default:0" json:"-"`
}

// Caste belongs to a Religion.
type Caste struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	Name         string    `gorm:"size:64;not null;uniqueIndex:idx_religion_caste" json:"name"`
	ReligionID   uint      `gorm:"not null;index;uniqueIndex:idx_religion_caste" json:"religion_id"`
	Religion     Religion  `gorm:"foreignKey:ReligionID" json:"-"`
	IsActive     bool      `gorm:"default:true;not null" json:"-"`
	DisplayOrder int       `gorm:"default:0" json:"-"`
}
