package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Preference holds a searcher's desired ranges/sets plus per-attribute
// importance weights (one-to-one with Profile, mutated only by its owner).
// Set columns use Postgres arrays; an empty set means "no preference" and
// never penalizes a candidate.
type Preference struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`

	ProfileID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"profile_id"`
	Profile   Profile   `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	AgeMin int `json:"age_min"`
	AgeMax int `json:"age_max"`

	ReligionIDs pq.Int64Array  `gorm:"type:bigint[]" json:"religion_ids"`
	CasteIDs    pq.Int64Array  `gorm:"type:bigint[]" json:"caste_ids"`
	Cities      pq.StringArray `gorm:"type:text[]" json:"cities"`
	States      pq.StringArray `gorm:"type:text[]" json:"states"`
	Educations  pq.StringArray `gorm:"type:text[]" json:"educations"`
	Professions pq.StringArray `gorm:"type:text[]" json:"professions"`

	MaritalStatuses pq.StringArray `gorm:"type:text[]" json:"marital_statuses"`

	HeightMinCM float64 `gorm:"column:height_min_cm" json:"height_min"`
	HeightMaxCM float64 `gorm:"column:height_max_cm" json:"height_max"`

	// Importance weights in [0,1]; rescaled to sum 1 at scoring time.
	// Zero values fall back to the configured defaults.
	WeightAge        float64 `json:"weight_age"`
	WeightReligion   float64 `json:"weight_religion"`
	WeightCaste      float64 `json:"weight_caste"`
	WeightLocation   float64 `json:"weight_location"`
	WeightEducation  float64 `json:"weight_education"`
	WeightProfession float64 `json:"weight_profession"`
	WeightHeight     float64 `json:"weight_height"`
}

// HasWeights reports whether the owner supplied any non-zero weight.
func (p *Preference) HasWeights() bool {
	return p.WeightAge > 0 || p.WeightReligion > 0 || p.WeightCaste > 0 ||
		p.WeightLocation > 0 || p.WeightEducation > 0 || p.WeightProfession > 0 ||
		p.WeightHeight > 0
}
