package match

import (
	"time"

	"github.com/google/uuid"
)

// The fixed scored attribute set.
const (
	AttrAge        = "age"
	AttrReligion   = "religion"
	AttrCaste      = "caste"
	AttrLocation   = "location"
	AttrEducation  = "education"
	AttrProfession = "profession"
	AttrHeight     = "height"
)

// Weights are the per-attribute importance weights. They need not sum to 1;
// scoring rescales them proportionally.
type Weights struct {
	Age        float64
	Religion   float64
	Caste      float64
	Location   float64
	Education  float64
	Profession float64
	Height     float64
}

// UniformWeights spreads importance evenly over the seven scored attributes.
func UniformWeights() Weights {
	const w = 1.0 / 7.0
	return Weights{Age: w, Religion: w, Caste: w, Location: w, Education: w, Profession: w, Height: w}
}

func (w Weights) sum() float64 {
	return w.Age + w.Religion + w.Caste + w.Location + w.Education + w.Profession + w.Height
}

// normalized rescales the weights to sum 1, falling back to uniform weights
// when nothing positive was supplied.
func (w Weights) normalized() Weights {
	s := w.sum()
	if s <= 0 {
		return UniformWeights()
	}
	return Weights{
		Age:        w.Age / s,
		Religion:   w.Religion / s,
		Caste:      w.Caste / s,
		Location:   w.Location / s,
		Education:  w.Education / s,
		Profession: w.Profession / s,
		Height:     w.Height / s,
	}
}

// Candidate is the scorer's view of a profile. Callers map store records into
// this shape; the engine never touches the store.
type Candidate struct {
	ID            uuid.UUID
	Gender        string
	DateOfBirth   time.Time
	ReligionID    int64
	CasteID       int64
	City, State   string
	Education     string
	Profession    string
	HeightCM      float64
	MaritalStatus string
}

// CandidateScore is the ephemeral per-search result: derivable purely from
// (candidate, criteria, weights), with no identity beyond one search call.
type CandidateScore struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Raw       float64   `json:"score"`
	Matched   []string  `json:"matched_attributes"`
	Unmatched []string  `json:"unmatched_attributes"`
}

// Score computes the weighted compatibility of one candidate against the
// normalized criteria. Each attribute contributes weight×match with match in
// {0, 0.5, 1}; unspecified criteria are neutral (match 1) and are listed in
// neither Matched nor Unmatched. Deterministic for identical inputs.
func Score(c Candidate, crit Criteria, w Weights, now time.Time) CandidateScore {
	nw := w.normalized()
	s := CandidateScore{ProfileID: c.ID}

	type attr struct {
		name      string
		weight    float64
		specified bool
		match     float64
	}
	attrs := []attr{
		{AttrAge, nw.Age, crit.AgeMin > 0 || crit.AgeMax > 0, matchAge(c, crit, now)},
		{AttrReligion, nw.Religion, len(crit.ReligionIDs) > 0, matchInt64Set(c.ReligionID, crit.ReligionIDs)},
		{AttrCaste, nw.Caste, len(crit.CasteIDs) > 0, matchInt64Set(c.CasteID, crit.CasteIDs)},
		{AttrLocation, nw.Location, len(crit.Cities) > 0 || len(crit.States) > 0, matchLocation(c, crit)},
		{AttrEducation, nw.Education, len(crit.Educations) > 0, matchStringSet(c.Education, crit.Educations)},
		{AttrProfession, nw.Profession, len(crit.Professions) > 0, matchStringSet(c.Profession, crit.Professions)},
		{AttrHeight, nw.Height, crit.HeightMinCM > 0 || crit.HeightMaxCM > 0, matchHeight(c.HeightCM, crit)},
	}

	total := 0.0
	for _, a := range attrs {
		total += a.weight * a.match
		if !a.specified {
			continue
		}
		if a.match > 0 {
			s.Matched = append(s.Matched, a.name)
		} else {
			s.Unmatched = append(s.Unmatched, a.name)
		}
	}
	if total < 0 {
		total = 0
	}
	if total > 1 {
		total = 1
	}
	s.Raw = total
	return s
}

// matchAge is binary: within the requested range or not. Neutral when no age
// bound was requested. The retriever applies the age range as a hard filter,
// so admitted candidates score 1 here; the function stays total so the age
// weight remains meaningful if age is ever demoted to soft scoring.
func matchAge(c Candidate, crit Criteria, now time.Time) float64 {
	if crit.AgeMin == 0 && crit.AgeMax == 0 {
		return 1
	}
	years := now.Year() - c.DateOfBirth.Year()
	if c.DateOfBirth.AddDate(years, 0, 0).After(now) {
		years--
	}
	if crit.AgeMin > 0 && years < crit.AgeMin {
		return 0
	}
	if crit.AgeMax > 0 && years > crit.AgeMax {
		return 0
	}
	return 1
}

func matchInt64Set(v int64, set []int64) float64 {
	if len(set) == 0 {
		return 1
	}
	for _, s := range set {
		if s == v {
			return 1
		}
	}
	return 0
}

func matchStringSet(v string, set []string) float64 {
	if len(set) == 0 {
		return 1
	}
	for _, s := range set {
		if s == v {
			return 1
		}
	}
	return 0
}

// matchLocation: 1.0 on accepted city, 0.5 on accepted state when the city
// did not match, else 0.
func matchLocation(c Candidate, crit Criteria) float64 {
	if len(crit.Cities) == 0 && len(crit.States) == 0 {
		return 1
	}
	if matchStringSet(c.City, crit.Cities) == 1 && len(crit.Cities) > 0 {
		return 1
	}
	if len(crit.States) > 0 && matchStringSet(c.State, crit.States) == 1 {
		return 0.5
	}
	return 0
}

func matchHeight(h float64, crit Criteria) float64 {
	if crit.HeightMinCM == 0 && crit.HeightMaxCM == 0 {
		return 1
	}
	if crit.HeightMinCM > 0 && h < crit.HeightMinCM {
		return 0
	}
	if crit.HeightMaxCM > 0 && h > crit.HeightMaxCM {
		return 0
	}
	return 1
}
