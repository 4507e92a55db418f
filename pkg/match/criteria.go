// Package match implements the candidate matching and ranking engine:
// criteria normalization, preference-weighted scoring and deterministic
// ranking with stable pagination. Everything in this package is pure; I/O
// (retrieval, exclusion tracking) lives with the callers.
package match

import (
	"time"
)

// RawInput carries the optional, request-scoped filter overrides exactly as
// the caller supplied them. Zero values mean "not supplied".
type RawInput struct {
	Gender     string
	AgeMin     int
	AgeMax     int
	ReligionID int64
	CasteID    int64
	City       string
	State      string
}

// Preference is the engine-side view of a searcher's stored preference.
// Empty sets and zero ranges mean "no preference".
type Preference struct {
	AgeMin, AgeMax           int
	ReligionIDs, CasteIDs    []int64
	Cities, States           []string
	Educations, Professions  []string
	MaritalStatuses          []string
	HeightMinCM, HeightMaxCM float64
	Weights                  *Weights // nil = use configured defaults
}

// Filters are the hard predicates applied by the retriever before scoring.
// Explicit request filters (and the age range) exclude candidates entirely;
// stored-preference attributes only score.
type Filters struct {
	Gender          string
	DOBFrom         time.Time // zero = unbounded; candidates born on/after
	DOBTo           time.Time // zero = unbounded; candidates born on/before
	ReligionID      int64
	CasteID         int64
	City            string
	State           string
	MaritalStatuses []string
}

// Criteria is the effective, normalized filter/preference set for one search
// call. It is request-scoped and never persisted.
type Criteria struct {
	Filters Filters

	// Soft (scored) attribute sets, raw input merged over the stored
	// preference. Empty means neutral: never penalizes.
	AgeMin, AgeMax           int
	ReligionIDs, CasteIDs    []int64
	Cities, States           []string
	Educations, Professions  []string
	HeightMinCM, HeightMaxCM float64
}

// Whitelist enumerates the valid enum values Normalize accepts.
type Whitelist struct {
	Genders         map[string]bool
	MaritalStatuses map[string]bool
	ReligionIDs     map[int64]bool
	CasteIDs        map[int64]bool
}

const maxAge = 120

// Normalize merges raw over stored (raw wins; absent in both means "no
// constraint"), validates ranges and enum values and converts age bounds into
// an inclusive date-of-birth window anchored at now. It is pure: identical
// inputs yield identical criteria.
func Normalize(raw RawInput, stored *Preference, wl Whitelist, now time.Time) (Criteria, error) {
	var c Criteria

	if raw.Gender != "" {
		if !wl.Genders[raw.Gender] {
			return c, invalidEnum("gender", raw.Gender)
		}
		c.Filters.Gender = raw.Gender
	}
	if raw.ReligionID != 0 {
		if !wl.ReligionIDs[raw.ReligionID] {
			return c, invalidEnum("religionId", raw.ReligionID)
		}
		c.Filters.ReligionID = raw.ReligionID
	}
	if raw.CasteID != 0 {
		if !wl.CasteIDs[raw.CasteID] {
			return c, invalidEnum("casteId", raw.CasteID)
		}
		c.Filters.CasteID = raw.CasteID
	}
	c.Filters.City = raw.City
	c.Filters.State = raw.State

	ageMin, ageMax := raw.AgeMin, raw.AgeMax
	if stored != nil {
		if ageMin == 0 {
			ageMin = stored.AgeMin
		}
		if ageMax == 0 {
			ageMax = stored.AgeMax
		}
	}
	if ageMin != 0 || ageMax != 0 {
		if ageMin < 0 || ageMax < 0 || ageMin >= maxAge || ageMax >= maxAge {
			return c, invalidRange("age", "age bounds must be within (0, 120)")
		}
		if ageMin != 0 && ageMax != 0 && ageMin > ageMax {
			return c, invalidRange("age", "ageMin must not exceed ageMax")
		}
	}
	c.AgeMin, c.AgeMax = ageMin, ageMax
	// Born at most ageMin years ago; born after the (ageMax+1)-year mark so a
	// candidate is still ageMax on the day of the search.
	if ageMin > 0 {
		c.Filters.DOBTo = now.AddDate(-ageMin, 0, 0)
	}
	if ageMax > 0 {
		c.Filters.DOBFrom = now.AddDate(-(ageMax + 1), 0, 0).AddDate(0, 0, 1)
	}

	// Scored sets: a single request filter narrows the stored set to itself.
	if raw.ReligionID != 0 {
		c.ReligionIDs = []int64{raw.ReligionID}
	} else if stored != nil {
		c.ReligionIDs = stored.ReligionIDs
	}
	if raw.CasteID != 0 {
		c.CasteIDs = []int64{raw.CasteID}
	} else if stored != nil {
		c.CasteIDs = stored.CasteIDs
	}
	if raw.City != "" {
		c.Cities = []string{raw.City}
	} else if stored != nil {
		c.Cities = stored.Cities
	}
	if raw.State != "" {
		c.States = []string{raw.State}
	} else if stored != nil {
		c.States = stored.States
	}
	if stored != nil {
		for _, ms := range stored.MaritalStatuses {
			if !wl.MaritalStatuses[ms] {
				return c, invalidEnum("maritalStatus", ms)
			}
		}
		c.Filters.MaritalStatuses = stored.MaritalStatuses
		c.Educations = stored.Educations
		c.Professions = stored.Professions
		c.HeightMinCM = stored.HeightMinCM
		c.HeightMaxCM = stored.HeightMaxCM
		if stored.HeightMinCM > 0 && stored.HeightMaxCM > 0 && stored.HeightMinCM > stored.HeightMaxCM {
			return c, invalidRange("height", "heightMin must not exceed heightMax")
		}
	}
	return c, nil
}
