package match

import (
	"bytes"
	"sort"
)

// Page is one page of globally ranked results plus total-count metadata.
type Page struct {
	Items      []CandidateScore `json:"items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	TotalPages int              `json:"totalPages"`
}

// Rank sorts the scored set deterministically and slices out the requested
// page. Sort keys: raw score descending, matched-attribute count descending,
// profile id ascending. The full ordering is total (ids are unique), so two
// calls over the same set produce identical output and no candidate appears
// twice across pages of an unchanged set. A page past the end yields an empty
// slice, not an error.
func Rank(scored []CandidateScore, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	ordered := make([]CandidateScore, len(scored))
	copy(ordered, scored)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Raw != b.Raw {
			return a.Raw > b.Raw
		}
		if len(a.Matched) != len(b.Matched) {
			return len(a.Matched) > len(b.Matched)
		}
		return bytes.Compare(a.ProfileID[:], b.ProfileID[:]) < 0
	})

	total := len(ordered)
	p := Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
	offset := (page - 1) * limit
	if offset >= total {
		p.Items = []CandidateScore{}
		return p
	}
	end := offset + limit
	if end > total {
		end = total
	}
	p.Items = ordered[offset:end]
	return p
}
