package match

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func candidate() Candidate {
	return Candidate{
		ID:          uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Gender:      "female",
		DateOfBirth: time.Date(1999, 3, 10, 0, 0, 0, 0, time.UTC), // 27 at testNow
		ReligionID:  1,
		CasteID:     10,
		City:        "Pune",
		State:       "Maharashtra",
		Education:   "masters",
		Profession:  "engineer",
		HeightCM:    162,
	}
}

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScoreEmptyCriteriaIsPerfect(t *testing.T) {
	s := Score(candidate(), Criteria{}, UniformWeights(), testNow)
	if !approxEqual(s.Raw, 1.0) {
		t.Fatalf("score = %f, want 1.0", s.Raw)
	}
	if len(s.Matched) != 0 || len(s.Unmatched) != 0 {
		t.Fatalf("unspecified attributes listed: matched=%v unmatched=%v", s.Matched, s.Unmatched)
	}
}

func TestScoreFullMatch(t *testing.T) {
	crit := Criteria{
		AgeMin:      24,
		AgeMax:      31,
		ReligionIDs: []int64{1},
		CasteIDs:    []int64{10},
		Cities:      []string{"Pune"},
		Educations:  []string{"masters", "phd"},
		Professions: []string{"engineer"},
		HeightMinCM: 150,
		HeightMaxCM: 170,
	}
	s := Score(candidate(), crit, UniformWeights(), testNow)
	if !approxEqual(s.Raw, 1.0) {
		t.Fatalf("score = %f, want 1.0", s.Raw)
	}
	if len(s.Matched) != 7 {
		t.Fatalf("matched = %v, want all 7", s.Matched)
	}
	if len(s.Unmatched) != 0 {
		t.Fatalf("unmatched = %v, want none", s.Unmatched)
	}
}

func TestScoreUnmatchedAttributeDropsItsWeight(t *testing.T) {
	crit := Criteria{ReligionIDs: []int64{2}, Educations: []string{"masters"}}
	s := Score(candidate(), crit, UniformWeights(), testNow)
	// religion misses, education hits, five attributes neutral.
	if !approxEqual(s.Raw, 6.0/7.0) {
		t.Fatalf("score = %f, want %f", s.Raw, 6.0/7.0)
	}
	if len(s.Matched) != 1 || s.Matched[0] != AttrEducation {
		t.Fatalf("matched = %v, want [education]", s.Matched)
	}
	if len(s.Unmatched) != 1 || s.Unmatched[0] != AttrReligion {
		t.Fatalf("unmatched = %v, want [religion]", s.Unmatched)
	}
}

func TestScoreStateOnlyLocationIsHalf(t *testing.T) {
	crit := Criteria{Cities: []string{"Mumbai"}, States: []string{"Maharashtra"}}
	s := Score(candidate(), crit, UniformWeights(), testNow)
	if !approxEqual(s.Raw, 6.5/7.0) {
		t.Fatalf("score = %f, want %f", s.Raw, 6.5/7.0)
	}
	// A partial hit still counts toward Matched.
	if len(s.Matched) != 1 || s.Matched[0] != AttrLocation {
		t.Fatalf("matched = %v, want [location]", s.Matched)
	}
}

func TestScoreLocationCityBeatsState(t *testing.T) {
	c := candidate()
	crit := Criteria{Cities: []string{"Pune"}, States: []string{"Karnataka"}}
	s := Score(c, crit, UniformWeights(), testNow)
	if !approxEqual(s.Raw, 1.0) {
		t.Fatalf("score = %f, want 1.0 (city hit wins)", s.Raw)
	}
	crit = Criteria{Cities: []string{"Mumbai"}}
	s = Score(c, crit, UniformWeights(), testNow)
	if !approxEqual(s.Raw, 6.0/7.0) {
		t.Fatalf("score = %f, want %f (city miss, no state set)", s.Raw, 6.0/7.0)
	}
}

func TestScoreWeightsRescaled(t *testing.T) {
	// Weights 2:1 over two specified attributes behave like 2/3 and 1/3 of the
	// specified mass once the five neutral attributes are counted in.
	w := Weights{Religion: 2, Education: 1}
	crit := Criteria{ReligionIDs: []int64{2}, Educations: []string{"masters"}}
	s := Score(candidate(), crit, w, testNow)
	if !approxEqual(s.Raw, 1.0/3.0) {
		t.Fatalf("score = %f, want %f", s.Raw, 1.0/3.0)
	}
}

func TestScoreZeroWeightsFallBackToUniform(t *testing.T) {
	crit := Criteria{ReligionIDs: []int64{1}}
	a := Score(candidate(), crit, Weights{}, testNow)
	b := Score(candidate(), crit, UniformWeights(), testNow)
	if !approxEqual(a.Raw, b.Raw) {
		t.Fatalf("zero weights scored %f, uniform scored %f", a.Raw, b.Raw)
	}
}

func TestScoreAgeBoundary(t *testing.T) {
	crit := Criteria{AgeMin: 24, AgeMax: 31}
	cases := []struct {
		dob  time.Time
		want float64
	}{
		{testNow.AddDate(-24, 0, 0), 1},             // exactly 24
		{testNow.AddDate(-27, -3, 0), 1},            // 27
		{testNow.AddDate(-32, 0, 0).AddDate(0, 0, 1), 1}, // still 31
		{testNow.AddDate(-32, 0, 0), 0},             // turned 32
		{testNow.AddDate(-23, 0, 0).AddDate(0, 0, 1), 0}, // still 23
	}
	for i, tc := range cases {
		c := candidate()
		c.DateOfBirth = tc.dob
		s := Score(c, crit, UniformWeights(), testNow)
		got := 0.0
		if len(s.Unmatched) == 0 {
			got = 1.0
		}
		if got != tc.want {
			t.Fatalf("case %d dob=%v: age match = %f, want %f", i, tc.dob, got, tc.want)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	crit := Criteria{ReligionIDs: []int64{1}, Cities: []string{"Pune"}, HeightMinCM: 150}
	a := Score(candidate(), crit, UniformWeights(), testNow)
	b := Score(candidate(), crit, UniformWeights(), testNow)
	if a.Raw != b.Raw || len(a.Matched) != len(b.Matched) || len(a.Unmatched) != len(b.Unmatched) {
		t.Fatalf("scoring not deterministic: %+v vs %+v", a, b)
	}
}

func TestScoreClamped(t *testing.T) {
	s := Score(candidate(), Criteria{ReligionIDs: []int64{1}}, Weights{Religion: 100}, testNow)
	if s.Raw < 0 || s.Raw > 1 {
		t.Fatalf("score %f outside [0,1]", s.Raw)
	}
}
