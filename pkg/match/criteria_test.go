package match

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func testWhitelist() Whitelist {
	return Whitelist{
		Genders:         map[string]bool{"male": true, "female": true, "other": true},
		MaritalStatuses: map[string]bool{"never_married": true, "divorced": true, "widowed": true, "separated": true},
		ReligionIDs:     map[int64]bool{1: true, 2: true, 3: true},
		CasteIDs:        map[int64]bool{10: true, 11: true},
	}
}

func TestNormalizeAgeWindow(t *testing.T) {
	c, err := Normalize(RawInput{AgeMin: 24, AgeMax: 31}, nil, testWhitelist(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTo := testNow.AddDate(-24, 0, 0)
	wantFrom := testNow.AddDate(-32, 0, 0).AddDate(0, 0, 1)
	if !c.Filters.DOBTo.Equal(wantTo) {
		t.Fatalf("DOBTo = %v, want %v", c.Filters.DOBTo, wantTo)
	}
	if !c.Filters.DOBFrom.Equal(wantFrom) {
		t.Fatalf("DOBFrom = %v, want %v", c.Filters.DOBFrom, wantFrom)
	}
	// Someone born exactly on DOBFrom is still 31 today, born a day earlier is 32.
	if age(c.Filters.DOBFrom) != 31 {
		t.Fatalf("boundary candidate age = %d, want 31", age(c.Filters.DOBFrom))
	}
	if age(c.Filters.DOBFrom.AddDate(0, 0, -1)) != 32 {
		t.Fatalf("pre-boundary candidate age = %d, want 32", age(c.Filters.DOBFrom.AddDate(0, 0, -1)))
	}
}

func age(dob time.Time) int {
	years := testNow.Year() - dob.Year()
	if dob.AddDate(years, 0, 0).After(testNow) {
		years--
	}
	return years
}

func TestNormalizeInvertedAgeRange(t *testing.T) {
	_, err := Normalize(RawInput{AgeMin: 40, AgeMax: 30}, nil, testWhitelist(), testNow)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if vErr.Code != CodeInvalidRange || vErr.Field != "age" {
		t.Fatalf("got code=%s field=%s", vErr.Code, vErr.Field)
	}
}

func TestNormalizeAgeOutOfBounds(t *testing.T) {
	for _, raw := range []RawInput{{AgeMin: -1}, {AgeMax: 120}, {AgeMin: 150, AgeMax: 160}} {
		_, err := Normalize(raw, nil, testWhitelist(), testNow)
		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.Code != CodeInvalidRange {
			t.Fatalf("raw %+v: expected INVALID_RANGE, got %v", raw, err)
		}
	}
}

func TestNormalizeUnknownEnums(t *testing.T) {
	cases := []struct {
		raw   RawInput
		field string
	}{
		{RawInput{Gender: "unknown"}, "gender"},
		{RawInput{ReligionID: 99}, "religionId"},
		{RawInput{CasteID: 99}, "casteId"},
	}
	for _, tc := range cases {
		_, err := Normalize(tc.raw, nil, testWhitelist(), testNow)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.field, err)
		}
		if vErr.Code != CodeInvalidEnum || vErr.Field != tc.field {
			t.Fatalf("%s: got code=%s field=%s", tc.field, vErr.Code, vErr.Field)
		}
	}
}

func TestNormalizeRawOverridesStored(t *testing.T) {
	stored := &Preference{
		AgeMin:      25,
		AgeMax:      35,
		ReligionIDs: []int64{1, 2},
		Cities:      []string{"Pune", "Mumbai"},
	}
	c, err := Normalize(RawInput{AgeMin: 28, ReligionID: 3, City: "Delhi"}, stored, testWhitelist(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.AgeMin != 28 || c.AgeMax != 35 {
		t.Fatalf("age = [%d,%d], want [28,35]", c.AgeMin, c.AgeMax)
	}
	// A single request filter narrows the scored set to itself.
	if len(c.ReligionIDs) != 1 || c.ReligionIDs[0] != 3 {
		t.Fatalf("ReligionIDs = %v, want [3]", c.ReligionIDs)
	}
	if c.Filters.ReligionID != 3 {
		t.Fatalf("hard religion filter = %d, want 3", c.Filters.ReligionID)
	}
	if len(c.Cities) != 1 || c.Cities[0] != "Delhi" {
		t.Fatalf("Cities = %v, want [Delhi]", c.Cities)
	}
}

func TestNormalizeAbsentEverywhereIsUnconstrained(t *testing.T) {
	c, err := Normalize(RawInput{}, &Preference{}, testWhitelist(), testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Filters.Gender != "" || c.Filters.ReligionID != 0 || !c.Filters.DOBFrom.IsZero() || !c.Filters.DOBTo.IsZero() {
		t.Fatalf("expected no hard filters, got %+v", c.Filters)
	}
	if len(c.ReligionIDs) != 0 || len(c.Cities) != 0 || len(c.Educations) != 0 {
		t.Fatalf("expected empty scored sets, got %+v", c)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	raw := RawInput{Gender: "female", AgeMin: 24, AgeMax: 31, City: "Pune"}
	stored := &Preference{ReligionIDs: []int64{1}, Educations: []string{"masters"}}
	a, err1 := Normalize(raw, stored, testWhitelist(), testNow)
	b, err2 := Normalize(raw, stored, testWhitelist(), testNow)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v %v", err1, err2)
	}
	if !a.Filters.DOBFrom.Equal(b.Filters.DOBFrom) || !a.Filters.DOBTo.Equal(b.Filters.DOBTo) ||
		a.Filters.Gender != b.Filters.Gender || a.AgeMin != b.AgeMin || a.AgeMax != b.AgeMax {
		t.Fatalf("normalization not deterministic: %+v vs %+v", a, b)
	}
}

func TestNormalizeStoredMaritalStatusValidated(t *testing.T) {
	stored := &Preference{MaritalStatuses: []string{"never_married", "complicated"}}
	_, err := Normalize(RawInput{}, stored, testWhitelist(), testNow)
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Code != CodeInvalidEnum {
		t.Fatalf("expected INVALID_ENUM, got %v", err)
	}
}
