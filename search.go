package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"vivah/models"
	"vivah/pkg/match"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SearchService wires the engine together: normalize → retrieve → score →
// rank. Each search is independently computable from its inputs plus current
// store contents; no state is shared across requests.
type SearchService struct {
	db      *gorm.DB
	retr    *Retriever
	tracker *Tracker
	cache   *ScoreCache
	cfg     *Config
	log     *zap.Logger
}

// SearchOptions carries the per-request toggles outside the criteria proper.
type SearchOptions struct {
	Page               int
	Limit              int
	ExcludeViewed      bool
	ExcludeShortlisted bool
}

// SearchResult joins a candidate's score with the profile summary fields the
// caller renders.
type SearchResult struct {
	Profile models.Profile       `json:"profile"`
	Score   match.CandidateScore `json:"score"`
}

// SearchPage is the ranked page plus pagination metadata.
type SearchPage struct {
	Results    []SearchResult
	Pagination Pagination
}

func (s *SearchService) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.cfg.Search.DefaultLimit
	}
	if limit <= 0 {
		limit = 20
	}
	if max := s.cfg.Search.MaxLimit; max > 0 && limit > max {
		limit = max
	}
	return limit
}

// whitelist loads the enum values Normalize validates against.
func (s *SearchService) whitelist(ctx context.Context) (match.Whitelist, error) {
	wl := match.Whitelist{
		Genders: map[string]bool{
			models.GenderMale: true, models.GenderFemale: true, models.GenderOther: true,
		},
		MaritalStatuses: map[string]bool{
			models.MaritalNeverMarried: true, models.MaritalDivorced: true,
			models.MaritalWidowed: true, models.MaritalSeparated: true,
		},
		ReligionIDs: map[int64]bool{},
		CasteIDs:    map[int64]bool{},
	}
	var religionIDs, casteIDs []int64
	if err := s.db.WithContext(ctx).Model(&models.Religion{}).Where("is_active").Pluck("id", &religionIDs).Error; err != nil {
		return wl, storeErr("load religion whitelist", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Caste{}).Where("is_active").Pluck("id", &casteIDs).Error; err != nil {
		return wl, storeErr("load caste whitelist", err)
	}
	for _, id := range religionIDs {
		wl.ReligionIDs[id] = true
	}
	for _, id := range casteIDs {
		wl.CasteIDs[id] = true
	}
	return wl, nil
}

// storedPreference returns the engine view of the searcher's preference, or
// nil when none exists.
func (s *SearchService) storedPreference(ctx context.Context, profileID uuid.UUID) (*match.Preference, match.Weights, error) {
	var pref models.Preference
	err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).First(&pref).Error
	if err == gorm.ErrRecordNotFound {
		return nil, currentWeights(), nil
	}
	if err != nil {
		return nil, currentWeights(), storeErr("load preference", err)
	}
	p := &match.Preference{
		AgeMin:          pref.AgeMin,
		AgeMax:          pref.AgeMax,
		ReligionIDs:     pref.ReligionIDs,
		CasteIDs:        pref.CasteIDs,
		Cities:          pref.Cities,
		States:          pref.States,
		Educations:      pref.Educations,
		Professions:     pref.Professions,
		MaritalStatuses: pref.MaritalStatuses,
		HeightMinCM:     pref.HeightMinCM,
		HeightMaxCM:     pref.HeightMaxCM,
	}
	w := currentWeights()
	if pref.HasWeights() {
		w = match.Weights{
			Age:        pref.WeightAge,
			Religion:   pref.WeightReligion,
			Caste:      pref.WeightCaste,
			Location:   pref.WeightLocation,
			Education:  pref.WeightEducation,
			Profession: pref.WeightProfession,
			Height:     pref.WeightHeight,
		}
	}
	return p, w, nil
}

// Search runs one search call end to end for the given searcher profile.
func (s *SearchService) Search(ctx context.Context, searcher *models.Profile, raw match.RawInput, opts SearchOptions) (*SearchPage, error) {
	start := time.Now()

	stored, weights, err := s.storedPreference(ctx, searcher.ID)
	if err != nil {
		return nil, err
	}
	wl, err := s.whitelist(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	crit, err := match.Normalize(raw, stored, wl, now)
	if err != nil {
		return nil, err
	}

	excluded, err := s.tracker.ExcludedIDs(ctx, searcher.ID, opts.ExcludeViewed, opts.ExcludeShortlisted)
	if err != nil {
		return nil, err
	}

	profiles, total, err := s.retr.Retrieve(ctx, searcher.ID, crit, excluded)
	if err != nil {
		searchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return nil, err
	}

	// Score each admitted candidate, cache-assisted. Scoring is pure, so a
	// cached entry for the same (searcher, candidate, criteria) is exact.
	critHash := CriteriaHash(crit, weights)
	byID := make(map[uuid.UUID]*models.Profile, len(profiles))
	scored := make([]match.CandidateScore, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		byID[p.ID] = p
		if cs, ok := s.cache.Get(ctx, searcher.ID, p.ID, critHash); ok {
			scored = append(scored, cs)
			continue
		}
		cs := match.Score(asCandidate(p), crit, weights, now)
		s.cache.Put(ctx, searcher.ID, p.ID, critHash, cs)
		scored = append(scored, cs)
	}

	limit := s.clampLimit(opts.Limit)
	page := opts.Page
	if page < 1 {
		page = 1
	}
	ranked := match.Rank(scored, page, limit)
	// Total pages derive from the predicate-level count, not the bounded
	// in-memory set.
	ranked.Total = total
	ranked.TotalPages = (total + limit - 1) / limit

	out := &SearchPage{
		Results: make([]SearchResult, 0, len(ranked.Items)),
		Pagination: Pagination{
			Page:       ranked.Page,
			Limit:      ranked.Limit,
			Total:      ranked.Total,
			TotalPages: ranked.TotalPages,
		},
	}
	for _, cs := range ranked.Items {
		if p, ok := byID[cs.ProfileID]; ok {
			out.Results = append(out.Results, SearchResult{Profile: *p, Score: cs})
		}
	}

	searchDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	searchResults.Add(float64(len(out.Results)))
	return out, nil
}

// intQuery parses an optional integer query parameter. A present but
// malformed value is a caller error, never a silently dropped filter.
func intQuery(c *gin.Context, name, code string) (int, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &match.ValidationError{Code: code, Field: name, Msg: "must be an integer"}
	}
	return n, nil
}

func int64Query(c *gin.Context, name, code string) (int64, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &match.ValidationError{Code: code, Field: name, Msg: "must be an integer"}
	}
	return n, nil
}

// parseSearchRequest maps the query string onto the engine's raw input plus
// the per-request options.
func parseSearchRequest(c *gin.Context) (match.RawInput, SearchOptions, error) {
	raw := match.RawInput{
		Gender: c.Query("gender"),
		City:   c.Query("city"),
		State:  c.Query("state"),
	}
	opts := SearchOptions{
		Page:               1,
		ExcludeViewed:      c.Query("excludeViewed") == "1",
		ExcludeShortlisted: c.Query("excludeShortlisted") == "1",
	}
	var err error
	if raw.AgeMin, err = intQuery(c, "ageMin", match.CodeInvalidRange); err != nil {
		return raw, opts, err
	}
	if raw.AgeMax, err = intQuery(c, "ageMax", match.CodeInvalidRange); err != nil {
		return raw, opts, err
	}
	if raw.ReligionID, err = int64Query(c, "religionId", match.CodeInvalidEnum); err != nil {
		return raw, opts, err
	}
	if raw.CasteID, err = int64Query(c, "casteId", match.CodeInvalidEnum); err != nil {
		return raw, opts, err
	}
	if page, err := intQuery(c, "page", match.CodeInvalidRange); err != nil {
		return raw, opts, err
	} else if page > 0 {
		opts.Page = page
	}
	if opts.Limit, err = intQuery(c, "limit", match.CodeInvalidRange); err != nil {
		return raw, opts, err
	}
	return raw, opts, nil
}

func searchHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		searcher, ok := getProfileFromContext(c)
		if !ok {
			respondError(c, http.StatusNotFound, "Profile not found")
			return
		}
		raw, opts, err := parseSearchRequest(c)
		if err != nil {
			respondFromError(c, err)
			return
		}

		result, err := svc.Search(c.Request.Context(), searcher, raw, opts)
		if err != nil {
			respondFromError(c, err)
			return
		}
		respondPage(c, result.Results, result.Pagination)
	}
}
