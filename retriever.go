package main

import (
	"context"

	"vivah/models"
	"vivah/pkg/match"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Retriever issues the scoped candidate query. Hard filters are applied
// server-side in a fixed order (status, self-exclusion, gender) before any
// optional filter; absence of an optional filter means "no constraint". The
// candidate set is bounded by maxCandidates so scoring cost stays bounded;
// the returned total comes from the same predicate, not the slice.
type Retriever struct {
	db            *gorm.DB
	maxCandidates int
}

func (r *Retriever) query(searcherID uuid.UUID, crit match.Criteria, excluded []uuid.UUID) *gorm.DB {
	q := r.db.Model(&models.Profile{}).
		Where("status = ?", models.StatusApproved).
		Where("id <> ?", searcherID)
	f := crit.Filters
	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.ReligionID != 0 {
		q = q.Where("religion_id = ?", f.ReligionID)
	}
	if f.CasteID != 0 {
		q = q.Where("caste_id = ?", f.CasteID)
	}
	if !f.DOBFrom.IsZero() {
		q = q.Where("date_of_birth >= ?", f.DOBFrom)
	}
	if !f.DOBTo.IsZero() {
		q = q.Where("date_of_birth <= ?", f.DOBTo)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.State != "" {
		q = q.Where("state = ?", f.State)
	}
	if len(f.MaritalStatuses) > 0 {
		q = q.Where("marital_status IN ?", f.MaritalStatuses)
	}
	if len(excluded) > 0 {
		q = q.Where("id NOT IN ?", excluded)
	}
	return q
}

// Retrieve returns up to maxCandidates matching profiles plus the total count
// over the same predicate ("count as of a consistent read within this call";
// exactness under heavy write concurrency is not guaranteed).
func (r *Retriever) Retrieve(ctx context.Context, searcherID uuid.UUID, crit match.Criteria, excluded []uuid.UUID) ([]models.Profile, int, error) {
	bound := r.maxCandidates
	if bound <= 0 {
		bound = 500
	}
	var total int64
	if err := r.query(searcherID, crit, excluded).WithContext(ctx).Count(&total).Error; err != nil {
		return nil, 0, storeErr("count candidates", err)
	}
	var profiles []models.Profile
	if err := r.query(searcherID, crit, excluded).WithContext(ctx).
		Order("created_at desc, id asc").
		Limit(bound).
		Find(&profiles).Error; err != nil {
		return nil, 0, storeErr("retrieve candidates", err)
	}
	return profiles, int(total), nil
}

// asCandidate maps a store record into the engine's scoring shape.
func asCandidate(p *models.Profile) match.Candidate {
	c := match.Candidate{
		ID:            p.ID,
		Gender:        p.Gender,
		DateOfBirth:   p.DateOfBirth,
		City:          p.City,
		State:         p.State,
		Education:     p.Education,
		Profession:    p.Profession,
		HeightCM:      p.HeightCM,
		MaritalStatus: p.MaritalStatus,
	}
	if p.ReligionID != nil {
		c.ReligionID = int64(*p.ReligionID)
	}
	if p.CasteID != nil {
		c.CasteID = int64(*p.CasteID)
	}
	return c
}
