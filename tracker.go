package main

import (
	"context"
	"time"

	"vivah/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tracker maintains per-searcher interaction state: views, shortlist entries
// and hidden profiles. Every method is a separate atomic store call; nothing
// here couples to a search in flight.
type Tracker struct {
	db *gorm.DB
}

// RecordView appends a timestamped view row. Self-views are silently ignored
// (ignored=true, no row). Re-viewing appends again; history may grow.
func (t *Tracker) RecordView(ctx context.Context, viewer, viewed uuid.UUID) (ignored bool, err error) {
	if viewer == viewed {
		return true, nil
	}
	v := models.ProfileView{ViewerID: viewer, ViewedID: viewed, ViewedAt: time.Now()}
	if err := t.db.WithContext(ctx).Create(&v).Error; err != nil {
		return false, storeErr("record view", err)
	}
	return false, nil
}

// RecordShortlist inserts one active entry per (owner, target) pair. The
// store's unique index resolves concurrent inserts: first writer wins, the
// second gets ErrAlreadyShortlisted.
func (t *Tracker) RecordShortlist(ctx context.Context, owner, target uuid.UUID, notes string) (*models.ShortlistEntry, error) {
	entry := models.ShortlistEntry{ProfileID: owner, ShortlistedID: target, Notes: notes}
	if err := t.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrAlreadyShortlisted
		}
		return nil, storeErr("record shortlist", err)
	}
	return &entry, nil
}

// RemoveShortlist deletes the pair's entry; removing a non-existent entry
// succeeds silently.
func (t *Tracker) RemoveShortlist(ctx context.Context, owner, target uuid.UUID) error {
	err := t.db.WithContext(ctx).
		Where("profile_id = ? AND shortlisted_id = ?", owner, target).
		Delete(&models.ShortlistEntry{}).Error
	if err != nil {
		return storeErr("remove shortlist", err)
	}
	return nil
}

// Hide marks a profile to be excluded from the owner's searches. Hiding an
// already-hidden profile succeeds.
func (t *Tracker) Hide(ctx context.Context, owner, hidden uuid.UUID) error {
	h := models.HiddenProfile{ProfileID: owner, HiddenID: hidden}
	if err := t.db.WithContext(ctx).Create(&h).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil
		}
		return storeErr("hide profile", err)
	}
	return nil
}

// Unhide is idempotent like RemoveShortlist.
func (t *Tracker) Unhide(ctx context.Context, owner, hidden uuid.UUID) error {
	err := t.db.WithContext(ctx).
		Where("profile_id = ? AND hidden_id = ?", owner, hidden).
		Delete(&models.HiddenProfile{}).Error
	if err != nil {
		return storeErr("unhide profile", err)
	}
	return nil
}

// IsExcluded reports whether the searcher has hidden the candidate.
func (t *Tracker) IsExcluded(ctx context.Context, searcher, candidate uuid.UUID) (bool, error) {
	var cnt int64
	err := t.db.WithContext(ctx).Model(&models.HiddenProfile{}).
		Where("profile_id = ? AND hidden_id = ?", searcher, candidate).
		Count(&cnt).Error
	if err != nil {
		return false, storeErr("check exclusion", err)
	}
	return cnt > 0, nil
}

// ExcludedIDs collects the profile ids the retriever must not surface for
// this searcher. Hidden profiles are always excluded; viewed and shortlisted
// profiles only when the caller opts in (a user may re-see either by
// default).
func (t *Tracker) ExcludedIDs(ctx context.Context, searcher uuid.UUID, excludeViewed, excludeShortlisted bool) ([]uuid.UUID, error) {
	seen := map[uuid.UUID]struct{}{}
	var out []uuid.UUID
	add := func(ids []uuid.UUID) {
		for _, id := range ids {
			if _, dup := seen[id]; !dup {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}

	var hidden []uuid.UUID
	err := t.db.WithContext(ctx).Model(&models.HiddenProfile{}).
		Where("profile_id = ?", searcher).
		Pluck("hidden_id", &hidden).Error
	if err != nil {
		return nil, storeErr("load hidden profiles", err)
	}
	add(hidden)

	if excludeShortlisted {
		var shortlisted []uuid.UUID
		err := t.db.WithContext(ctx).Model(&models.ShortlistEntry{}).
			Where("profile_id = ?", searcher).
			Pluck("shortlisted_id", &shortlisted).Error
		if err != nil {
			return nil, storeErr("load shortlisted profiles", err)
		}
		add(shortlisted)
	}
	if excludeViewed {
		var viewed []uuid.UUID
		err := t.db.WithContext(ctx).Model(&models.ProfileView{}).
			Where("viewer_id = ?", searcher).
			Distinct().
			Pluck("viewed_id", &viewed).Error
		if err != nil {
			return nil, storeErr("load viewed profiles", err)
		}
		add(viewed)
	}
	return out, nil
}
