package main

import (
	"errors"
	"net/http"

	"vivah/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// approvedProfileExists guards interaction targets: only approved profiles can
// be viewed, shortlisted or hidden.
func approvedProfileExists(id uuid.UUID) error {
	var cnt int64
	err := db.Model(&models.Profile{}).
		Where("id = ? AND status = ?", id, models.StatusApproved).
		Count(&cnt).Error
	if err != nil {
		return storeErr("check profile", err)
	}
	if cnt == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func targetFromBody(c *gin.Context) (uuid.UUID, string, bool) {
	var req struct {
		ProfileID string `json:"profileId" binding:"required"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(req.ProfileID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid profileId")
		return uuid.Nil, "", false
	}
	return id, req.Notes, true
}

func viewedFromBody(c *gin.Context) (uuid.UUID, bool) {
	var req struct {
		ViewedProfileID string `json:"viewedProfileId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ViewedProfileID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid viewedProfileId")
		return uuid.Nil, false
	}
	return id, true
}

func targetFromParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid profile id")
		return uuid.Nil, false
	}
	return id, true
}

func listShortlistHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := getProfileFromContext(c)
		if !ok {
			respondError(c, http.StatusNotFound, "Profile not found")
			return
		}
		var entries []models.ShortlistEntry
		err := db.Preload("Shortlisted").Preload("Shortlisted.Religion").
			Where("profile_id = ?", p.ID).
			Order("created_at desc").
			Find(&entries).Error
		if err != nil {
			respondFromError(c, storeErr("list shortlist", err))
			return
		}
		respondOK(c, entries)
	}
}

func addShortlistHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := getProfileFromContext(c)
		if !ok {
			respondError(c, http.StatusNotFound, "Profile not found")
			return
		}
		target, notes, ok := targetFromBody(c)
		if !ok {
			return
		}
		if target == p.ID {
			respondError(c, http.StatusBadRequest, "cannot shortlist own profile")
			return
		}
		if err := approvedProfileExists(target); err != nil {
			respondFromError(c, err)
			return
		}
		entry, err := svc.tracker.RecordShortlist(c.Request.Context(), p.ID, target, notes)
		if err != nil {
			if errors.Is(err, ErrAlreadyShortlisted) {
				shortlistConflicts.Inc()
			}
			respondFromError(c, err)
			return
		}
		respondOK(c, entry)
	}
}

func removeShortlistHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := getProfileFromContext(c)
		if !ok {
			respondError(c, http.StatusNotFound, "Profile not found")
			return
		}
		target, ok := targetFromParam(c)
		if !ok {
			return
		}
		if err := svc.tracker.RemoveShortlist(c.Request.Context(), p.ID, target); err != nil {
			respondFromError(c, err)
			return
		}
		respondOK(c, gin.H{"removed": target})
	}
}

func recordViewHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := getProfileFromContext(c)
		if !ok {
			respondError(c, http.StatusNotFound, "Profile not found")
			return
		}
		target, ok := viewedFromBody(c)
		if !ok {
			return
		}
		if target != p.ID {
			if err := approvedProfileExists(target); err != nil {
				respondFromError(c, err)
				return
			}
		}
		ignored, err := svc.tracker.RecordView(c.Request.Context(), p.ID, target)
		if err != nil {
			respondFromError(c, err)
			return
		}
		c.JSON(http.StatusOK, envelope{Success: true, Ignored: ignored})
	}
}

// listViewsHandler returns view history. ?type=by_me (default) lists profiles
// the caller viewed; ?type=of_me lists who viewed the caller.
func listViewsHandler(c *gin.Context) {
	p, ok := getProfileFromContext(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}
	var views []models.ProfileView
	q := db.Order("viewed_at desc").Limit(200)
	switch c.DefaultQuery("type", "by_me") {
	case "by_me":
		q = q.Preload("Viewed").Where("viewer_id = ?", p.ID)
	case "of_me":
		q = q.Preload("Viewer").Where("viewed_id = ?", p.ID)
	default:
		respondError(c, http.StatusBadRequest, "type must be by_me or of_me")
		return
	}
	if err := q.Find(&views).Error; err != nil {
		respondFromError(c, storeErr("list views", err))
		return
	}
	respondOK(c, views)
}

func hideProfileHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := getProfileFromContext(c)
		if !ok {
			respondError(c, http.StatusNotFound, "Profile not found")
			return
		}
		target, _, ok := targetFromBody(c)
		if !ok {
			return
		}
		if target == p.ID {
			respondError(c, http.StatusBadRequest, "cannot hide own profile")
			return
		}
		if err := approvedProfileExists(target); err != nil {
			respondFromError(c, err)
			return
		}
		if err := svc.tracker.Hide(c.Request.Context(), p.ID, target); err != nil {
			respondFromError(c, err)
			return
		}
		respondOK(c, gin.H{"hidden": target})
	}
}

func unhideProfileHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := getProfileFromContext(c)
		if !ok {
			respondError(c, http.StatusNotFound, "Profile not found")
			return
		}
		target, ok := targetFromParam(c)
		if !ok {
			return
		}
		if err := svc.tracker.Unhide(c.Request.Context(), p.ID, target); err != nil {
			respondFromError(c, err)
			return
		}
		respondOK(c, gin.H{"unhidden": target})
	}
}
