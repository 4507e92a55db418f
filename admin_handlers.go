package main

import (
	"net/http"
	"strconv"

	"vivah/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func validProfileStatus(s string) bool {
	switch s {
	case models.StatusPending, models.StatusApproved, models.StatusRejected, models.StatusDeactivated:
		return true
	}
	return false
}

// adminListProfilesHandler pages through profiles for moderation, optionally
// narrowed to one status (?status=pending).
func adminListProfilesHandler(c *gin.Context) {
	q := db.Model(&models.Profile{})
	if status := c.Query("status"); status != "" {
		if !validProfileStatus(status) {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		q = q.Where("status = ?", status)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		respondFromError(c, storeErr("count profiles", err))
		return
	}
	var profiles []models.Profile
	err := q.Preload("Religion").Preload("Caste").
		Order("created_at asc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&profiles).Error
	if err != nil {
		respondFromError(c, storeErr("list profiles", err))
		return
	}
	respondPage(c, profiles, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      int(total),
		TotalPages: (int(total) + limit - 1) / limit,
	})
}

// adminSetStatusHandler transitions a profile's moderation status. A status
// change alters search visibility, so the profile's cached scores are dropped.
func adminSetStatusHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid profile id")
			return
		}
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if !validProfileStatus(req.Status) {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}

		var p models.Profile
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			respondFromError(c, ErrProfileNotFound)
			return
		}
		if p.Status != req.Status {
			if err := db.Model(&p).Update("status", req.Status).Error; err != nil {
				respondFromError(c, storeErr("update status", err))
				return
			}
			svc.cache.Invalidate(c.Request.Context(), p.ID)
		}
		respondOK(c, gin.H{"id": p.ID, "status": req.Status})
	}
}
