package main

import (
	"net/http"
	"strconv"
	"time"

	"vivah/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type profileRequest struct {
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Gender        string   `json:"gender"`
	DateOfBirth   string   `json:"date_of_birth"` // YYYY-MM-DD
	ReligionID    *uint    `json:"religion_id"`
	CasteID       *uint    `json:"caste_id"`
	MaritalStatus string   `json:"marital_status"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	MotherTongue  string   `json:"mother_tongue"`
	Education     string   `json:"education"`
	Profession    string   `json:"profession"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Country       string   `json:"country"`
	AboutMe       string   `json:"about_me"`
}

func validMaritalStatus(s string) bool {
	switch s {
	case "", models.MaritalNeverMarried, models.MaritalDivorced, models.MaritalWidowed, models.MaritalSeparated:
		return true
	}
	return false
}

func validGender(s string) bool {
	switch s {
	case models.GenderMale, models.GenderFemale, models.GenderOther:
		return true
	}
	return false
}

func getOwnProfileHandler(c *gin.Context) {
	p, ok := getProfileFromContext(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}
	db.Preload("Religion").Preload("Caste").First(p, "id = ?", p.ID)
	respondOK(c, p)
}

// upsertOwnProfileHandler creates the caller's profile (status pending) or
// updates it. Owner edits never touch Status; a changed profile re-enters
// moderation only through the admin routes. Any mutation drops the profile's
// cached scores.
func upsertOwnProfileHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getUserFromContext(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "user not found")
			return
		}
		var req profileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if req.Gender != "" && !validGender(req.Gender) {
			respondError(c, http.StatusBadRequest, "invalid gender")
			return
		}
		if !validMaritalStatus(req.MaritalStatus) {
			respondError(c, http.StatusBadRequest, "invalid marital_status")
			return
		}
		var dob time.Time
		if req.DateOfBirth != "" {
			var err error
			dob, err = time.Parse(dateLayout, req.DateOfBirth)
			if err != nil {
				respondError(c, http.StatusBadRequest, "invalid date_of_birth (want YYYY-MM-DD)")
				return
			}
		}

		var p models.Profile
		err := db.Where("user_id = ?", user.ID).First(&p).Error
		creating := err != nil
		if creating {
			if req.FirstName == "" || req.Gender == "" || req.DateOfBirth == "" {
				respondError(c, http.StatusBadRequest, "first_name, gender and date_of_birth are required")
				return
			}
			p = models.Profile{ID: uuid.New(), UserID: user.ID, Status: models.StatusPending}
		}

		p.FirstName = orKeep(req.FirstName, p.FirstName)
		p.LastName = orKeep(req.LastName, p.LastName)
		if req.Gender != "" {
			p.Gender = req.Gender
		}
		if !dob.IsZero() {
			p.DateOfBirth = dob
		}
		if req.ReligionID != nil {
			p.ReligionID = req.ReligionID
		}
		if req.CasteID != nil {
			p.CasteID = req.CasteID
		}
		if req.MaritalStatus != "" {
			p.MaritalStatus = req.MaritalStatus
		}
		if req.Height != nil {
			p.HeightCM = *req.Height
		}
		if req.Weight != nil {
			p.WeightKG = *req.Weight
		}
		p.MotherTongue = orKeep(req.MotherTongue, p.MotherTongue)
		p.Education = orKeep(req.Education, p.Education)
		p.Profession = orKeep(req.Profession, p.Profession)
		p.City = orKeep(req.City, p.City)
		p.State = orKeep(req.State, p.State)
		p.Country = orKeep(req.Country, p.Country)
		p.AboutMe = orKeep(req.AboutMe, p.AboutMe)

		if err := db.Save(&p).Error; err != nil {
			respondFromError(c, storeErr("save profile", err))
			return
		}
		svc.cache.Invalidate(c.Request.Context(), p.ID)
		respondOK(c, p)
	}
}

func orKeep(next, current string) string {
	if next != "" {
		return next
	}
	return current
}

// getProfileByIDHandler returns another member's profile. Only approved
// profiles are visible to non-owners; viewing records nothing (views are an
// explicit POST /views).
func getProfileByIDHandler(c *gin.Context) {
	own, ok := getProfileFromContext(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}
	var p models.Profile
	if err := db.Preload("Religion").Preload("Caste").First(&p, "id = ?", id).Error; err != nil {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}
	if p.ID != own.ID && p.Status != models.StatusApproved {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}
	respondOK(c, p)
}

func listReligionsHandler(c *gin.Context) {
	var religions []models.Religion
	if err := db.Where("is_active").Order("display_order asc").Find(&religions).Error; err != nil {
		respondFromError(c, storeErr("list religions", err))
		return
	}
	respondOK(c, religions)
}

func listCastesHandler(c *gin.Context) {
	q := db.Where("is_active").Order("display_order asc")
	if rid := c.Query("religionId"); rid != "" {
		id, err := strconv.ParseUint(rid, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid religionId")
			return
		}
		q = q.Where("religion_id = ?", id)
	}
	var castes []models.Caste
	if err := q.Find(&castes).Error; err != nil {
		respondFromError(c, storeErr("list castes", err))
		return
	}
	respondOK(c, castes)
}
