package main

import (
	"net/http"

	"vivah/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type preferenceRequest struct {
	AgeMin          int       `json:"age_min"`
	AgeMax          int       `json:"age_max"`
	ReligionIDs     []int64   `json:"religion_ids"`
	CasteIDs        []int64   `json:"caste_ids"`
	Cities          []string  `json:"cities"`
	States          []string  `json:"states"`
	Educations      []string  `json:"educations"`
	Professions     []string  `json:"professions"`
	MaritalStatuses []string  `json:"marital_statuses"`
	HeightMin       float64   `json:"height_min"`
	HeightMax       float64   `json:"height_max"`
	Weights         *struct {
		Age        float64 `json:"age"`
		Religion   float64 `json:"religion"`
		Caste      float64 `json:"caste"`
		Location   float64 `json:"location"`
		Education  float64 `json:"education"`
		Profession float64 `json:"profession"`
		Height     float64 `json:"height"`
	} `json:"weights"`
}

func getPreferencesHandler(c *gin.Context) {
	p, ok := getProfileFromContext(c)
	if !ok {
		respondError(c, http.StatusNotFound, "Profile not found")
		return
	}
	var pref models.Preference
	if err := db.Where("profile_id = ?", p.ID).First(&pref).Error; err != nil {
		respondOK(c, nil)
		return
	}
	respondOK(c, pref)
}

// upsertPreferencesHandler replaces the caller's stored preference wholesale.
// Range sanity (age, height, weights) is checked here; set contents are only
// validated against the master whitelist at search time.
func upsertPreferencesHandler(svc *SearchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := getProfileFromContext(c)
		if !ok {
			respondError(c, http.StatusNotFound, "Profile not found")
			return
		}
		var req preferenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if req.AgeMin < 0 || req.AgeMax < 0 || (req.AgeMax > 0 && req.AgeMin > req.AgeMax) {
			respondError(c, http.StatusBadRequest, "invalid age range")
			return
		}
		if req.HeightMax > 0 && req.HeightMin > req.HeightMax {
			respondError(c, http.StatusBadRequest, "invalid height range")
			return
		}
		for _, m := range req.MaritalStatuses {
			if !validMaritalStatus(m) {
				respondError(c, http.StatusBadRequest, "invalid marital_statuses entry: "+m)
				return
			}
		}

		var pref models.Preference
		db.Where("profile_id = ?", p.ID).First(&pref)
		pref.ProfileID = p.ID
		pref.AgeMin = req.AgeMin
		pref.AgeMax = req.AgeMax
		pref.ReligionIDs = pq.Int64Array(req.ReligionIDs)
		pref.CasteIDs = pq.Int64Array(req.CasteIDs)
		pref.Cities = pq.StringArray(req.Cities)
		pref.States = pq.StringArray(req.States)
		pref.Educations = pq.StringArray(req.Educations)
		pref.Professions = pq.StringArray(req.Professions)
		pref.MaritalStatuses = pq.StringArray(req.MaritalStatuses)
		pref.HeightMinCM = req.HeightMin
		pref.HeightMaxCM = req.HeightMax
		if req.Weights != nil {
			for _, w := range []float64{
				req.Weights.Age, req.Weights.Religion, req.Weights.Caste,
				req.Weights.Location, req.Weights.Education, req.Weights.Profession,
				req.Weights.Height,
			} {
				if w < 0 || w > 1 {
					respondError(c, http.StatusBadRequest, "weights must lie in [0,1]")
					return
				}
			}
			pref.WeightAge = req.Weights.Age
			pref.WeightReligion = req.Weights.Religion
			pref.WeightCaste = req.Weights.Caste
			pref.WeightLocation = req.Weights.Location
			pref.WeightEducation = req.Weights.Education
			pref.WeightProfession = req.Weights.Profession
			pref.WeightHeight = req.Weights.Height
		}

		if err := db.Save(&pref).Error; err != nil {
			respondFromError(c, storeErr("save preference", err))
			return
		}
		svc.cache.Invalidate(c.Request.Context(), p.ID)
		respondOK(c, pref)
	}
}
