package main

import (
	"errors"
	"net/http"

	"vivah/pkg/match"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pagination is the page metadata block of list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// All responses use the uniform envelope {success, data?, error?, pagination?}.
type envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Ignored    bool        `json:"ignored,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondPage(c *gin.Context, data any, pg Pagination) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data, Pagination: &pg})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, envelope{Success: false, Error: msg})
}

// respondFromError maps the error taxonomy onto HTTP statuses: validation and
// conflict are 400, missing profile 404, store faults 500 with a generic
// message that never leaks backend detail.
func respondFromError(c *gin.Context, err error) {
	var vErr *match.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(c, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrAlreadyShortlisted):
		respondError(c, http.StatusBadRequest, "Already shortlisted")
	case errors.Is(err, ErrProfileNotFound):
		respondError(c, http.StatusNotFound, "Profile not found")
	default:
		var sErr *StoreError
		if errors.As(err, &sErr) {
			log.Error("store fault", zap.String("op", sErr.Op), zap.Bool("transient", sErr.Transient), zap.Error(sErr.Err))
		} else {
			log.Error("unhandled error", zap.Error(err))
		}
		respondError(c, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}
