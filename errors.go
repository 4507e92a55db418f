package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ErrAlreadyShortlisted is a user-visible conflict, not a system fault.
var ErrAlreadyShortlisted = errors.New("already shortlisted")

// ErrProfileNotFound signals the caller has no owning profile (404-class).
var ErrProfileNotFound = errors.New("profile not found")

// StoreError wraps a backend fault, annotated with the operation that hit it.
// Transient marks whether a retry policy may re-attempt the call; validation
// and conflict errors are never wrapped here.
type StoreError struct {
	Op        string
	Err       error
	Transient bool
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// storeErr classifies the fault for the caller's retry policy: connection
// level failures are transient, everything else is permanent.
func storeErr(op string, err error) *StoreError {
	transient := false
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08 = connection exception, class 57 = operator intervention
		// (shutdown), 53 = insufficient resources.
		c := string(pqErr.Code)
		transient = strings.HasPrefix(c, "08") || strings.HasPrefix(c, "57") || strings.HasPrefix(c, "53")
	} else if err != nil {
		s := err.Error()
		transient = strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset") ||
			strings.Contains(s, "broken pipe") ||
			strings.Contains(s, "timeout")
	}
	return &StoreError{Op: op, Err: err, Transient: transient}
}

// isUniqueConstraintError reports whether err is a Postgres unique violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
