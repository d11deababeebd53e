package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staysync-backend/internal/store"
)

// statusFor maps a domain error to the HTTP status surfaced to the
// caller. Everything here is a rejected action, not a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, store.ErrDuplicatePending),
		errors.Is(err, store.ErrAlreadyBooked),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrCapacityExhausted):
		return http.StatusConflict
	case errors.Is(err, store.ErrWindowClosed),
		errors.Is(err, store.ErrNotEnrolled):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrInvalidCapacity),
		errors.Is(err, store.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// abortWithError writes the mapped status and the error reason.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
