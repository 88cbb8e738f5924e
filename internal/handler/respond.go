package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planboard/internal/apperr"
	"planboard/internal/identity"
	"planboard/internal/middleware"
)

// respondError maps the service error taxonomy onto HTTP statuses. The
// error message is rendered as is; store-level failures stay generic.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindTransaction:
		status = http.StatusInternalServerError
	}

	c.JSON(status, gin.H{"error": appErr.Message})
}

// mustCaller pulls the authenticated caller out of the gin context,
// aborting with 401 if the middleware did not run.
func mustCaller(c *gin.Context) (identity.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return identity.Caller{}, false
	}
	return caller, true
}
