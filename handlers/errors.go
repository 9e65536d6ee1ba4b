package handlers

import (
	"net/http"

	"eclinic/middleware"
	"eclinic/models"
	"eclinic/services/booking"
	"eclinic/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto its HTTP status.
func respondError(c *gin.Context, message string, err error) {
	switch booking.Kind(err) {
	case booking.KindConflict:
		utils.JSONError(c, http.StatusConflict, message, err.Error())
	case booking.KindNotFound:
		utils.JSONError(c, http.StatusNotFound, message, err.Error())
	case booking.KindInvalid:
		utils.JSONError(c, http.StatusBadRequest, message, err.Error())
	case booking.KindForbidden:
		utils.JSONError(c, http.StatusForbidden, message, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, message, err.Error())
	}
}

// mustSession returns the caller's session or writes 401.
func mustSession(c *gin.Context) (models.Session, bool) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated", "")
		return models.Session{}, false
	}
	return session, true
}
