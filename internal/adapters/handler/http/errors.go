package http

import (
	"errors"
	"net/http"

	"github.com/comitanigiacomo/kanso-fit/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/core/services"
	"github.com/gin-gonic/gin"
)

var badRequestErrors = []error{
	domain.ErrInvalidDate,
	domain.ErrInvalidRange,
	domain.ErrInvalidIcon,
	domain.ErrInvalidActivityCategory,
	domain.ErrInvalidExerciseCategory,
	domain.ErrActivityNameEmpty,
	domain.ErrActivityNameTooLong,
	domain.ErrActivityDescTooLong,
	domain.ErrDuplicateExercise,
	domain.ErrExerciseNameEmpty,
	domain.ErrExerciseDetailsEmpty,
	domain.ErrUnknownExercise,
	domain.ErrHabitNameEmpty,
	domain.ErrHabitNameTooLong,
	domain.ErrInvalidStat,
	services.ErrInvalidView,
}

var notFoundErrors = []error{
	domain.ErrActivityNotFound,
	domain.ErrInstanceNotFound,
	domain.ErrHabitNotFound,
	domain.ErrExerciseNotInActivity,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError maps service errors onto status codes. Unknown errors are
// attached to the context for the logger and hidden from the client.
func writeError(c *gin.Context, err error) {
	switch {
	case isAny(err, badRequestErrors):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case isAny(err, notFoundErrors):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrActivityConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "version conflict",
			"message": "Data has been modified elsewhere. Please sync.",
		})
	case errors.Is(err, domain.ErrExerciseNameInUse), errors.Is(err, domain.ErrInstanceNotComplete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}
