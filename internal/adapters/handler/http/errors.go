package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var (
	notFoundErrors = []error{
		domain.ErrLeaderNotFound, domain.ErrNoteNotFound, domain.ErrTodoNotFound,
		domain.ErrScorecardNotFound, domain.ErrRecipientNotFound,
	}
	conflictErrors = []error{
		domain.ErrLeaderConflict, domain.ErrTodoConflict, domain.ErrStatusUnchanged,
	}
	validationErrors = []error{
		domain.ErrLeaderNameEmpty, domain.ErrLeaderNameTooLong, domain.ErrLeaderInvalidOwner,
		domain.ErrInvalidLeaderEmail, domain.ErrInvalidLeaderStatus,
		domain.ErrNoteEmpty, domain.ErrNoteTooLong,
		domain.ErrTodoTextEmpty, domain.ErrTodoTextTooLong, domain.ErrRecurringNeedsDate,
		domain.ErrInvalidRepeatRule, domain.ErrInvalidInterval, domain.ErrInvalidDate,
		domain.ErrSeriesTooLong,
		domain.ErrScoreOutOfRange, domain.ErrScorecardEmpty, domain.ErrScorecardNoDate,
	}
	forbiddenErrors = []error{
		domain.ErrUnauthorized, domain.ErrNoteSystemOnly,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// handleError writes the status matching a domain error. Anything unknown is
// logged and reported as 500 without details.
func handleError(c *gin.Context, err error) {
	switch {
	case isAny(err, notFoundErrors):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case isAny(err, conflictErrors):
		c.JSON(http.StatusConflict, errorResponse{
			Error:   err.Error(),
			Message: "Data has been modified elsewhere. Reload and try again.",
		})
	case isAny(err, validationErrors):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case isAny(err, forbiddenErrors):
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidLinkToken):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: domain.ErrInvalidLinkToken.Error()})
	default:
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// requireUser returns the forwarded user or writes 401.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "user context missing"})
		return "", false
	}
	return userID, true
}

// parseOptionalDate reads a YYYY-MM-DD value; empty yields the zero time.
func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return domain.ParseDate(s)
}
