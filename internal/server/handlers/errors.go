package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/repository"
	"github.com/mamadbah2/salonpos/internal/service/booking"
	"github.com/mamadbah2/salonpos/internal/service/clients"
	"github.com/mamadbah2/salonpos/internal/service/pos"
)

const dateLayout = "2006-01-02"

var badRequest = []error{
	booking.ErrValidation,
	pos.ErrValidation,
	pos.ErrInvalidSplit,
	clients.ErrValidation,
}

var notFound = []error{
	booking.ErrAppointmentNotFound,
	booking.ErrStylistNotFound,
	booking.ErrBreakNotFound,
	pos.ErrOrderNotFound,
	pos.ErrClientNotFound,
	clients.ErrClientNotFound,
	repository.ErrNotFound,
}

var conflict = []error{
	booking.ErrStylistUnavailable,
	booking.ErrSlotBooked,
	booking.ErrBreakConflict,
	booking.ErrInvalidTransition,
	pos.ErrOrderClosed,
	pos.ErrAlreadySettled,
	pos.ErrAppointmentPaid,
	clients.ErrDuplicatePhone,
	repository.ErrLockNotAcquired,
}

func matches(err error, targets []error) (error, bool) {
	for _, t := range targets {
		if errors.Is(err, t) {
			return t, true
		}
	}
	return nil, false
}

// respondError maps service errors onto HTTP statuses. Validation messages
// are returned without their sentinel prefix.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if t, ok := matches(err, badRequest); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": strings.TrimPrefix(err.Error(), t.Error()+": ")})
		return
	}
	if _, ok := matches(err, notFound); ok {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if _, ok := matches(err, conflict); ok {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, pos.ErrExceedsPending) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func bindJSON(c *gin.Context, logger *zap.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.Debug("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// parseDay reads a yyyy-mm-dd value in loc; empty means today.
func parseDay(value string, loc *time.Location, now time.Time) (time.Time, error) {
	if value == "" {
		n := now.In(loc)
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc), nil
	}
	return time.ParseInLocation(dateLayout, value, loc)
}

// dayRange reads the from/to query parameters as an inclusive date range and
// returns it as [from, to+1d).
func dayRange(c *gin.Context, loc *time.Location) (time.Time, time.Time, bool) {
	now := time.Now()
	from, err := parseDay(c.Query("from"), loc, now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	to := from
	if v := c.Query("to"); v != "" {
		if to, err = parseDay(v, loc, now); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
	}
	return from, to.AddDate(0, 0, 1), true
}
