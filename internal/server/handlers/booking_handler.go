package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/service/booking"
)

// BookingHandler exposes appointments, stylists and the day view.
type BookingHandler struct {
	svc    *booking.Service
	loc    *time.Location
	logger *zap.Logger
}

// NewBookingHandler constructs the booking HTTP adapter. Dates in query
// strings are read in loc.
func NewBookingHandler(svc *booking.Service, loc *time.Location, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BookingHandler{svc: svc, loc: loc, logger: logger}
}

func (h *BookingHandler) day(c *gin.Context) (time.Time, bool) {
	day, err := parseDay(c.Query("date"), h.loc, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}

// DayView renders the stylist grid for ?date=YYYY-MM-DD.
func (h *BookingHandler) DayView(c *gin.Context) {
	day, ok := h.day(c)
	if !ok {
		return
	}
	view, err := h.svc.DayView(c.Request.Context(), day)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BookingHandler) ListAppointments(c *gin.Context) {
	day, ok := h.day(c)
	if !ok {
		return
	}
	appts, err := h.svc.ListAppointments(c.Request.Context(), day)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (h *BookingHandler) GetAppointment(c *gin.Context) {
	appt, err := h.svc.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *BookingHandler) CreateAppointment(c *gin.Context) {
	var req models.AppointmentRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	appt, err := h.svc.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *BookingHandler) UpdateAppointment(c *gin.Context) {
	var req models.AppointmentRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	appt, err := h.svc.UpdateAppointment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// MoveAppointment handles a drag-and-drop onto another slot or stylist.
func (h *BookingHandler) MoveAppointment(c *gin.Context) {
	var req models.MoveRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	appt, err := h.svc.MoveAppointment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) CancelAppointment(c *gin.Context) {
	var req cancelRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, h.logger, &req) {
		return
	}
	appt, err := h.svc.CancelAppointment(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *BookingHandler) CompleteAppointment(c *gin.Context) {
	appt, err := h.svc.CompleteAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type stylistRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (h *BookingHandler) CreateStylist(c *gin.Context) {
	var req stylistRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	st, err := h.svc.CreateStylist(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *BookingHandler) ListStylists(c *gin.Context) {
	list, err := h.svc.ListStylists(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type availabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h *BookingHandler) SetAvailability(c *gin.Context) {
	var req availabilityRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.svc.SetAvailability(c.Request.Context(), c.Param("id"), *req.Available); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) AddBreak(c *gin.Context) {
	var req models.BreakRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	br, err := h.svc.AddBreak(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, br)
}

func (h *BookingHandler) UpdateBreak(c *gin.Context) {
	var req models.BreakRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	br, err := h.svc.UpdateBreak(c.Request.Context(), c.Param("id"), c.Param("breakId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, br)
}

func (h *BookingHandler) DeleteBreak(c *gin.Context) {
	if err := h.svc.DeleteBreak(c.Request.Context(), c.Param("id"), c.Param("breakId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) SetHoliday(c *gin.Context) {
	var req models.HolidayRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.svc.SetHoliday(c.Request.Context(), c.Param("id"), req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) RemoveHoliday(c *gin.Context) {
	if err := h.svc.RemoveHoliday(c.Request.Context(), c.Param("id"), c.Param("date")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
