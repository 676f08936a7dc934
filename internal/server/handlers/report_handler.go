package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/service/reporting"
)

// ReportHandler triggers the daily sales summary on demand.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

type dailyReportRequest struct {
	Date string `json:"date"`
	Sync bool   `json:"sync"`
}

// Daily builds the summary for {"date": "YYYY-MM-DD"}. With "sync" the
// day's orders are also exported to the sales sheet.
func (h *ReportHandler) Daily(c *gin.Context) {
	var req dailyReportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	day, err := h.svc.ParseDay(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	if req.Sync {
		report, err := h.svc.CloseDay(c.Request.Context(), day)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}

	report, err := h.svc.DailySummary(c.Request.Context(), day)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
