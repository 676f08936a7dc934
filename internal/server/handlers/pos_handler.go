package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/service/pos"
)

// POSHandler exposes orders, payments and stock purchases.
type POSHandler struct {
	svc    *pos.Service
	logger *zap.Logger
}

// NewPOSHandler constructs the POS HTTP adapter.
func NewPOSHandler(svc *pos.Service, logger *zap.Logger) *POSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &POSHandler{svc: svc, logger: logger}
}

func (h *POSHandler) CreateOrder(c *gin.Context) {
	var req models.OrderRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	order, err := h.svc.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// QuoteOrder prices a cart without storing it.
func (h *POSHandler) QuoteOrder(c *gin.Context) {
	var req models.OrderRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	q, err := h.svc.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// ListOrders returns orders for ?from=&to= (inclusive dates, default today).
func (h *POSHandler) ListOrders(c *gin.Context) {
	from, to, ok := dayRange(c, h.svc.Location())
	if !ok {
		return
	}
	orders, err := h.svc.ListOrders(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *POSHandler) GetOrder(c *gin.Context) {
	order, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *POSHandler) AddPayment(c *gin.Context) {
	var req models.AddPaymentRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	order, err := h.svc.AddPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *POSHandler) CancelOrder(c *gin.Context) {
	order, err := h.svc.CancelOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *POSHandler) Receipt(c *gin.Context) {
	id := c.Param("id")
	pdf, err := h.svc.Receipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *POSHandler) ValidateSplit(c *gin.Context) {
	var req pos.SplitRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	res, err := h.svc.ValidateSplit(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *POSHandler) DistributeSplit(c *gin.Context) {
	var req pos.DistributeRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	dist, err := h.svc.Distribute(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dist)
}

func (h *POSHandler) SettlePending(c *gin.Context) {
	var req models.PendingPaymentRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}
	rec, err := h.svc.ProcessPendingPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *POSHandler) PendingPayments(c *gin.Context) {
	list, err := h.svc.PendingPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *POSHandler) RecordPurchase(c *gin.Context) {
	var in models.PurchaseInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	rec, err := h.svc.RecordPurchase(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *POSHandler) PreviewPurchase(c *gin.Context) {
	var in models.PurchaseInput
	if !bindJSON(c, h.logger, &in) {
		return
	}
	rec, err := h.svc.PreviewPurchase(in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *POSHandler) ListPurchases(c *gin.Context) {
	from, to, ok := dayRange(c, h.svc.Location())
	if !ok {
		return
	}
	list, err := h.svc.ListPurchases(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
