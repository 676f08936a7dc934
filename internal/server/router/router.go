package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Webhook *handlers.WebhookHandler
	Booking *handlers.BookingHandler
	POS     *handlers.POSHandler
	Clients *handlers.ClientHandler
	Reports *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/webhook", h.Webhook.Verify)
	r.POST("/webhook", h.Webhook.Receive)
	r.POST("/send-message", h.Webhook.SendMessage)

	api := r.Group("/api")

	api.GET("/day-view", h.Booking.DayView)

	appts := api.Group("/appointments")
	appts.GET("", h.Booking.ListAppointments)
	appts.POST("", h.Booking.CreateAppointment)
	appts.GET("/:id", h.Booking.GetAppointment)
	appts.PUT("/:id", h.Booking.UpdateAppointment)
	appts.POST("/:id/move", h.Booking.MoveAppointment)
	appts.POST("/:id/cancel", h.Booking.CancelAppointment)
	appts.POST("/:id/complete", h.Booking.CompleteAppointment)

	stylists := api.Group("/stylists")
	stylists.GET("", h.Booking.ListStylists)
	stylists.POST("", h.Booking.CreateStylist)
	stylists.PUT("/:id/availability", h.Booking.SetAvailability)
	stylists.POST("/:id/breaks", h.Booking.AddBreak)
	stylists.PUT("/:id/breaks/:breakId", h.Booking.UpdateBreak)
	stylists.DELETE("/:id/breaks/:breakId", h.Booking.DeleteBreak)
	stylists.POST("/:id/holidays", h.Booking.SetHoliday)
	stylists.DELETE("/:id/holidays/:date", h.Booking.RemoveHoliday)

	orders := api.Group("/orders")
	orders.POST("", h.POS.CreateOrder)
	orders.GET("", h.POS.ListOrders)
	orders.POST("/quote", h.POS.QuoteOrder)
	orders.GET("/:id", h.POS.GetOrder)
	orders.POST("/:id/payments", h.POS.AddPayment)
	orders.POST("/:id/cancel", h.POS.CancelOrder)
	orders.GET("/:id/receipt", h.POS.Receipt)

	api.POST("/payments/split/validate", h.POS.ValidateSplit)
	api.POST("/payments/split/distribute", h.POS.DistributeSplit)

	api.POST("/purchases", h.POS.RecordPurchase)
	api.GET("/purchases", h.POS.ListPurchases)
	api.POST("/purchases/preview", h.POS.PreviewPurchase)

	clients := api.Group("/clients")
	clients.GET("", h.Clients.List)
	clients.POST("", h.Clients.Create)
	clients.POST("/import", h.Clients.Import)
	clients.GET("/:id", h.Clients.Get)
	clients.POST("/:id/pending-payments", h.POS.SettlePending)
	clients.GET("/:id/pending-payments", h.POS.PendingPayments)

	api.POST("/reports/daily", h.Reports.Daily)

	logger.Info("router initialized", zap.Int("routes", len(r.Routes())))

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
