package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/config"
	"github.com/mamadbah2/salonpos/internal/repository/memory"
	"github.com/mamadbah2/salonpos/internal/repository/mongodb"
	"github.com/mamadbah2/salonpos/internal/repository/redislock"
	"github.com/mamadbah2/salonpos/internal/repository/sheets"
	"github.com/mamadbah2/salonpos/internal/scheduler"
	"github.com/mamadbah2/salonpos/internal/scheduling"
	"github.com/mamadbah2/salonpos/internal/server/handlers"
	"github.com/mamadbah2/salonpos/internal/server/router"
	"github.com/mamadbah2/salonpos/internal/service/booking"
	"github.com/mamadbah2/salonpos/internal/service/clients"
	"github.com/mamadbah2/salonpos/internal/service/notifications"
	"github.com/mamadbah2/salonpos/internal/service/pos"
	"github.com/mamadbah2/salonpos/internal/service/reporting"
	whatsappclient "github.com/mamadbah2/salonpos/pkg/clients/whatsapp"
	"github.com/mamadbah2/salonpos/pkg/logger"
)

const lockWait = 3 * time.Second

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.NewWithLevel(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Salon.Location()
	if err != nil {
		baseLogger.Fatal("invalid salon time zone", zap.Error(err))
	}

	ctx := context.Background()

	mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()
	if err := mongoRepo.EnsureIndexes(ctx); err != nil {
		baseLogger.Fatal("failed to create mongodb indexes", zap.Error(err))
	}

	var locker booking.Locker
	redisClient, err := redislock.NewClient(ctx, cfg.Redis)
	if err != nil {
		// Single-instance deployments can run without Redis.
		baseLogger.Warn("redis unavailable, using in-process booking locks", zap.Error(err))
		locker = memory.NewLocker(lockWait)
	} else {
		defer func() { _ = redisClient.Close() }()
		locker = redislock.New(redisClient, cfg.Redis.LockTTL, lockWait, baseLogger.Named("repo.redislock"))
	}

	var whatsClient whatsappclient.Client = notifications.NewLogClient(baseLogger.Named("clients.whatsapp.log"))
	if cfg.WhatsApp.Enabled {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
	} else {
		baseLogger.Warn("whatsapp disabled, client messages are only logged")
	}
	messagingSvc := notifications.NewMetaWhatsAppService(cfg.WhatsApp, cfg.Salon, whatsClient, baseLogger.Named("svc.notifications"))

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled {
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	} else {
		baseLogger.Warn("google sheets export disabled")
	}

	settings := gridSettings(cfg.Salon, loc)

	bookingSvc := booking.NewService(mongoRepo, locker, messagingSvc, settings, baseLogger.Named("svc.booking"))
	posSvc := pos.NewService(mongoRepo, cfg.Salon, baseLogger.Named("svc.pos"))
	clientSvc := clients.NewService(mongoRepo, baseLogger.Named("svc.clients"))
	reportingSvc := reporting.NewService(mongoRepo, sheetsRepo, cfg.Sheets.SalesRange, loc, baseLogger.Named("svc.reporting"))
	reminders := notifications.NewReminders(mongoRepo, messagingSvc, baseLogger.Named("svc.reminders"))

	engine := router.New(router.Handlers{
		Webhook: handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.webhook")),
		Booking: handlers.NewBookingHandler(bookingSvc, loc, baseLogger.Named("handlers.booking")),
		POS:     handlers.NewPOSHandler(posSvc, baseLogger.Named("handlers.pos")),
		Clients: handlers.NewClientHandler(clientSvc, baseLogger.Named("handlers.clients")),
		Reports: handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Scheduler, loc, reminders, reportingSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("salon", cfg.Salon.Name))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-sigCtx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func gridSettings(salon config.SalonConfig, loc *time.Location) scheduling.Settings {
	return scheduling.Settings{
		Location:            loc,
		BusinessStartHour:   salon.BusinessStartHour,
		BusinessEndHour:     salon.BusinessEndHour,
		SlotMinutes:         salon.SlotMinutes,
		SlotHeight:          salon.SlotHeight,
		HeaderOffsetMinutes: salon.HeaderOffsetMinutes,
		BreakWindowMinutes:  salon.BreakWindowMinutes,
	}
}
