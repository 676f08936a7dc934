package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/config"
	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/service/notifications"
)

const (
	reminderTimeout = 2 * time.Minute
	salesTimeout    = 5 * time.Minute
)

// ReminderSender sends the due appointment reminders.
type ReminderSender interface {
	Send(ctx context.Context) (notifications.ReminderSummary, error)
}

// DayCloser exports and summarizes a business day.
type DayCloser interface {
	CloseDay(ctx context.Context, day time.Time) (models.DailySalesReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	reminders ReminderSender
	reporting DayCloser
	cfg       config.SchedulerConfig
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. Jobs run in the salon time zone.
func NewScheduler(cfg config.SchedulerConfig, loc *time.Location, reminders ReminderSender, reporting DayCloser, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reminders: reminders,
		reporting: reporting,
		cfg:       cfg,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("reminder_cron", s.cfg.ReminderCron),
		zap.String("sales_sync_cron", s.cfg.SalesSyncCron))

	if _, err := s.cron.AddFunc(s.cfg.ReminderCron, s.sendReminders); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", s.cfg.ReminderCron, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.SalesSyncCron, s.closeDay); err != nil {
		return fmt.Errorf("schedule sales sync %q: %w", s.cfg.SalesSyncCron, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), reminderTimeout)
	defer cancel()

	summary, err := s.reminders.Send(ctx)
	if err != nil {
		s.logger.Error("reminder sweep failed", zap.Error(err))
		return
	}
	if summary.Sent+summary.Failed > 0 {
		s.logger.Info("reminder sweep finished",
			zap.Int("sent", summary.Sent),
			zap.Int("skipped", summary.Skipped),
			zap.Int("failed", summary.Failed))
	}
}

func (s *Scheduler) closeDay() {
	s.logger.Info("closing sales day")
	ctx, cancel := context.WithTimeout(context.Background(), salesTimeout)
	defer cancel()

	report, err := s.reporting.CloseDay(ctx, s.now().In(s.loc))
	if err != nil {
		s.logger.Error("failed to close sales day", zap.Error(err))
		return
	}
	s.logger.Info("sales day closed",
		zap.Int("orders", report.OrderCount),
		zap.Int("synced_rows", report.SyncedRows))
}
