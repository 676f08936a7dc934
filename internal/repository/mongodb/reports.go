package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
)

// SaveDailyReport stores the day's summary, replacing an earlier run for the same date.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailySalesReport) error {
	_, err := r.coll(reportsColl).ReplaceOne(ctx, bson.M{"date": report.Date}, report, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily report: %w", err)
	}
	return nil
}

// HasReminder reports whether the client already got a reminder of the given type.
func (r *MongoDBRepository) HasReminder(ctx context.Context, appointmentID, clientID string, kind models.ReminderType) (bool, error) {
	filter := bson.M{"appointment_id": appointmentID, "client_id": clientID, "reminder_type": kind}
	_, err := findOne[models.ReminderLog](ctx, r.coll(remindersColl), filter)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertReminderLog records a sent reminder.
func (r *MongoDBRepository) InsertReminderLog(ctx context.Context, log models.ReminderLog) error {
	return insert(ctx, r.coll(remindersColl), log)
}
