package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

var byStart = options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

// InsertAppointment stores a new appointment.
func (r *MongoDBRepository) InsertAppointment(ctx context.Context, a models.Appointment) error {
	return insert(ctx, r.coll(appointmentsColl), a)
}

// UpdateAppointment replaces a stored appointment.
func (r *MongoDBRepository) UpdateAppointment(ctx context.Context, a models.Appointment) error {
	return replaceByID(ctx, r.coll(appointmentsColl), a.ID, a)
}

// GetAppointment loads one appointment.
func (r *MongoDBRepository) GetAppointment(ctx context.Context, id string) (models.Appointment, error) {
	return findOne[models.Appointment](ctx, r.coll(appointmentsColl), bson.M{"_id": id})
}

// ListAppointments returns appointments starting in [from, to).
func (r *MongoDBRepository) ListAppointments(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	filter := bson.M{"start_time": bson.M{"$gte": from, "$lt": to}}
	return findMany[models.Appointment](ctx, r.coll(appointmentsColl), filter, byStart)
}

// ListStylistAppointments returns the stylist's appointments starting in [from, to),
// whether they are the primary stylist or one of several.
func (r *MongoDBRepository) ListStylistAppointments(ctx context.Context, stylistID string, from, to time.Time) ([]models.Appointment, error) {
	filter := bson.M{
		"start_time": bson.M{"$gte": from, "$lt": to},
		"$or": bson.A{
			bson.M{"stylist_id": stylistID},
			bson.M{"stylist_ids": stylistID},
		},
	}
	return findMany[models.Appointment](ctx, r.coll(appointmentsColl), filter, byStart)
}
