package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

// InsertStylist stores a new stylist.
func (r *MongoDBRepository) InsertStylist(ctx context.Context, s models.Stylist) error {
	return insert(ctx, r.coll(stylistsColl), s)
}

// GetStylist loads one stylist with breaks and holidays.
func (r *MongoDBRepository) GetStylist(ctx context.Context, id string) (models.Stylist, error) {
	return findOne[models.Stylist](ctx, r.coll(stylistsColl), bson.M{"_id": id})
}

// ListStylists returns all stylists ordered by name.
func (r *MongoDBRepository) ListStylists(ctx context.Context) ([]models.Stylist, error) {
	return findMany[models.Stylist](ctx, r.coll(stylistsColl), bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// SaveBreaks replaces the stylist's break list.
func (r *MongoDBRepository) SaveBreaks(ctx context.Context, stylistID string, breaks []models.Break) error {
	if breaks == nil {
		breaks = []models.Break{}
	}
	return updateByID(ctx, r.coll(stylistsColl), stylistID, bson.M{"$set": bson.M{"breaks": breaks}})
}

// AddHoliday records a day off, replacing any entry for the same date.
func (r *MongoDBRepository) AddHoliday(ctx context.Context, stylistID string, h models.Holiday) error {
	if err := r.RemoveHoliday(ctx, stylistID, h.Date); err != nil {
		return err
	}
	return updateByID(ctx, r.coll(stylistsColl), stylistID, bson.M{"$push": bson.M{"holidays": h}})
}

// RemoveHoliday deletes the day off for date.
func (r *MongoDBRepository) RemoveHoliday(ctx context.Context, stylistID, date string) error {
	return updateByID(ctx, r.coll(stylistsColl), stylistID, bson.M{"$pull": bson.M{"holidays": bson.M{"date": date}}})
}

// SetStylistAvailability toggles whether the stylist can be booked at all.
func (r *MongoDBRepository) SetStylistAvailability(ctx context.Context, stylistID string, available bool) error {
	return updateByID(ctx, r.coll(stylistsColl), stylistID, bson.M{"$set": bson.M{"available": available}})
}
