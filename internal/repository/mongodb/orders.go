package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

// InsertOrder stores a new POS order.
func (r *MongoDBRepository) InsertOrder(ctx context.Context, o models.PosOrder) error {
	return insert(ctx, r.coll(ordersColl), o)
}

// GetOrder loads one order.
func (r *MongoDBRepository) GetOrder(ctx context.Context, id string) (models.PosOrder, error) {
	return findOne[models.PosOrder](ctx, r.coll(ordersColl), bson.M{"_id": id})
}

// UpdateOrder replaces a stored order.
func (r *MongoDBRepository) UpdateOrder(ctx context.Context, o models.PosOrder) error {
	return replaceByID(ctx, r.coll(ordersColl), o.ID, o)
}

// ListOrders returns orders created in [from, to), oldest first.
func (r *MongoDBRepository) ListOrders(ctx context.Context, from, to time.Time) ([]models.PosOrder, error) {
	filter := bson.M{"created_at": bson.M{"$gte": from, "$lt": to}}
	return findMany[models.PosOrder](ctx, r.coll(ordersColl), filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

// InsertPurchase stores a stock purchase.
func (r *MongoDBRepository) InsertPurchase(ctx context.Context, p models.PurchaseRecord) error {
	return insert(ctx, r.coll(purchasesColl), p)
}

// ListPurchases returns purchases dated in [from, to).
func (r *MongoDBRepository) ListPurchases(ctx context.Context, from, to time.Time) ([]models.PurchaseRecord, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lt": to}}
	return findMany[models.PurchaseRecord](ctx, r.coll(purchasesColl), filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}
