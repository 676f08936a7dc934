package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
)

// InsertClient stores a new client.
func (r *MongoDBRepository) InsertClient(ctx context.Context, c models.Client) error {
	return insert(ctx, r.coll(clientsColl), c)
}

// GetClient loads one client.
func (r *MongoDBRepository) GetClient(ctx context.Context, id string) (models.Client, error) {
	return findOne[models.Client](ctx, r.coll(clientsColl), bson.M{"_id": id})
}

// FindClientByPhone looks a client up by phone number.
func (r *MongoDBRepository) FindClientByPhone(ctx context.Context, phone string) (models.Client, error) {
	return findOne[models.Client](ctx, r.coll(clientsColl), bson.M{"phone": phone})
}

// ListClients returns clients whose name or phone contains search.
func (r *MongoDBRepository) ListClients(ctx context.Context, search string, limit int) ([]models.Client, error) {
	filter := bson.M{}
	if search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = bson.A{bson.M{"full_name": pattern}, bson.M{"phone": pattern}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "full_name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findMany[models.Client](ctx, r.coll(clientsColl), filter, opts)
}

// ApplyOrderToClient adds an order's effect to the client's running totals.
func (r *MongoDBRepository) ApplyOrderToClient(ctx context.Context, clientID string, spent, pending int64, visit time.Time) error {
	update := bson.M{
		"$inc": bson.M{"total_spent_paise": spent, "pending_payment_paise": pending, "appointment_count": 1},
		"$set": bson.M{"last_visit": visit},
	}
	return updateByID(ctx, r.coll(clientsColl), clientID, update)
}

// AdjustClientBalance shifts the client's running totals without counting a visit.
func (r *MongoDBRepository) AdjustClientBalance(ctx context.Context, clientID string, spent, pending int64) error {
	update := bson.M{"$inc": bson.M{"total_spent_paise": spent, "pending_payment_paise": pending}}
	return updateByID(ctx, r.coll(clientsColl), clientID, update)
}

// SettlePending moves amount paise from the client's pending balance to total spent.
// The write only happens if the balance still covers amount.
func (r *MongoDBRepository) SettlePending(ctx context.Context, clientID string, amount int64) error {
	filter := bson.M{"_id": clientID, "pending_payment_paise": bson.M{"$gte": amount}}
	update := bson.M{"$inc": bson.M{"pending_payment_paise": -amount, "total_spent_paise": amount}}

	res, err := r.coll(clientsColl).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("settle pending for %s: %w", clientID, err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetClient(ctx, clientID); err != nil {
			return err
		}
		return repository.ErrInsufficientPending
	}
	return nil
}

// InsertPendingPayment records a BNPL settlement.
func (r *MongoDBRepository) InsertPendingPayment(ctx context.Context, rec models.PendingPaymentRecord) error {
	return insert(ctx, r.coll(pendingPaymentsColl), rec)
}

// ListPendingPayments returns a client's settlements, newest first.
func (r *MongoDBRepository) ListPendingPayments(ctx context.Context, clientID string) ([]models.PendingPaymentRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "payment_date", Value: -1}})
	return findMany[models.PendingPaymentRecord](ctx, r.coll(pendingPaymentsColl), bson.M{"client_id": clientID}, opts)
}
