package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/salonpos/internal/repository"
)

const (
	appointmentsColl    = "appointments"
	stylistsColl        = "stylists"
	clientsColl         = "clients"
	servicesColl        = "services"
	productsColl        = "products"
	ordersColl          = "pos_orders"
	purchasesColl       = "purchases"
	pendingPaymentsColl = "pending_payment_history"
	remindersColl       = "reminder_log"
	reportsColl         = "daily_reports"
)

// MongoDBRepository stores every salon collection in one MongoDB database.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// EnsureIndexes creates the indexes the queries rely on.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		appointmentsColl: {
			{Keys: bson.D{{Key: "stylist_id", Value: 1}, {Key: "start_time", Value: 1}}},
			{Keys: bson.D{{Key: "stylist_ids", Value: 1}, {Key: "start_time", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_time", Value: 1}}},
		},
		clientsColl: {
			{Keys: bson.D{{Key: "phone", Value: 1}}},
		},
		ordersColl: {
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "appointment_id", Value: 1}}},
		},
		remindersColl: {
			{
				Keys:    bson.D{{Key: "appointment_id", Value: 1}, {Key: "client_id", Value: 1}, {Key: "reminder_type", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		reportsColl: {
			{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for coll, idx := range indexes {
		if _, err := r.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) coll(name string) *mongo.Collection {
	return r.db.Collection(name)
}

func findOne[T any](ctx context.Context, c *mongo.Collection, filter interface{}) (T, error) {
	var out T
	err := c.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, repository.ErrNotFound
	}
	if err != nil {
		return out, fmt.Errorf("find one in %s: %w", c.Name(), err)
	}
	return out, nil
}

func findMany[T any](ctx context.Context, c *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Name(), err)
	}
	return out, nil
}

func replaceByID(ctx context.Context, c *mongo.Collection, id string, doc interface{}) error {
	res, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("replace in %s: %w", c.Name(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func updateByID(ctx context.Context, c *mongo.Collection, id string, update interface{}) error {
	res, err := c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update in %s: %w", c.Name(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func insert(ctx context.Context, c *mongo.Collection, doc interface{}) error {
	if _, err := c.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert into %s: %w", c.Name(), err)
	}
	return nil
}
