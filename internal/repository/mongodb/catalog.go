package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

// InsertService stores a bookable service.
func (r *MongoDBRepository) InsertService(ctx context.Context, s models.Service) error {
	return insert(ctx, r.coll(servicesColl), s)
}

// GetService loads one service.
func (r *MongoDBRepository) GetService(ctx context.Context, id string) (models.Service, error) {
	return findOne[models.Service](ctx, r.coll(servicesColl), bson.M{"_id": id})
}

// ListServices returns the service catalogue.
func (r *MongoDBRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	return findMany[models.Service](ctx, r.coll(servicesColl), bson.M{}, byName)
}

// InsertProduct stores a stock item.
func (r *MongoDBRepository) InsertProduct(ctx context.Context, p models.Product) error {
	return insert(ctx, r.coll(productsColl), p)
}

// GetProduct loads one product.
func (r *MongoDBRepository) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return findOne[models.Product](ctx, r.coll(productsColl), bson.M{"_id": id})
}

// ListProducts returns every product.
func (r *MongoDBRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	return findMany[models.Product](ctx, r.coll(productsColl), bson.M{}, byName)
}

// AdjustStock adds delta (which may be negative) to the product's stock.
func (r *MongoDBRepository) AdjustStock(ctx context.Context, productID string, delta int) error {
	return updateByID(ctx, r.coll(productsColl), productID, bson.M{"$inc": bson.M{"stock_quantity": delta}})
}
