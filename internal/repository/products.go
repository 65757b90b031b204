package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaffira/internal/models"
	"zaffira/internal/services"
)

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(productsCollection)}
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return findOne[models.Product](ctx, r.coll, bson.M{"_id": id})
}

func (r *ProductRepository) List(ctx context.Context, filter services.CatalogFilter) ([]models.Product, error) {
	opts := options.Find()
	if sort := filter.MongoSort(); sort != nil {
		opts.SetSort(sort)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	return findAll[models.Product](ctx, r.coll, filter.MongoFilter(), opts)
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	id, err := insert(ctx, r.coll, product)
	if err != nil {
		return err
	}
	product.ID = id
	return nil
}

func (r *ProductRepository) Replace(ctx context.Context, product *models.Product) error {
	return replaceByID(ctx, r.coll, product.ID, product)
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.coll)
}
