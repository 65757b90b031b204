package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaffira/internal/models"
)

type SupplierRepository struct {
	coll *mongo.Collection
}

func NewSupplierRepository(db *mongo.Database) *SupplierRepository {
	return &SupplierRepository{coll: db.Collection(suppliersCollection)}
}

func (r *SupplierRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	return findOne[models.Supplier](ctx, r.coll, bson.M{"_id": id})
}

func (r *SupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	return findAll[models.Supplier](ctx, r.coll, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	id, err := insert(ctx, r.coll, supplier)
	if err != nil {
		return err
	}
	supplier.ID = id
	return nil
}

func (r *SupplierRepository) Replace(ctx context.Context, supplier *models.Supplier) error {
	return replaceByID(ctx, r.coll, supplier.ID, supplier)
}

func (r *SupplierRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *SupplierRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.coll)
}
