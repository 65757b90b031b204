package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func indexPlan() []collectionIndexes {
	return []collectionIndexes{
		{
			collection: "users",
			models: []mongo.IndexModel{{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_unique").SetUnique(true),
			}},
		},
		{
			collection: "products",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "sku", Value: 1}},
					Options: options.Index().SetName("sku_unique").SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}},
					Options: options.Index().SetName("category_price"),
				},
			},
		},
		{
			collection: "carts",
			models: []mongo.IndexModel{
				{
					Keys: bson.D{{Key: "user", Value: 1}},
					Options: options.Index().
						SetName("user_unique").
						SetUnique(true).
						SetPartialFilterExpression(bson.M{"user": bson.M{"$exists": true}}),
				},
				{
					Keys: bson.D{{Key: "guestId", Value: 1}},
					Options: options.Index().
						SetName("guestId_unique").
						SetUnique(true).
						SetPartialFilterExpression(bson.M{"guestId": bson.M{"$exists": true}}),
				},
			},
		},
		{
			collection: "appointments",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
					Options: options.Index().SetName("user_createdAt"),
				},
				{
					Keys:    bson.D{{Key: "status", Value: 1}},
					Options: options.Index().SetName("status_index"),
				},
			},
		},
		{
			collection: "consultations",
			models: []mongo.IndexModel{{
				Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("user_createdAt"),
			}},
		},
	}
}

// EnsureIndexes creates every index the stores rely on. A failing
// collection is logged and the remaining ones are still attempted; the first
// error is returned.
func EnsureIndexes(db *mongo.Database, log *zap.Logger) error {
	var firstErr error
	for _, plan := range indexPlan() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		names, err := db.Collection(plan.collection).Indexes().CreateMany(ctx, plan.models)
		cancel()
		if err != nil {
			log.Warn("index creation failed", zap.String("collection", plan.collection), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Info("indexes ensured", zap.String("collection", plan.collection), zap.Strings("names", names))
	}
	return firstErr
}
