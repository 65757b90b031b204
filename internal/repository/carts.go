package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"zaffira/internal/models"
	"zaffira/internal/services"
)

type CartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{coll: db.Collection(cartsCollection)}
}

// ownerFilter expects a normalized key.
func ownerFilter(key services.CartKey) bson.M {
	if key.UserID != nil {
		return bson.M{"user": *key.UserID}
	}
	return bson.M{"guestId": key.GuestID}
}

func (r *CartRepository) FindByOwner(ctx context.Context, key services.CartKey) (*models.Cart, error) {
	cart, err := findOne[models.Cart](ctx, r.coll, ownerFilter(key))
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.LineItem{}
	}
	return cart, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	if cart.ID.IsZero() {
		id, err := insert(ctx, r.coll, cart)
		if err != nil {
			return err
		}
		cart.ID = id
		return nil
	}
	return replaceByID(ctx, r.coll, cart.ID, cart)
}
