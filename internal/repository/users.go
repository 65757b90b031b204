package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaffira/internal/models"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"email": email})
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	id, err := insert(ctx, r.coll, user)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *UserRepository) Replace(ctx context.Context, user *models.User) error {
	return replaceByID(ctx, r.coll, user.ID, user)
}

// List returns users oldest first. The password hash is not loaded.
func (r *UserRepository) List(ctx context.Context, skip, limit int64) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetProjection(bson.M{"password": 0, "resetOTP": 0, "resetOTPExpiry": 0})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findAll[models.User](ctx, r.coll, bson.M{}, opts)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.coll)
}
