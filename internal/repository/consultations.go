package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaffira/internal/models"
)

type ConsultationRepository struct {
	coll *mongo.Collection
}

func NewConsultationRepository(db *mongo.Database) *ConsultationRepository {
	return &ConsultationRepository{coll: db.Collection(consultationsCollection)}
}

func (r *ConsultationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Consultation, error) {
	return findOne[models.Consultation](ctx, r.coll, bson.M{"_id": id})
}

func (r *ConsultationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Consultation, error) {
	return findAll[models.Consultation](ctx, r.coll, bson.M{"user": userID}, options.Find().SetSort(newestFirst))
}

func (r *ConsultationRepository) List(ctx context.Context, status string) ([]models.Consultation, error) {
	return findAll[models.Consultation](ctx, r.coll, statusFilter(status), options.Find().SetSort(newestFirst))
}

func (r *ConsultationRepository) Create(ctx context.Context, consultation *models.Consultation) error {
	id, err := insert(ctx, r.coll, consultation)
	if err != nil {
		return err
	}
	consultation.ID = id
	return nil
}

func (r *ConsultationRepository) Replace(ctx context.Context, consultation *models.Consultation) error {
	return replaceByID(ctx, r.coll, consultation.ID, consultation)
}

func (r *ConsultationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *ConsultationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.coll)
}
