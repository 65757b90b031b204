package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaffira/internal/models"
)

type AppointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{coll: db.Collection(appointmentsCollection)}
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	return findOne[models.Appointment](ctx, r.coll, bson.M{"_id": id})
}

func (r *AppointmentRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Appointment, error) {
	return findAll[models.Appointment](ctx, r.coll, bson.M{"user": userID}, options.Find().SetSort(newestFirst))
}

func (r *AppointmentRepository) List(ctx context.Context, status string) ([]models.Appointment, error) {
	return findAll[models.Appointment](ctx, r.coll, statusFilter(status), options.Find().SetSort(newestFirst))
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	id, err := insert(ctx, r.coll, appointment)
	if err != nil {
		return err
	}
	appointment.ID = id
	return nil
}

func (r *AppointmentRepository) Replace(ctx context.Context, appointment *models.Appointment) error {
	return replaceByID(ctx, r.coll, appointment.ID, appointment)
}

func (r *AppointmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll, id)
}

func (r *AppointmentRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countByStatus(ctx, r.coll)
}
