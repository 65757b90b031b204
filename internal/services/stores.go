package services

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"zaffira/internal/models"
)

// The stores below are implemented over MongoDB in internal/repository.
// Lookups return models.ErrNotFound when nothing matches and inserts return
// models.ErrDuplicate on a unique index violation. Replace-style writes are
// last-write-wins: no revision is checked.

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Replace(ctx context.Context, user *models.User) error
	List(ctx context.Context, skip, limit int64) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, filter CatalogFilter) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Replace(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type SupplierStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Supplier, error)
	List(ctx context.Context) ([]models.Supplier, error)
	Create(ctx context.Context, supplier *models.Supplier) error
	Replace(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type CartStore interface {
	FindByOwner(ctx context.Context, key CartKey) (*models.Cart, error)
	// Save inserts the cart when its ID is zero and replaces it otherwise.
	Save(ctx context.Context, cart *models.Cart) error
}

type AppointmentStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Appointment, error)
	List(ctx context.Context, status string) ([]models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	Replace(ctx context.Context, appointment *models.Appointment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type ConsultationStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Consultation, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Consultation, error)
	List(ctx context.Context, status string) ([]models.Consultation, error)
	Create(ctx context.Context, consultation *models.Consultation) error
	Replace(ctx context.Context, consultation *models.Consultation) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ResetCodeSender delivers a password reset code to a mailbox.
type ResetCodeSender interface {
	SendResetCode(ctx context.Context, to, code string) error
}

// CatalogCache stores encoded product listings. Misses and cache failures
// look the same to callers.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	Invalidate(ctx context.Context)
}

// ImageStore persists uploaded images and returns the url clients use.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}
