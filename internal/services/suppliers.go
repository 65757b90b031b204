package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

type SupplierInput struct {
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Certification string `json:"certification"`
	Location      string `json:"location"`
	Specialty     string `json:"specialty"`
}

type SupplierPatch struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Certification *string `json:"certification"`
	Location      *string `json:"location"`
	Specialty     *string `json:"specialty"`
}

type SupplierService struct {
	suppliers SupplierStore
	log       *zap.Logger
	now       func() time.Time
}

func NewSupplierService(suppliers SupplierStore, log *zap.Logger) *SupplierService {
	return &SupplierService{suppliers: suppliers, log: log.Named("suppliers"), now: time.Now}
}

func (s *SupplierService) List(ctx context.Context) ([]models.Supplier, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if suppliers == nil {
		suppliers = []models.Supplier{}
	}
	return suppliers, nil
}

func (s *SupplierService) Get(ctx context.Context, rawID string) (*models.Supplier, error) {
	id, err := parseObjectID(rawID, "supplier id")
	if err != nil {
		return nil, err
	}
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "supplier not found")
	}
	return supplier, nil
}

func (s *SupplierService) Create(ctx context.Context, owner primitive.ObjectID, in SupplierInput) (*models.Supplier, error) {
	now := s.now()
	supplier := &models.Supplier{
		Name:          strings.TrimSpace(in.Name),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         models.NormalizeEmail(in.Email),
		Certification: strings.TrimSpace(in.Certification),
		Location:      strings.TrimSpace(in.Location),
		Specialty:     strings.TrimSpace(in.Specialty),
		User:          owner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if supplier.Name == "" || supplier.Phone == "" || supplier.Email == "" {
		return nil, apperr.BadRequest("name, phone and email are required")
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("supplier created", zap.String("supplierId", supplier.ID.Hex()))
	return supplier, nil
}

func (s *SupplierService) Update(ctx context.Context, rawID string, in SupplierPatch) (*models.Supplier, error) {
	id, err := parseObjectID(rawID, "supplier id")
	if err != nil {
		return nil, err
	}
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "supplier not found")
	}

	required := func(field string, value *string, dst *string) error {
		if value == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*value)
		if trimmed == "" {
			return apperr.BadRequest(field + " cannot be empty")
		}
		*dst = trimmed
		return nil
	}
	if err := required("name", in.Name, &supplier.Name); err != nil {
		return nil, err
	}
	if err := required("phone", in.Phone, &supplier.Phone); err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := models.NormalizeEmail(*in.Email)
		if email == "" {
			return nil, apperr.BadRequest("email cannot be empty")
		}
		supplier.Email = email
	}
	if in.Certification != nil {
		supplier.Certification = strings.TrimSpace(*in.Certification)
	}
	if in.Location != nil {
		supplier.Location = strings.TrimSpace(*in.Location)
	}
	if in.Specialty != nil {
		supplier.Specialty = strings.TrimSpace(*in.Specialty)
	}
	supplier.UpdatedAt = s.now()

	if err := s.suppliers.Replace(ctx, supplier); err != nil {
		return nil, lookupError(err, "supplier not found")
	}
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, rawID string) error {
	id, err := parseObjectID(rawID, "supplier id")
	if err != nil {
		return err
	}
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return lookupError(err, "supplier not found")
	}
	s.log.Info("supplier deleted", zap.String("supplierId", id.Hex()))
	return nil
}
