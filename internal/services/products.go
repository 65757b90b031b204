package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

type ProductInput struct {
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description"`
	Price         float64               `json:"price" binding:"gte=0"`
	DiscountPrice *float64              `json:"discountPrice"`
	CountInStock  int                   `json:"countInStock" binding:"gte=0"`
	SKU           string                `json:"sku" binding:"required"`
	Category      string                `json:"category" binding:"required"`
	Collections   string                `json:"collections"`
	Images        []models.ProductImage `json:"images"`
	IsFeatured    bool                  `json:"isFeatured"`
	IsPublished   bool                  `json:"isPublished"`
	Tags          models.StringList     `json:"tags"`
	Supplier      string                `json:"supplier"`
}

// ProductPatch is a partial update; nil fields are left as they are.
// ClearDiscount removes an existing discount.
type ProductPatch struct {
	Name          *string                `json:"name"`
	Description   *string                `json:"description"`
	Price         *float64               `json:"price" binding:"omitempty,gte=0"`
	DiscountPrice *float64               `json:"discountPrice"`
	ClearDiscount bool                   `json:"clearDiscount"`
	CountInStock  *int                   `json:"countInStock" binding:"omitempty,gte=0"`
	SKU           *string                `json:"sku"`
	Category      *string                `json:"category"`
	Collections   *string                `json:"collections"`
	Images        *[]models.ProductImage `json:"images"`
	IsFeatured    *bool                  `json:"isFeatured"`
	IsPublished   *bool                  `json:"isPublished"`
	Tags          *models.StringList     `json:"tags"`
	Supplier      *string                `json:"supplier"`
}

type ProductService struct {
	products ProductStore
	cache    CatalogCache
	images   ImageStore
	log      *zap.Logger
	now      func() time.Time
}

func NewProductService(products ProductStore, cache CatalogCache, images ImageStore, log *zap.Logger) *ProductService {
	return &ProductService{
		products: products,
		cache:    cache,
		images:   images,
		log:      log.Named("catalog"),
		now:      time.Now,
	}
}

// List answers a catalog query, from the cache when an identical query was
// answered since the last catalog write.
func (s *ProductService) List(ctx context.Context, params CatalogParams) ([]models.Product, error) {
	filter, err := ParseCatalogParams(params)
	if err != nil {
		return nil, err
	}

	key := filter.CacheKey()
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached []models.Product
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		s.log.Warn("discarding unreadable catalog cache entry", zap.String("key", key))
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if products == nil {
		products = []models.Product{}
	}
	for i := range products {
		decorateProduct(&products[i])
	}

	if raw, err := json.Marshal(products); err == nil {
		s.cache.Set(ctx, key, raw)
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := parseObjectID(rawID, "product id")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "product not found")
	}
	decorateProduct(product)
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, owner primitive.ObjectID, in ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	sku := strings.TrimSpace(in.SKU)
	if name == "" || sku == "" {
		return nil, apperr.BadRequest("name and sku are required")
	}
	if in.Price < 0 || in.CountInStock < 0 {
		return nil, apperr.BadRequest("price and countInStock must not be negative")
	}
	if err := validateDiscount(in.Price, in.DiscountPrice); err != nil {
		return nil, err
	}
	supplier, err := optionalObjectID(in.Supplier, "supplier id")
	if err != nil {
		return nil, err
	}

	now := s.now()
	product := &models.Product{
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		CountInStock:  in.CountInStock,
		SKU:           sku,
		Category:      strings.TrimSpace(in.Category),
		Collections:   strings.TrimSpace(in.Collections),
		Images:        in.Images,
		IsFeatured:    in.IsFeatured,
		IsPublished:   in.IsPublished,
		Tags:          in.Tags,
		User:          owner,
		Supplier:      supplier,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if product.Images == nil {
		product.Images = []models.ProductImage{}
	}
	if product.Tags == nil {
		product.Tags = models.StringList{}
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, productWriteError(err)
	}
	s.cache.Invalidate(ctx)
	s.log.Info("product created", zap.String("productId", product.ID.Hex()), zap.String("sku", sku))
	decorateProduct(product)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, rawID string, in ProductPatch) (*models.Product, error) {
	id, err := parseObjectID(rawID, "product id")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "product not found")
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.BadRequest("name cannot be empty")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.BadRequest("price must not be negative")
		}
		product.Price = *in.Price
	}
	if in.ClearDiscount {
		product.DiscountPrice = nil
	}
	if in.DiscountPrice != nil {
		discount := *in.DiscountPrice
		product.DiscountPrice = &discount
	}
	if in.CountInStock != nil {
		if *in.CountInStock < 0 {
			return nil, apperr.BadRequest("countInStock must not be negative")
		}
		product.CountInStock = *in.CountInStock
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, apperr.BadRequest("sku cannot be empty")
		}
		product.SKU = sku
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Collections != nil {
		product.Collections = strings.TrimSpace(*in.Collections)
	}
	if in.Images != nil {
		product.Images = *in.Images
	}
	if in.IsFeatured != nil {
		product.IsFeatured = *in.IsFeatured
	}
	if in.IsPublished != nil {
		product.IsPublished = *in.IsPublished
	}
	if in.Tags != nil {
		product.Tags = *in.Tags
	}
	if in.Supplier != nil {
		supplier, err := optionalObjectID(*in.Supplier, "supplier id")
		if err != nil {
			return nil, err
		}
		product.Supplier = supplier
	}

	// Validated against the final price so a price cut cannot leave a
	// discount above it.
	if err := validateDiscount(product.Price, product.DiscountPrice); err != nil {
		return nil, err
	}

	product.UpdatedAt = s.now()
	if err := s.products.Replace(ctx, product); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, productWriteError(err)
	}
	s.cache.Invalidate(ctx)
	decorateProduct(product)
	return product, nil
}

// Delete removes the product and then its stored images. Image removal is
// best-effort.
func (s *ProductService) Delete(ctx context.Context, rawID string) error {
	id, err := parseObjectID(rawID, "product id")
	if err != nil {
		return err
	}
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "product not found")
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return lookupError(err, "product not found")
	}
	s.cache.Invalidate(ctx)

	for _, image := range product.Images {
		if err := s.images.Delete(ctx, image.URL); err != nil {
			s.log.Warn("product image cleanup failed",
				zap.String("productId", id.Hex()),
				zap.String("url", image.URL),
				zap.Error(err),
			)
		}
	}
	s.log.Info("product deleted", zap.String("productId", id.Hex()))
	return nil
}

func productWriteError(err error) error {
	if errors.Is(err, models.ErrDuplicate) {
		return apperr.Conflict("a product with this sku already exists")
	}
	return apperr.Internal(err)
}

// optionalObjectID treats a blank value as "not set".
func optionalObjectID(raw, field string) (*primitive.ObjectID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseObjectID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
