package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

// CartKey identifies a cart by its owner. When both fields are set the user
// id wins.
type CartKey struct {
	UserID  *primitive.ObjectID
	GuestID string
}

// Normalize drops the guest id when a user id is present and rejects a key
// with neither.
func (k CartKey) Normalize() (CartKey, error) {
	if k.UserID != nil {
		return CartKey{UserID: k.UserID}, nil
	}
	guest := strings.TrimSpace(k.GuestID)
	if guest == "" {
		return CartKey{}, apperr.BadRequest("user or guestId is required")
	}
	return CartKey{GuestID: guest}, nil
}

func (k CartKey) String() string {
	if k.UserID != nil {
		return "user:" + k.UserID.Hex()
	}
	return "guest:" + k.GuestID
}

type AddItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
	GuestID   string `json:"guestId"`
}

type SetQuantityInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
	GuestID   string `json:"guestId"`
}

// RequestedQuantity returns the explicit quantity. A missing value is a bad
// request rather than zero, which would remove the line.
func (in SetQuantityInput) RequestedQuantity() (int, error) {
	if in.Quantity == nil {
		return 0, apperr.BadRequest("quantity is required")
	}
	return *in.Quantity, nil
}

type RemoveItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	GuestID   string `json:"guestId"`
}

// CartService keeps one cart per owner. Every mutation is a read, an
// in-memory change and a full replace of the document, so two concurrent
// writers to the same cart race and the later save wins.
type CartService struct {
	carts    CartStore
	products ProductStore
	log      *zap.Logger
	now      func() time.Time
}

func NewCartService(carts CartStore, products ProductStore, log *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, log: log.Named("cart"), now: time.Now}
}

// Get returns the owner's cart, or an unsaved empty cart when there is none.
func (s *CartService) Get(ctx context.Context, key CartKey) (*models.Cart, error) {
	key, err := key.Normalize()
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.FindByOwner(ctx, key)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return emptyCart(key), nil
		}
		return nil, apperr.Internal(err)
	}
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, key CartKey, rawProductID string, quantity int) (*models.Cart, error) {
	key, err := key.Normalize()
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, apperr.BadRequest("quantity must be at least 1")
	}
	productID, err := parseObjectID(rawProductID, "product id")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, lookupError(err, "product not found")
	}

	cart, err := s.carts.FindByOwner(ctx, key)
	switch {
	case errors.Is(err, models.ErrNotFound):
		cart = emptyCart(key)
	case err != nil:
		return nil, apperr.Internal(err)
	}

	if i := cart.ItemIndex(productID); i >= 0 {
		cart.Items[i].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.NewLineItem(*product, quantity))
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	s.log.Debug("cart item added",
		zap.String("owner", key.String()),
		zap.String("productId", productID.Hex()),
		zap.Int("quantity", quantity),
	)
	return cart, nil
}

// SetItemQuantity overwrites a line's quantity. Zero or less removes it.
func (s *CartService) SetItemQuantity(ctx context.Context, key CartKey, rawProductID string, quantity int) (*models.Cart, error) {
	cart, index, err := s.findLine(ctx, key, rawProductID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	} else {
		cart.Items[index].Quantity = quantity
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, key CartKey, rawProductID string) (*models.Cart, error) {
	cart, index, err := s.findLine(ctx, key, rawProductID)
	if err != nil {
		return nil, err
	}
	cart.Items = append(cart.Items[:index], cart.Items[index+1:]...)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart in place; the document itself is kept.
func (s *CartService) Clear(ctx context.Context, key CartKey) (*models.Cart, error) {
	key, err := key.Normalize()
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.FindByOwner(ctx, key)
	if err != nil {
		return nil, lookupError(err, "cart not found")
	}
	cart.Items = []models.LineItem{}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	s.log.Debug("cart cleared", zap.String("owner", key.String()))
	return cart, nil
}

func (s *CartService) findLine(ctx context.Context, key CartKey, rawProductID string) (*models.Cart, int, error) {
	key, err := key.Normalize()
	if err != nil {
		return nil, 0, err
	}
	productID, err := parseObjectID(rawProductID, "product id")
	if err != nil {
		return nil, 0, err
	}
	cart, err := s.carts.FindByOwner(ctx, key)
	if err != nil {
		return nil, 0, lookupError(err, "cart not found")
	}
	index := cart.ItemIndex(productID)
	if index < 0 {
		return nil, 0, apperr.NotFound("product not found in cart")
	}
	return cart, index, nil
}

// save recomputes the total and writes the whole cart.
func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	now := s.now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	cart.TotalPrice = cartTotal(cart.Items)
	if err := s.carts.Save(ctx, cart); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func emptyCart(key CartKey) *models.Cart {
	return &models.Cart{
		User:    key.UserID,
		GuestID: key.GuestID,
		Items:   []models.LineItem{},
	}
}

// RequestedQuantity defaults an omitted quantity to one.
func (in AddItemInput) RequestedQuantity() int {
	if in.Quantity == nil {
		return 1
	}
	return *in.Quantity
}
