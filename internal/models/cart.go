package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LineItem is a snapshot of a product taken when it was put in a cart. It is
// copied by value into appointments and never refreshed from the catalog.
type LineItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image" json:"image"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.PrimaryImage(),
		Price:     p.Price,
		Quantity:  quantity,
	}
}

// Cart is owned by exactly one of User or GuestID.
type Cart struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	User       *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	GuestID    string              `bson:"guestId,omitempty" json:"guestId,omitempty"`
	Items      []LineItem          `bson:"items" json:"items"`
	TotalPrice float64             `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt,omitempty"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt,omitempty"`
}

// ItemIndex returns the position of the line for productID, or -1.
func (c *Cart) ItemIndex(productID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// SnapshotItems returns a copy of the lines that shares no backing array
// with the cart.
func (c *Cart) SnapshotItems() []LineItem {
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}
