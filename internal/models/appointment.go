package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment is a booking made from a cart. CartItems and TotalAmount are
// frozen at booking time.
type Appointment struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User          *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	CustomerName  string              `bson:"customerName,omitempty" json:"customerName,omitempty"`
	CustomerEmail string              `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	CustomerPhone string              `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	Cart          primitive.ObjectID  `bson:"cart" json:"cart"`
	CartItems     []LineItem          `bson:"cart_items" json:"cart_items"`
	TotalAmount   float64             `bson:"total_amount" json:"total_amount"`
	Date          time.Time           `bson:"date" json:"date"`
	Notes         string              `bson:"notes" json:"notes"`
	Status        string              `bson:"status" json:"status"`
	ConfirmedAt   *time.Time          `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
