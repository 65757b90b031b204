package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Consultation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	JewelryType   string             `bson:"jewelryType" json:"jewelryType"`
	Description   string             `bson:"description" json:"description"`
	PreferredDate string             `bson:"preferredDate,omitempty" json:"preferredDate,omitempty"`
	PreferredTime string             `bson:"preferredTime,omitempty" json:"preferredTime,omitempty"`
	Images        []string           `bson:"images" json:"images"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
