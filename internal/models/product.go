package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductImage struct {
	URL     string `bson:"url" json:"url"`
	AltText string `bson:"altText,omitempty" json:"altText,omitempty"`
}

type Product struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string              `bson:"name" json:"name"`
	Description   string              `bson:"description" json:"description"`
	Price         float64             `bson:"price" json:"price"`
	DiscountPrice *float64            `bson:"discountPrice,omitempty" json:"discountPrice,omitempty"`
	IsOnSale      bool                `bson:"-" json:"isOnSale"`
	CountInStock  int                 `bson:"countInStock" json:"countInStock"`
	SKU           string              `bson:"sku" json:"sku"`
	Category      string              `bson:"category" json:"category"`
	Collections   string              `bson:"collections" json:"collections"`
	Images        []ProductImage      `bson:"images" json:"images"`
	IsFeatured    bool                `bson:"isFeatured" json:"isFeatured"`
	IsPublished   bool                `bson:"isPublished" json:"isPublished"`
	Rating        float64             `bson:"rating" json:"rating"`
	NumReviews    int                 `bson:"numReviews" json:"numReviews"`
	Tags          StringList          `bson:"tags" json:"tags"`
	User          primitive.ObjectID  `bson:"user" json:"user"`
	Supplier      *primitive.ObjectID `bson:"supplier,omitempty" json:"supplier,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PrimaryImage returns the first image url, or "" when the product has none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
