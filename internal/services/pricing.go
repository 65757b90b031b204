package services

import (
	"github.com/shopspring/decimal"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

func isProductOnSale(price float64, discountPrice *float64) bool {
	return discountPrice != nil && *discountPrice > 0 && *discountPrice < price
}

func validateDiscount(price float64, discountPrice *float64) error {
	if discountPrice == nil {
		return nil
	}
	if *discountPrice <= 0 {
		return apperr.BadRequest("discountPrice must be greater than 0")
	}
	if *discountPrice >= price {
		return apperr.BadRequest("discountPrice must be less than price")
	}
	return nil
}

// decorateProduct fills the response-only fields.
func decorateProduct(p *models.Product) {
	p.IsOnSale = isProductOnSale(p.Price, p.DiscountPrice)
}

// cartTotal sums price*quantity over the lines in decimal. The sum is not
// rounded, so it always equals the lines it was computed from.
func cartTotal(items []models.LineItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}
