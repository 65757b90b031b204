package services

import (
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

// CatalogParams are the raw query-string values of a product listing.
type CatalogParams struct {
	Category    string `form:"category"`
	Collections string `form:"collections"`
	MinPrice    string `form:"minPrice"`
	MaxPrice    string `form:"maxPrice"`
	SortBy      string `form:"sortBy"`
	Limit       string `form:"limit"`
}

type SortOption int

const (
	SortNatural SortOption = iota
	SortPriceAsc
	SortPriceDesc
	SortRatingDesc
	SortNewest
	SortNameAsc
)

var sortAliases = map[string]SortOption{
	"priceasc":       SortPriceAsc,
	"pricelowtohigh": SortPriceAsc,
	"lowtohigh":      SortPriceAsc,
	"pricedesc":      SortPriceDesc,
	"pricehightolow": SortPriceDesc,
	"hightolow":      SortPriceDesc,
	"popularity":     SortRatingDesc,
	"popular":        SortRatingDesc,
	"rating":         SortRatingDesc,
	"toprated":       SortRatingDesc,
	"newest":         SortNewest,
	"latest":         SortNewest,
	"name":           SortNameAsc,
	"nameasc":        SortNameAsc,
	"az":             SortNameAsc,
}

// CatalogFilter is the parsed form of CatalogParams. Nil slices and nil
// prices mean "no restriction"; a zero Limit means unlimited.
type CatalogFilter struct {
	Categories  []string
	Collections []string
	MinPrice    *float64
	MaxPrice    *float64
	Sort        SortOption
	Limit       int64
}

func ParseCatalogParams(p CatalogParams) (CatalogFilter, error) {
	f := CatalogFilter{
		Categories:  parseMembership(p.Category),
		Collections: parseMembership(p.Collections),
		Sort:        parseSort(p.SortBy),
		Limit:       parseLimit(p.Limit),
	}

	var err error
	if f.MinPrice, err = parsePrice(p.MinPrice, "minPrice"); err != nil {
		return CatalogFilter{}, err
	}
	if f.MaxPrice, err = parsePrice(p.MaxPrice, "maxPrice"); err != nil {
		return CatalogFilter{}, err
	}
	return f, nil
}

// parseMembership returns nil when the value is empty or exactly "all".
func parseMembership(raw string) []string {
	values := models.SplitList(raw)
	if len(values) == 0 {
		return nil
	}
	if len(values) == 1 && strings.EqualFold(values[0], "all") {
		return nil
	}
	return values
}

func parseSort(raw string) SortOption {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	return sortAliases[key]
}

func parseLimit(raw string) int64 {
	limit, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || limit <= 0 {
		return 0
	}
	return limit
}

func parsePrice(raw, field string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.BadRequest(field + " must be a number")
	}
	return &value, nil
}

// MongoFilter builds the find filter for the products collection.
func (f CatalogFilter) MongoFilter() bson.M {
	filter := bson.M{}
	if f.Categories != nil {
		filter["category"] = bson.M{"$in": f.Categories}
	}
	if f.Collections != nil {
		filter["collections"] = bson.M{"$in": f.Collections}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	return filter
}

// MongoSort returns nil for natural order.
func (f CatalogFilter) MongoSort() bson.D {
	switch f.Sort {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case SortRatingDesc:
		return bson.D{{Key: "rating", Value: -1}}
	case SortNewest:
		return bson.D{{Key: "createdAt", Value: -1}}
	case SortNameAsc:
		return bson.D{{Key: "name", Value: 1}}
	default:
		return nil
	}
}

// CacheKey is stable for equal filters.
func (f CatalogFilter) CacheKey() string {
	price := func(p *float64) string {
		if p == nil {
			return "-"
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	return fmt.Sprintf("c=%s|col=%s|min=%s|max=%s|s=%d|l=%d",
		strings.Join(f.Categories, ","),
		strings.Join(f.Collections, ","),
		price(f.MinPrice),
		price(f.MaxPrice),
		f.Sort,
		f.Limit,
	)
}
