package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product represents a product in the storefront catalog. Monetary fields
// encode as JSON numbers only when the process sets
// decimal.MarshalJSONWithoutQuotes, which cmd/api does at startup.
type Product struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Price              decimal.Decimal     `json:"price"`
	OfferPrice         decimal.NullDecimal `json:"offerPrice"`
	DiscountPercentage decimal.NullDecimal `json:"discountPercentage"`
	CategoryID         Ref                 `json:"categoryId"`
	SubCategoryID      Ref                 `json:"subCategoryId"`
	Category           InlineName          `json:"category,omitempty"`
	SubCategory        InlineName          `json:"subCategory,omitempty"`
	Colors             []string            `json:"colors"`
	Sizes              []string            `json:"sizes"`
	Images             []string            `json:"images"`
	Image              string              `json:"image,omitempty"`
	Stock              int                 `json:"stock"`
	IsActive           bool                `json:"isActive"`
	IsTrending         bool                `json:"isTrending"`
	IsNewArrival       bool                `json:"isNewArrival"`
	Rating             decimal.NullDecimal `json:"rating"`
	SKU                string              `json:"sku,omitempty"`
	Material           string              `json:"material,omitempty"`
	Care               string              `json:"care,omitempty"`
	CreatedAt          *time.Time          `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time          `json:"updatedAt,omitempty"`
}

// UnmarshalJSON applies the catalog defaults for flags the server may omit.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	decoded := alias{IsActive: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Product(decoded)
	return nil
}

// EffectivePrice is the price a customer pays: the offer price when it
// undercuts the regular price, otherwise the regular price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.HasDiscount() {
		return p.OfferPrice.Decimal
	}
	return p.Price
}

// HasDiscount reports whether an offer price below the regular price is set.
func (p Product) HasDiscount() bool {
	return p.OfferPrice.Valid && p.OfferPrice.Decimal.LessThan(p.Price)
}

// Discount returns the discount percentage to display. An explicit
// percentage wins; otherwise it is derived from the offer price and floored
// at zero. ok is false when neither is available.
func (p Product) Discount() (pct decimal.Decimal, ok bool) {
	if p.DiscountPercentage.Valid {
		return p.DiscountPercentage.Decimal, true
	}
	if !p.OfferPrice.Valid || !p.Price.IsPositive() {
		return decimal.Zero, false
	}
	pct = p.Price.Sub(p.OfferPrice.Decimal).Div(p.Price).Mul(hundred).Round(0)
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	return pct, true
}

// Savings is the amount saved against the regular price, zero without a discount.
func (p Product) Savings() decimal.Decimal {
	if !p.HasDiscount() {
		return decimal.Zero
	}
	return p.Price.Sub(p.OfferPrice.Decimal)
}

// RatingValue returns the rating, treating a missing rating as zero
func (p Product) RatingValue() decimal.Decimal {
	if p.Rating.Valid {
		return p.Rating.Decimal
	}
	return decimal.Zero
}
