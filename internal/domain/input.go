package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductInput is the create and update payload for a product. Nil fields
// are left out of the request so an update only touches what was set.
type ProductInput struct {
	Name               *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description        *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	OfferPrice         *decimal.Decimal `json:"offerPrice,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
	CategoryID         *string          `json:"categoryId,omitempty"`
	SubCategoryID      *string          `json:"subCategoryId,omitempty"`
	Colors             []string         `json:"colors,omitempty" validate:"omitempty,dive,max=50"`
	Sizes              []string         `json:"sizes,omitempty" validate:"omitempty,dive,max=20"`
	Images             []string         `json:"images,omitempty" validate:"omitempty,dive,min=1"`
	Image              *string          `json:"image,omitempty"`
	Stock              *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsActive           *bool            `json:"isActive,omitempty"`
	IsTrending         *bool            `json:"isTrending,omitempty"`
	IsNewArrival       *bool            `json:"isNewArrival,omitempty"`
	SKU                *string          `json:"sku,omitempty" validate:"omitempty,max=64"`
	Material           *string          `json:"material,omitempty"`
	Care               *string          `json:"care,omitempty"`
}

// Normalize trims every text field and fills image from images[0] when the
// caller did not set it.
func (in ProductInput) Normalize() ProductInput {
	in.Name = trimPtr(in.Name)
	in.Description = trimPtr(in.Description)
	in.CategoryID = trimPtr(in.CategoryID)
	in.SubCategoryID = trimPtr(in.SubCategoryID)
	in.SKU = trimPtr(in.SKU)
	in.Material = trimPtr(in.Material)
	in.Care = trimPtr(in.Care)
	in.Image = trimPtr(in.Image)
	in.Colors = trimAll(in.Colors)
	in.Sizes = trimAll(in.Sizes)
	in.Images = trimAll(in.Images)

	if (in.Image == nil || *in.Image == "") && len(in.Images) > 0 {
		first := in.Images[0]
		in.Image = &first
	}
	return in
}

// CategoryInput is the create and update payload for a category
type CategoryInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Image       *string `json:"image,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// Normalize trims every text field
func (in CategoryInput) Normalize() CategoryInput {
	in.Name = trimPtr(in.Name)
	in.Description = trimPtr(in.Description)
	in.Image = trimPtr(in.Image)
	return in
}

// SubCategoryInput is the create and update payload for a subcategory
type SubCategoryInput struct {
	CategoryID  *string `json:"categoryId,omitempty"`
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Image       *string `json:"image,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// Normalize trims every text field
func (in SubCategoryInput) Normalize() SubCategoryInput {
	in.CategoryID = trimPtr(in.CategoryID)
	in.Name = trimPtr(in.Name)
	in.Description = trimPtr(in.Description)
	in.Image = trimPtr(in.Image)
	return in
}

// Str returns a pointer to s, for building inputs
func Str(s string) *string {
	return &s
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
