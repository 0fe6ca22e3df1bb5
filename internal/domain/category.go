package domain

import (
	"encoding/json"
	"time"
)

// Category represents a top-level product category
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Image         string        `json:"image,omitempty"`
	IsActive      bool          `json:"isActive"`
	SubCategories []SubCategory `json:"subcategories,omitempty"`
	CreatedAt     *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

// UnmarshalJSON defaults isActive to true when absent
func (c *Category) UnmarshalJSON(data []byte) error {
	type alias Category
	decoded := alias{IsActive: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*c = Category(decoded)
	return nil
}

// SubCategory represents a subcategory owned by exactly one category
type SubCategory struct {
	ID          string     `json:"id"`
	CategoryID  Ref        `json:"categoryId"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// UnmarshalJSON defaults isActive to true when absent
func (s *SubCategory) UnmarshalJSON(data []byte) error {
	type alias SubCategory
	decoded := alias{IsActive: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*s = SubCategory(decoded)
	return nil
}

// CategorySubCategories is the payload of GET /categories/{id}/subcategories
type CategorySubCategories struct {
	Category      Category      `json:"category"`
	SubCategories []SubCategory `json:"subcategories"`
}
