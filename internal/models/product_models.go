package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock status values stored on products.status.
const (
	StatusInStock  = "In Stock"
	StatusLowStock = "Low Stock"
	StatusNoStock  = "No Stock"
)

// DefaultMinStockLevel is the min_stock_level applied when a caller does not
// supply one.
const DefaultMinStockLevel = 5

// DeriveStatus classifies a product's stock adequacy relative to its minimum
// threshold. This is the single definition of the rule; every code path that
// changes stock or min_stock_level must recompute status through it.
func DeriveStatus(stock, minStockLevel int) string {
	switch {
	case stock <= 0:
		return StatusNoStock
	case stock <= minStockLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Category is a classification label for products.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" binding:"required"`
}

// Product represents a stocked item. CategoryName is populated on reads that
// join categories; a nil CategoryID means the category row was removed.
type Product struct {
	ID             int64           `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	CategoryID     *int64          `json:"category_id,omitempty" db:"category_id"`
	CategoryName   *string         `json:"category,omitempty"`
	Brand          *string         `json:"brand,omitempty" db:"brand"`
	Price          decimal.Decimal `json:"price" db:"price"`
	Stock          int             `json:"stock" db:"stock"`
	ImagePath      *string         `json:"image_path,omitempty" db:"image_path"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty" db:"expiration_date"`
	LastRestocked  time.Time       `json:"last_restocked" db:"last_restocked"`
	MinStockLevel  int             `json:"min_stock_level" db:"min_stock_level"`
	Status         string          `json:"status" db:"status"`
}

// ProductFilters narrows product listings. Nil fields are ignored.
type ProductFilters struct {
	CategoryID *int64
	Search     *string // matched against name, brand and category name
	MinStock   *int    // stock >= MinStock
	MaxStock   *int    // stock <= MaxStock
}
