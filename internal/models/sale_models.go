package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable transaction record once committed; it is destroyed
// only by the undo operation. A nil ProductID or SellerID means the
// referenced row was deleted after the sale.
type Sale struct {
	ID         int64           `json:"id" db:"id"`
	ProductID  *int64          `json:"product_id,omitempty" db:"product_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price" db:"total_price"`
	SellerID   *int64          `json:"seller_id,omitempty" db:"seller_id"`
	SaleTime   time.Time       `json:"sale_time" db:"sale_time"`
}

// Placeholder text substituted at read time when a sale's references have
// gone null.
const (
	DeletedProductName = "Deleted Product"
	UnknownSeller      = "Unknown"
	NoValue            = "N/A"
)

// SalesReportRow is a sale joined with product, category and seller names,
// placeholders already applied.
type SalesReportRow struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"product_name"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Seller      string          `json:"seller"`
	SaleTime    time.Time       `json:"sale_time"`
}

// InventoryHistoryEntry is a product projected for the inventory history
// listing, ordered by most recent modification.
type InventoryHistoryEntry struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Brand         *string         `json:"brand,omitempty"`
	Category      *string         `json:"category,omitempty"`
	Price         decimal.Decimal `json:"price"`
	CurrentStock  int             `json:"current_stock"`
	LastRestocked time.Time       `json:"last_restocked"`
	Status        string          `json:"status"`
}
