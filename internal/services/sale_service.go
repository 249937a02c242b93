package services

import (
	"database/sql"
	"errors"
	"fmt"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSaleNotFound      = errors.New("sale not found")
)

// RecordSaleRequest carries one sale line. Seller identity comes from the
// authenticated session, not the payload.
type RecordSaleRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// SaleService records and undoes sales. Both operations run in a single
// transaction so the sale row and the stock adjustment commit or roll back
// together; the product row is locked for the duration to keep concurrent
// sales of the same product serialized.
type SaleService interface {
	RecordSale(req RecordSaleRequest, sellerID int64) (*models.Sale, error)
	UndoSale(saleID int64) error
}

type saleService struct {
	saleRepo    repositories.SaleRepository
	productRepo repositories.ProductRepository
	db          *sql.DB // For managing transactions
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(saleRepo repositories.SaleRepository, productRepo repositories.ProductRepository, db *sql.DB) SaleService {
	return &saleService{saleRepo: saleRepo, productRepo: productRepo, db: db}
}

// RecordSale checks stock, decrements it, recomputes status and inserts the
// sale row atomically. Oversell attempts fail with ErrInsufficientStock and
// leave the product untouched.
func (s *saleService) RecordSale(req RecordSaleRequest, sellerID int64) (*models.Sale, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	stock, minStock, price, err := s.productRepo.GetStockForUpdate(tx, req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product %d: %w", req.ProductID, err)
	}
	if stock < req.Quantity {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientStock, stock, req.Quantity)
	}

	newStock := stock - req.Quantity
	newStatus := models.DeriveStatus(newStock, minStock)
	if err := s.productRepo.UpdateStockStatus(tx, req.ProductID, newStock, newStatus); err != nil {
		return nil, fmt.Errorf("failed to adjust stock for product %d: %w", req.ProductID, err)
	}

	sale := &models.Sale{
		ProductID:  &req.ProductID,
		SellerID:   &sellerID,
		Quantity:   req.Quantity,
		TotalPrice: price.Mul(decimal.NewFromInt(int64(req.Quantity))),
	}
	if _, err := s.saleRepo.CreateSale(tx, sale); err != nil {
		return nil, fmt.Errorf("failed to insert sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}
	return sale, nil
}

// UndoSale deletes a sale and restores the sold quantity to the product.
// When the product was deleted after the sale, the sale row is removed alone;
// there is no stock to restore.
func (s *saleService) UndoSale(saleID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	sale, err := s.saleRepo.GetSaleByID(tx, saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSaleNotFound
		}
		return fmt.Errorf("failed to load sale %d: %w", saleID, err)
	}

	if sale.ProductID != nil {
		stock, minStock, _, err := s.productRepo.GetStockForUpdate(tx, *sale.ProductID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("failed to lock product %d: %w", *sale.ProductID, err)
		}
		if err == nil {
			newStock := stock + sale.Quantity
			newStatus := models.DeriveStatus(newStock, minStock)
			if err := s.productRepo.UpdateStockStatus(tx, *sale.ProductID, newStock, newStatus); err != nil {
				return fmt.Errorf("failed to restore stock for product %d: %w", *sale.ProductID, err)
			}
		}
	}

	if err := s.saleRepo.DeleteSale(tx, saleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSaleNotFound
		}
		return fmt.Errorf("failed to delete sale %d: %w", saleID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sale undo: %w", err)
	}
	return nil
}
