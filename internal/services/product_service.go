package services

import (
	"database/sql"
	"errors"
	"fmt"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
	"inventory_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRequest DTO shared by create and update. ExpirationDate is a
// yyyy-mm-dd string; malformed values are coerced to unset with a logged
// warning rather than rejected.
type ProductRequest struct {
	Name           string          `json:"name" binding:"required"`
	CategoryID     *int64          `json:"category_id"`
	Brand          string          `json:"brand"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	ImagePath      string          `json:"image_path"`
	ExpirationDate string          `json:"expiration_date"`
	MinStockLevel  int             `json:"min_stock_level"`
}

// ProductService owns product rows and the derived status invariant: status
// is recomputed from (stock, min_stock_level) on every write, never set
// independently.
type ProductService interface {
	AddProduct(req ProductRequest) (*models.Product, error)
	UpdateProduct(productID int64, req ProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
	GetProducts(filters models.ProductFilters) ([]models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	saleRepo    repositories.SaleRepository
	db          *sql.DB // For managing transactions
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo repositories.ProductRepository, saleRepo repositories.SaleRepository, db *sql.DB) ProductService {
	return &productService{productRepo: productRepo, saleRepo: saleRepo, db: db}
}

// buildProduct validates and coerces a request into a row model with the
// derived status applied.
func (s *productService) buildProduct(req ProductRequest) (*models.Product, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	minStock := req.MinStockLevel
	if minStock <= 0 {
		minStock = models.DefaultMinStockLevel
	}

	return &models.Product{
		Name:           req.Name,
		CategoryID:     req.CategoryID,
		Brand:          utils.NewNullString(req.Brand),
		Price:          req.Price,
		Stock:          req.Stock,
		ImagePath:      utils.NewNullString(req.ImagePath),
		ExpirationDate: utils.ParseDateOrNil(req.ExpirationDate),
		MinStockLevel:  minStock,
		Status:         models.DeriveStatus(req.Stock, minStock),
	}, nil
}

// AddProduct inserts one row; a single statement, so no transaction.
func (s *productService) AddProduct(req ProductRequest) (*models.Product, error) {
	product, err := s.buildProduct(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.productRepo.CreateProduct(s.db, product); err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}
	return product, nil
}

// UpdateProduct rewrites all fields, recomputes status and refreshes
// last_restocked even when stock is unchanged ("last modified" semantics,
// preserved from the original system).
func (s *productService) UpdateProduct(productID int64, req ProductRequest) (*models.Product, error) {
	product, err := s.buildProduct(req)
	if err != nil {
		return nil, err
	}
	product.ID = productID

	if err := s.productRepo.UpdateProduct(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product %d: %w", productID, err)
	}
	return s.productRepo.GetProductByID(productID)
}

// DeleteProduct removes a product. Sales referencing it are detached first
// inside the same transaction so sale history survives; any failure rolls
// back both steps.
func (s *productService) DeleteProduct(productID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	count, err := s.saleRepo.CountByProduct(tx, productID)
	if err != nil {
		return fmt.Errorf("failed to count sales for product %d: %w", productID, err)
	}
	if count > 0 {
		if err := s.saleRepo.DetachProduct(tx, productID); err != nil {
			return fmt.Errorf("failed to detach sales from product %d: %w", productID, err)
		}
	}

	if err := s.productRepo.DeleteProduct(tx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product deletion: %w", err)
	}
	return nil
}

func (s *productService) GetProducts(filters models.ProductFilters) ([]models.Product, error) {
	products, err := s.productRepo.GetProducts(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

func (s *productService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	return product, nil
}
