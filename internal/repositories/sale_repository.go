package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventory_backend/internal/models"
)

// SaleRepository defines the interface for sale-related database operations.
type SaleRepository interface {
	CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error)
	GetSaleByID(executor SQLExecutor, saleID int64) (*models.Sale, error)
	DeleteSale(executor SQLExecutor, saleID int64) error
	CountByProduct(executor SQLExecutor, productID int64) (int, error)
	DetachProduct(executor SQLExecutor, productID int64) error
	GetSalesReport(start, endExclusive time.Time) ([]models.SalesReportRow, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

// CreateSale inserts a sale row. sale_time is assigned by the database at
// insert, never by the caller.
func (r *saleRepository) CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error) {
	query := `INSERT INTO sales (product_id, quantity, total_price, seller_id)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, sale_time`

	err := executor.QueryRow(query,
		sale.ProductID, sale.Quantity, sale.TotalPrice, sale.SellerID,
	).Scan(&sale.ID, &sale.SaleTime)
	if err != nil {
		return 0, fmt.Errorf("%w: creating sale: %v", ErrDatabaseError, err)
	}
	return sale.ID, nil
}

func (r *saleRepository) GetSaleByID(executor SQLExecutor, saleID int64) (*models.Sale, error) {
	sale := &models.Sale{}
	var productID, sellerID sql.NullInt64

	query := "SELECT id, product_id, quantity, total_price, seller_id, sale_time FROM sales WHERE id = $1"
	err := executor.QueryRow(query, saleID).Scan(
		&sale.ID, &productID, &sale.Quantity, &sale.TotalPrice, &sellerID, &sale.SaleTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale %d: %v", ErrDatabaseError, saleID, err)
	}
	if productID.Valid {
		sale.ProductID = &productID.Int64
	}
	if sellerID.Valid {
		sale.SellerID = &sellerID.Int64
	}
	return sale, nil
}

func (r *saleRepository) DeleteSale(executor SQLExecutor, saleID int64) error {
	result, err := executor.Exec("DELETE FROM sales WHERE id = $1", saleID)
	if err != nil {
		return fmt.Errorf("%w: deleting sale %d: %v", ErrDatabaseError, saleID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting sale %d: %v", ErrDatabaseError, saleID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *saleRepository) CountByProduct(executor SQLExecutor, productID int64) (int, error) {
	var count int
	err := executor.QueryRow("SELECT COUNT(*) FROM sales WHERE product_id = $1", productID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting sales for product %d: %v", ErrDatabaseError, productID, err)
	}
	return count, nil
}

// DetachProduct nulls out product references so sale history survives the
// product's deletion.
func (r *saleRepository) DetachProduct(executor SQLExecutor, productID int64) error {
	_, err := executor.Exec("UPDATE sales SET product_id = NULL WHERE product_id = $1", productID)
	if err != nil {
		return fmt.Errorf("%w: detaching sales from product %d: %v", ErrDatabaseError, productID, err)
	}
	return nil
}

// GetSalesReport lists sales in [start, endExclusive), joined with product,
// category and seller names. Nulled references come back as placeholder text.
func (r *saleRepository) GetSalesReport(start, endExclusive time.Time) ([]models.SalesReportRow, error) {
	query := `SELECT s.id,
	                 COALESCE(p.name, $3) AS product_name,
	                 COALESCE(p.brand, $4) AS brand,
	                 COALESCE(c.name, $4) AS category,
	                 s.quantity, s.total_price,
	                 COALESCE(u.username, $5) AS seller,
	                 s.sale_time
	          FROM sales s
	          LEFT JOIN products p ON s.product_id = p.id
	          LEFT JOIN categories c ON p.category_id = c.id
	          LEFT JOIN users u ON s.seller_id = u.id
	          WHERE s.sale_time >= $1 AND s.sale_time < $2
	          ORDER BY s.sale_time DESC`

	rows, err := r.db.Query(query, start, endExclusive,
		models.DeletedProductName, models.NoValue, models.UnknownSeller)
	if err != nil {
		return nil, fmt.Errorf("%w: getting sales report: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	report := []models.SalesReportRow{}
	for rows.Next() {
		var row models.SalesReportRow
		if err := rows.Scan(&row.ID, &row.ProductName, &row.Brand, &row.Category,
			&row.Quantity, &row.TotalPrice, &row.Seller, &row.SaleTime); err != nil {
			return nil, fmt.Errorf("%w: scanning sales report row: %v", ErrDatabaseError, err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading sales report: %v", ErrDatabaseError, err)
	}
	return report, nil
}
