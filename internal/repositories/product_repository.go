package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inventory_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product-related database
// operations, including the stock reads and writes the ledger performs
// inside transactions.
type ProductRepository interface {
	CreateProduct(executor SQLExecutor, product *models.Product) (int64, error)
	UpdateProduct(executor SQLExecutor, product *models.Product) error
	DeleteProduct(executor SQLExecutor, productID int64) error
	GetProductByID(productID int64) (*models.Product, error)
	GetProducts(filters models.ProductFilters) ([]models.Product, error)
	GetStockForUpdate(executor SQLExecutor, productID int64) (stock int, minStockLevel int, price decimal.Decimal, err error)
	UpdateStockStatus(executor SQLExecutor, productID int64, newStock int, status string) error
	GetLowStockItems() ([]models.Product, error)
	GetExpiringItems(daysThreshold int) ([]models.Product, error)
	GetInventoryHistory() ([]models.InventoryHistoryEntry, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productSelectColumns = `p.id, p.name, p.category_id, c.name AS category, p.brand, p.price, p.stock,
	       p.image_path, p.expiration_date, p.last_restocked, p.min_stock_level, p.status`

func scanProductRow(scan func(dest ...interface{}) error) (*models.Product, error) {
	var p models.Product
	var categoryID sql.NullInt64
	var categoryName, brand, imagePath sql.NullString
	var expiration sql.NullTime

	err := scan(
		&p.ID, &p.Name, &categoryID, &categoryName, &brand, &p.Price, &p.Stock,
		&imagePath, &expiration, &p.LastRestocked, &p.MinStockLevel, &p.Status,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	if categoryName.Valid {
		p.CategoryName = &categoryName.String
	}
	if brand.Valid {
		p.Brand = &brand.String
	}
	if imagePath.Valid {
		p.ImagePath = &imagePath.String
	}
	if expiration.Valid {
		t := expiration.Time
		p.ExpirationDate = &t
	}
	return &p, nil
}

func (r *productRepository) CreateProduct(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products
	          (name, category_id, brand, price, stock, image_path, expiration_date, min_stock_level, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id, last_restocked`

	err := executor.QueryRow(query,
		product.Name, product.CategoryID, product.Brand, product.Price, product.Stock,
		product.ImagePath, product.ExpirationDate, product.MinStockLevel, product.Status,
	).Scan(&product.ID, &product.LastRestocked)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: product references missing category: %v", ErrDatabaseError, err)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

// UpdateProduct rewrites every mutable field and unconditionally refreshes
// last_restocked, keeping the original "last modified" semantics.
func (r *productRepository) UpdateProduct(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products
	          SET name = $1, category_id = $2, brand = $3, price = $4, stock = $5,
	              image_path = $6, expiration_date = $7, min_stock_level = $8, status = $9,
	              last_restocked = now()
	          WHERE id = $10`

	result, err := executor.Exec(query,
		product.Name, product.CategoryID, product.Brand, product.Price, product.Stock,
		product.ImagePath, product.ExpirationDate, product.MinStockLevel, product.Status,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating product %d: %v", ErrDatabaseError, product.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updating product %d: %v", ErrDatabaseError, product.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) DeleteProduct(executor SQLExecutor, productID int64) error {
	result, err := executor.Exec("DELETE FROM products WHERE id = $1", productID)
	if err != nil {
		return fmt.Errorf("%w: deleting product %d: %v", ErrDatabaseError, productID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting product %d: %v", ErrDatabaseError, productID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) GetProductByID(productID int64) (*models.Product, error) {
	query := `SELECT ` + productSelectColumns + `
	          FROM products p
	          LEFT JOIN categories c ON p.category_id = c.id
	          WHERE p.id = $1`

	product, err := scanProductRow(r.db.QueryRow(query, productID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product %d: %v", ErrDatabaseError, productID, err)
	}
	return product, nil
}

func (r *productRepository) GetProducts(filters models.ProductFilters) ([]models.Product, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + productSelectColumns + `
	  FROM products p
	  LEFT JOIN categories c ON p.category_id = c.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argCount))
		args = append(args, *filters.CategoryID)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(p.name ILIKE $%d OR p.brand ILIKE $%d OR c.name ILIKE $%d)", argCount, argCount+1, argCount+2))
		pattern := "%" + *filters.Search + "%"
		args = append(args, pattern, pattern, pattern)
		argCount += 3
	}
	if filters.MinStock != nil {
		conditions = append(conditions, fmt.Sprintf("p.stock >= $%d", argCount))
		args = append(args, *filters.MinStock)
		argCount++
	}
	if filters.MaxStock != nil {
		conditions = append(conditions, fmt.Sprintf("p.stock <= $%d", argCount))
		args = append(args, *filters.MaxStock)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.name")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	products := []models.Product{}
	for rows.Next() {
		p, err := scanProductRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading products: %v", ErrDatabaseError, err)
	}
	return products, nil
}

// GetStockForUpdate reads a product's stock and threshold under a row lock,
// so a concurrent sale of the same product serializes against this
// transaction instead of racing the later stock write.
func (r *productRepository) GetStockForUpdate(executor SQLExecutor, productID int64) (int, int, decimal.Decimal, error) {
	var (
		stock, minStockLevel int
		price                decimal.Decimal
	)
	err := executor.QueryRow(
		"SELECT stock, min_stock_level, price FROM products WHERE id = $1 FOR UPDATE",
		productID,
	).Scan(&stock, &minStockLevel, &price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, decimal.Zero, ErrNotFound
		}
		return 0, 0, decimal.Zero, fmt.Errorf("%w: locking product %d: %v", ErrDatabaseError, productID, err)
	}
	return stock, minStockLevel, price, nil
}

// UpdateStockStatus writes a new stock level together with its derived
// status. Callers must compute status via models.DeriveStatus.
func (r *productRepository) UpdateStockStatus(executor SQLExecutor, productID int64, newStock int, status string) error {
	result, err := executor.Exec(
		"UPDATE products SET stock = $1, status = $2 WHERE id = $3",
		newStock, status, productID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating stock for product %d: %v", ErrDatabaseError, productID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updating stock for product %d: %v", ErrDatabaseError, productID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) GetLowStockItems() ([]models.Product, error) {
	query := `SELECT ` + productSelectColumns + `
	          FROM products p
	          LEFT JOIN categories c ON p.category_id = c.id
	          WHERE p.stock > 0 AND p.stock <= p.min_stock_level
	          ORDER BY p.stock`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting low stock items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// GetExpiringItems returns products expiring within the threshold window.
// Already-expired items are excluded; this is "expiring soon", not "expired".
func (r *productRepository) GetExpiringItems(daysThreshold int) ([]models.Product, error) {
	query := `SELECT ` + productSelectColumns + `
	          FROM products p
	          LEFT JOIN categories c ON p.category_id = c.id
	          WHERE p.expiration_date IS NOT NULL
	            AND p.expiration_date >= CURRENT_DATE
	            AND p.expiration_date <= CURRENT_DATE + $1 * INTERVAL '1 day'
	          ORDER BY p.expiration_date`

	rows, err := r.db.Query(query, daysThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: getting expiring items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepository) GetInventoryHistory() ([]models.InventoryHistoryEntry, error) {
	query := `SELECT p.id, p.name, p.brand, c.name AS category, p.price, p.stock, p.last_restocked, p.status
	          FROM products p
	          LEFT JOIN categories c ON p.category_id = c.id
	          ORDER BY p.last_restocked DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting inventory history: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	history := []models.InventoryHistoryEntry{}
	for rows.Next() {
		var entry models.InventoryHistoryEntry
		var brand, category sql.NullString
		if err := rows.Scan(&entry.ID, &entry.Name, &brand, &category, &entry.Price,
			&entry.CurrentStock, &entry.LastRestocked, &entry.Status); err != nil {
			return nil, fmt.Errorf("%w: scanning inventory history: %v", ErrDatabaseError, err)
		}
		if brand.Valid {
			entry.Brand = &brand.String
		}
		if category.Valid {
			entry.Category = &category.String
		}
		history = append(history, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading inventory history: %v", ErrDatabaseError, err)
	}
	return history, nil
}
