package database

import (
	"database/sql"
	"fmt"

	"inventory_backend/internal/models"
	"inventory_backend/pkg/utils"
)

// EnsureSchema creates every table the application needs. All statements are
// idempotent; a failure here is fatal to startup since nothing can run
// without schema.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			role VARCHAR(20) NOT NULL,
			email VARCHAR(100) UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT chk_role CHECK (role IN ('admin', 'manager', 'retailer'))
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(50) UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
			brand VARCHAR(50),
			price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
			stock INT NOT NULL CHECK (stock >= 0),
			image_path VARCHAR(255),
			expiration_date DATE,
			last_restocked TIMESTAMPTZ NOT NULL DEFAULT now(),
			min_stock_level INT NOT NULL DEFAULT 5,
			status VARCHAR(20) NOT NULL DEFAULT 'In Stock'
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT REFERENCES products(id) ON DELETE SET NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			total_price NUMERIC(10,2) NOT NULL CHECK (total_price >= 0),
			seller_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			sale_time TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_logs (
			id BIGSERIAL PRIMARY KEY,
			log_time TIMESTAMPTZ NOT NULL DEFAULT now(),
			user_id BIGINT,
			username VARCHAR(50),
			role VARCHAR(20),
			action VARCHAR(100) NOT NULL,
			target VARCHAR(255),
			details JSONB
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// Seed inserts default rows so the system is usable immediately after first
// launch: a fixed category set, one account per role, and a handful of sample
// products. Each group is inserted only when its table is empty.
func Seed(db *sql.DB) error {
	if err := seedCategories(db); err != nil {
		return err
	}
	if err := seedUsers(db); err != nil {
		return err
	}
	return seedProducts(db)
}

func seedCategories(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	names := []string{"Meat", "Seafood", "Pantry Items", "Junk Food", "Pet Food (Wet & Dry)"}
	for _, name := range names {
		if _, err := db.Exec("INSERT INTO categories (name) VALUES ($1)", name); err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	utils.LogInfo("Default categories created", map[string]interface{}{"count": len(names)})
	return nil
}

// seedUsers creates the three default accounts, one per role. The seeded
// credentials use the deterministic legacy digest; the two-tier verification
// accepts them and any password change rewrites the hash as bcrypt.
func seedUsers(db *sql.DB) error {
	defaults := []struct {
		username string
		password string
		role     string
		email    string
	}{
		{"admin", "admin", models.RoleAdmin, "admin@example.com"},
		{"manager", "password", models.RoleManager, "manager@example.com"},
		{"retailer", "password", models.RoleRetailer, "retailer@example.com"},
	}

	for _, u := range defaults {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE username = $1", u.username).Scan(&count); err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			continue
		}
		_, err := db.Exec(
			"INSERT INTO users (username, password_hash, role, email, is_active) VALUES ($1, $2, $3, $4, TRUE)",
			u.username, utils.LegacyDigest(u.password), u.role, u.email,
		)
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.username, err)
		}
		utils.LogInfo("Default user created", map[string]interface{}{"username": u.username, "role": u.role})
	}
	return nil
}

func seedProducts(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	categoryIDs := map[string]int64{}
	rows, err := db.Query("SELECT id, name FROM categories")
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		categoryIDs[name] = id
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	samples := []struct {
		name     string
		category string
		brand    string
		price    string
		stock    int
	}{
		{"Chicken Breast", "Meat", "FreshFarms", "150.00", 15},
		{"Tuna Steak", "Seafood", "OceanHarvest", "120.00", 2},
		{"Potato Chips", "Junk Food", "CrispyBite", "50.00", 20},
		{"Dog Food Premium", "Pet Food (Wet & Dry)", "PetNutri", "200.00", 4},
	}

	for _, p := range samples {
		categoryID, ok := categoryIDs[p.category]
		if !ok {
			continue
		}
		status := models.DeriveStatus(p.stock, models.DefaultMinStockLevel)
		_, err := db.Exec(
			`INSERT INTO products (name, category_id, brand, price, stock, min_stock_level, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.name, categoryID, p.brand, p.price, p.stock, models.DefaultMinStockLevel, status,
		)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.name, err)
		}
	}
	utils.LogInfo("Sample products created", map[string]interface{}{"count": len(samples)})
	return nil
}
