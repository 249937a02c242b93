package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"inventory_backend/internal/config"
	"inventory_backend/internal/database"
	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/lib/pq"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}
	if err := database.EnsureSchema(db); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}
	return db
}

type fixture struct {
	db          *sql.DB
	productRepo repositories.ProductRepository
	saleRepo    repositories.SaleRepository
	products    services.ProductService
	sales       services.SaleService
	categories  services.CategoryService
	inventory   services.InventoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	productRepo := repositories.NewProductRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	return &fixture{
		db:          db,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		products:    services.NewProductService(productRepo, saleRepo, db),
		sales:       services.NewSaleService(saleRepo, productRepo, db),
		categories:  services.NewCategoryService(categoryRepo, db),
		inventory:   services.NewInventoryService(productRepo),
	}
}

func (f *fixture) addProduct(t *testing.T, name string, stock, minStock int, price string) *models.Product {
	t.Helper()
	p, err := f.products.AddProduct(services.ProductRequest{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Stock:         stock,
		MinStockLevel: minStock,
	})
	if err != nil {
		t.Fatalf("AddProduct(%s): %v", name, err)
	}
	return p
}

func (f *fixture) addSeller(t *testing.T) int64 {
	t.Helper()
	var id int64
	err := f.db.QueryRow(
		`INSERT INTO users (username, password_hash, role) VALUES ('seller', 'x', 'retailer') RETURNING id`,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert seller: %v", err)
	}
	return id
}

func (f *fixture) addUser(t *testing.T, username, password string, active bool) {
	t.Helper()
	_, err := f.db.Exec(
		`INSERT INTO users (username, password_hash, role, is_active) VALUES ($1, $2, 'retailer', $3)`,
		username, utils.LegacyDigest(password), active,
	)
	if err != nil {
		t.Fatalf("insert user %s: %v", username, err)
	}
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	f := newFixture(t)
	utils.InitJWT("integration-test-secret", time.Hour)

	f.addUser(t, "active", "password123", true)
	f.addUser(t, "disabled", "password123", false)

	mfa := services.NewMFAService(config.MFAConfig{CodeLength: 6, CodeExpiry: 5 * time.Minute}, nil)
	auth := services.NewAuthService(repositories.NewUserRepository(f.db), mfa)

	if _, err := auth.Login(services.LoginRequest{Username: "active", Password: "password123"}); err != nil {
		t.Fatalf("Login with active account: %v", err)
	}

	_, disabledErr := auth.Login(services.LoginRequest{Username: "disabled", Password: "password123"})
	if !errors.Is(disabledErr, services.ErrInvalidCredentials) {
		t.Fatalf("disabled account err = %v, want ErrInvalidCredentials", disabledErr)
	}

	// A blocked account and a bad password must be indistinguishable to the
	// caller.
	_, wrongErr := auth.Login(services.LoginRequest{Username: "active", Password: "wrong"})
	if !errors.Is(wrongErr, services.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", wrongErr)
	}
	if disabledErr.Error() != wrongErr.Error() {
		t.Errorf("disabled account error %q differs from wrong password error %q", disabledErr, wrongErr)
	}
}

func TestRecordAndUndoSale(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", 10, 5, "4.50")
	sellerID := f.addSeller(t)

	sale, err := f.sales.RecordSale(services.RecordSaleRequest{ProductID: p.ID, Quantity: 6}, sellerID)
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if !sale.TotalPrice.Equal(decimal.RequireFromString("27.00")) {
		t.Errorf("total price = %s, want 27.00", sale.TotalPrice)
	}

	after, err := f.products.GetProductByID(p.ID)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if after.Stock != 4 {
		t.Errorf("stock after sale = %d, want 4", after.Stock)
	}
	if after.Status != models.StatusLowStock {
		t.Errorf("status after sale = %q, want %q", after.Status, models.StatusLowStock)
	}

	if err := f.sales.UndoSale(sale.ID); err != nil {
		t.Fatalf("UndoSale: %v", err)
	}

	restored, err := f.products.GetProductByID(p.ID)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if restored.Stock != 10 {
		t.Errorf("stock after undo = %d, want 10", restored.Stock)
	}
	if restored.Status != models.StatusInStock {
		t.Errorf("status after undo = %q, want %q", restored.Status, models.StatusInStock)
	}

	if err := f.sales.UndoSale(sale.ID); !errors.Is(err, services.ErrSaleNotFound) {
		t.Errorf("second undo err = %v, want ErrSaleNotFound", err)
	}
}

func TestSaleToZeroStockAndUndo(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", 5, 5, "2.00")
	sellerID := f.addSeller(t)

	sale, err := f.sales.RecordSale(services.RecordSaleRequest{ProductID: p.ID, Quantity: 5}, sellerID)
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	after, err := f.products.GetProductByID(p.ID)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if after.Stock != 0 {
		t.Errorf("stock after sale = %d, want 0", after.Stock)
	}
	if after.Status != models.StatusNoStock {
		t.Errorf("status after sale = %q, want %q", after.Status, models.StatusNoStock)
	}

	if err := f.sales.UndoSale(sale.ID); err != nil {
		t.Fatalf("UndoSale: %v", err)
	}

	restored, err := f.products.GetProductByID(p.ID)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if restored.Stock != 5 {
		t.Errorf("stock after undo = %d, want 5", restored.Stock)
	}
	// Stock equal to the minimum level sits at the low stock boundary.
	if restored.Status != models.StatusLowStock {
		t.Errorf("status after undo = %q, want %q", restored.Status, models.StatusLowStock)
	}
}

func TestRecordSaleInsufficientStockLeavesProductUntouched(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", 3, 5, "10.00")
	sellerID := f.addSeller(t)

	_, err := f.sales.RecordSale(services.RecordSaleRequest{ProductID: p.ID, Quantity: 4}, sellerID)
	if !errors.Is(err, services.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	after, err := f.products.GetProductByID(p.ID)
	if err != nil {
		t.Fatalf("GetProductByID: %v", err)
	}
	if after.Stock != 3 {
		t.Errorf("stock = %d, want 3 (unchanged)", after.Stock)
	}

	var saleCount int
	if err := f.db.QueryRow("SELECT COUNT(*) FROM sales").Scan(&saleCount); err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if saleCount != 0 {
		t.Errorf("sale rows = %d, want 0", saleCount)
	}
}

func TestDeleteProductPreservesSales(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Widget", 10, 5, "2.00")
	sellerID := f.addSeller(t)

	sale, err := f.sales.RecordSale(services.RecordSaleRequest{ProductID: p.ID, Quantity: 2}, sellerID)
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	if err := f.products.DeleteProduct(p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}

	var productID sql.NullInt64
	if err := f.db.QueryRow("SELECT product_id FROM sales WHERE id = $1", sale.ID).Scan(&productID); err != nil {
		t.Fatalf("sale row gone: %v", err)
	}
	if productID.Valid {
		t.Errorf("sale still references deleted product %d", productID.Int64)
	}

	// Undoing a detached sale removes the row without touching stock.
	if err := f.sales.UndoSale(sale.ID); err != nil {
		t.Fatalf("UndoSale on detached sale: %v", err)
	}
}

func TestDeleteCategoryInUseRefused(t *testing.T) {
	f := newFixture(t)

	cat, err := f.categories.CreateCategory("Beverages")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	if _, err := f.products.AddProduct(services.ProductRequest{
		Name:       "Cola",
		CategoryID: &cat.ID,
		Price:      decimal.RequireFromString("1.00"),
		Stock:      1,
	}); err != nil {
		t.Fatalf("AddProduct: %v", err)
	}

	if err := f.categories.DeleteCategory(cat.ID); !errors.Is(err, services.ErrCategoryInUse) {
		t.Fatalf("err = %v, want ErrCategoryInUse", err)
	}

	// Still present.
	cats, err := f.categories.GetCategories()
	if err != nil {
		t.Fatalf("GetCategories: %v", err)
	}
	found := false
	for _, c := range cats {
		if c.ID == cat.ID {
			found = true
		}
	}
	if !found {
		t.Error("category deleted despite being in use")
	}
}

func TestLowStockExcludesOutOfStock(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "Low", 2, 5, "1.00")
	f.addProduct(t, "Empty", 0, 5, "1.00")
	f.addProduct(t, "Plenty", 50, 5, "1.00")

	items, err := f.inventory.GetLowStockItems()
	if err != nil {
		t.Fatalf("GetLowStockItems: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Low" {
		t.Errorf("low stock items = %+v, want only Low", items)
	}
}

func TestSalesReportPlaceholders(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(f.saleRepo)

	p := f.addProduct(t, "Widget", 10, 5, "3.00")
	sellerID := f.addSeller(t)

	if _, err := f.sales.RecordSale(services.RecordSaleRequest{ProductID: p.ID, Quantity: 1}, sellerID); err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	// Deleting the product and the seller detaches the sale's references.
	if err := f.products.DeleteProduct(p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := f.db.Exec("DELETE FROM users WHERE id = $1", sellerID); err != nil {
		t.Fatalf("delete seller: %v", err)
	}

	today := time.Now().Format("2006-01-02")
	rows, err := reports.GetSalesReport(today, today)
	if err != nil {
		t.Fatalf("GetSalesReport: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("report rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.ProductName != models.DeletedProductName {
		t.Errorf("product name = %q, want %q", row.ProductName, models.DeletedProductName)
	}
	if row.Seller != models.UnknownSeller {
		t.Errorf("seller = %q, want %q", row.Seller, models.UnknownSeller)
	}
	if row.Brand != models.NoValue || row.Category != models.NoValue {
		t.Errorf("brand/category = %q/%q, want %q", row.Brand, row.Category, models.NoValue)
	}
	if !row.TotalPrice.Equal(decimal.RequireFromString("3.00")) {
		t.Errorf("total price = %s, want 3.00", row.TotalPrice)
	}
}

func TestAuditLogRoundTrip(t *testing.T) {
	f := newFixture(t)
	audit := services.NewAuditService(repositories.NewActivityLogRepository(f.db))

	actor := services.Actor{UserID: 0, Username: "admin", Role: models.RoleAdmin}
	audit.LogActivity(actor, "product_created", "Widget", map[string]interface{}{"stock": 10})
	audit.LogActivity(actor, "sale_recorded", "", nil)

	logs, err := audit.GetLogs(50, nil, nil)
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("log entries = %d, want 2", len(logs))
	}

	action := "product"
	filtered, err := audit.GetLogs(50, nil, &action)
	if err != nil {
		t.Fatalf("GetLogs filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Action != "product_created" {
		t.Errorf("filtered = %+v, want one product_created entry", filtered)
	}

	// A negative age puts the cutoff in the future, pruning everything.
	deleted, err := audit.ClearLogs(-time.Hour)
	if err != nil {
		t.Fatalf("ClearLogs: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
}

func TestExpiringItemsWindow(t *testing.T) {
	f := newFixture(t)

	today := time.Now().Format("2006-01-02")
	within := time.Now().AddDate(0, 0, 6).Format("2006-01-02")
	boundary := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	beyond := time.Now().AddDate(0, 0, 8).Format("2006-01-02")
	past := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	add := func(name, date string) {
		if _, err := f.products.AddProduct(services.ProductRequest{
			Name:           name,
			Price:          decimal.RequireFromString("1.00"),
			Stock:          1,
			ExpirationDate: date,
		}); err != nil {
			t.Fatalf("AddProduct(%s): %v", name, err)
		}
	}
	add("Today", today)
	add("Within", within)
	add("Boundary", boundary)
	add("Beyond", beyond)
	add("Past", past)

	items, err := f.inventory.GetExpiringItems(7)
	if err != nil {
		t.Fatalf("GetExpiringItems: %v", err)
	}

	got := map[string]bool{}
	for _, item := range items {
		got[item.Name] = true
	}
	for _, want := range []string{"Today", "Within", "Boundary"} {
		if !got[want] {
			t.Errorf("%s missing from expiring window", want)
		}
	}
	for _, reject := range []string{"Beyond", "Past"} {
		if got[reject] {
			t.Errorf("%s should not be in expiring window", reject)
		}
	}
}
