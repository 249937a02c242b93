package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"inventory_backend/internal/models"
	"inventory_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type stubProductService struct {
	product    *models.Product
	updateErr  error
	deleteErr  error
	lastUpdate services.ProductRequest
}

func (s *stubProductService) AddProduct(req services.ProductRequest) (*models.Product, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProductService) UpdateProduct(productID int64, req services.ProductRequest) (*models.Product, error) {
	s.lastUpdate = req
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.product, nil
}

func (s *stubProductService) DeleteProduct(productID int64) error { return s.deleteErr }

func (s *stubProductService) GetProducts(models.ProductFilters) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProductService) GetProductByID(productID int64) (*models.Product, error) {
	if s.product == nil {
		return nil, services.ErrProductNotFound
	}
	return s.product, nil
}

type stubAuditService struct{}

func (stubAuditService) LogActivity(services.Actor, string, string, interface{}) {}

func (stubAuditService) GetLogs(int, *int64, *string) ([]models.ActivityLog, error) {
	return nil, nil
}

func (stubAuditService) ClearLogs(time.Duration) (int64, error) { return 0, nil }

func writeTestImage(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("image bytes"), 0o644); err != nil {
		t.Fatalf("write test image: %v", err)
	}
}

func uploadImageRequest(t *testing.T, url string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "replacement.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("new image bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadProductImageRemovesReplacedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	oldPath := filepath.Join(dir, "old.png")
	writeTestImage(t, oldPath)

	stub := &stubProductService{
		product: &models.Product{ID: 1, Name: "Widget", ImagePath: &oldPath, MinStockLevel: 5},
	}
	h := NewProductHandler(stub, stubAuditService{}, dir)

	engine := gin.New()
	engine.POST("/products/:id/image", h.UploadProductImage)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, uploadImageRequest(t, "/products/1/image"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("replaced image file still on disk")
	}
	if stub.lastUpdate.ImagePath == "" {
		t.Fatal("no image path written to product")
	}
	if _, err := os.Stat(stub.lastUpdate.ImagePath); err != nil {
		t.Errorf("stored image missing: %v", err)
	}
}

func TestUploadProductImageCleansUpOnUpdateFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	oldPath := filepath.Join(dir, "old.png")
	writeTestImage(t, oldPath)

	stub := &stubProductService{
		product:   &models.Product{ID: 1, Name: "Widget", ImagePath: &oldPath, MinStockLevel: 5},
		updateErr: errors.New("write failed"),
	}
	h := NewProductHandler(stub, stubAuditService{}, dir)

	engine := gin.New()
	engine.POST("/products/:id/image", h.UploadProductImage)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, uploadImageRequest(t, "/products/1/image"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	// The old file survives a failed swap; the half-written new one does not.
	if _, err := os.Stat(oldPath); err != nil {
		t.Errorf("previous image removed despite failed update: %v", err)
	}
	if _, err := os.Stat(stub.lastUpdate.ImagePath); !os.IsNotExist(err) {
		t.Error("orphaned image left behind after failed update")
	}
}

func TestDeleteProductRemovesImageFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	imagePath := filepath.Join(dir, "widget.png")
	writeTestImage(t, imagePath)

	stub := &stubProductService{
		product: &models.Product{ID: 1, Name: "Widget", ImagePath: &imagePath, MinStockLevel: 5},
	}
	h := NewProductHandler(stub, stubAuditService{}, dir)

	engine := gin.New()
	engine.DELETE("/products/:id", h.DeleteProduct)

	req := httptest.NewRequest(http.MethodDelete, "/products/1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(imagePath); !os.IsNotExist(err) {
		t.Error("image file still on disk after product deletion")
	}
}
