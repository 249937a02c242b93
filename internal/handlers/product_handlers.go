package handlers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"inventory_backend/internal/models"
	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler holds the product and audit services plus the image storage
// location.
type ProductHandler struct {
	productService services.ProductService
	auditService   services.AuditService
	imageDir       string
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService, audit services.AuditService, imageDir string) *ProductHandler {
	return &ProductHandler{productService: ps, auditService: audit, imageDir: imageDir}
}

// GetProducts handles fetching products with optional filters:
// ?category_id=, ?search=, ?min_stock=, ?max_stock=.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filters models.ProductFilters

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category_id filter.", ""))
			return
		}
		filters.CategoryID = &id
	}
	if v := c.Query("search"); v != "" {
		filters.Search = &v
	}
	if v := c.Query("min_stock"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid min_stock filter.", ""))
			return
		}
		filters.MinStock = &n
	}
	if v := c.Query("max_stock"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid max_stock filter.", ""))
			return
		}
		filters.MaxStock = &n
	}

	products, err := h.productService.GetProducts(filters)
	if err != nil {
		utils.LogError(err, "GetProducts: Error from productService.GetProducts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch products.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID handles fetching a single product.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", ""))
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
			return
		}
		utils.LogError(err, "GetProductByID: Error from productService.GetProductByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch product.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles adding a new product.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.AddProduct(req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "CreateProduct: Error from productService.AddProduct")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create product.", "Internal error"))
		return
	}

	h.auditService.LogActivity(actorFromContext(c), "product_created", product.Name,
		gin.H{"product_id": product.ID, "stock": product.Stock, "status": product.Status})
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles updating an existing product.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", ""))
		return
	}

	var req services.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(productID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.LogError(err, "UpdateProduct: Error from productService.UpdateProduct")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update product.", "Internal error"))
		}
		return
	}

	h.auditService.LogActivity(actorFromContext(c), "product_updated", product.Name,
		gin.H{"product_id": product.ID, "stock": product.Stock, "status": product.Status})
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product. Sales remain with a detached
// product reference; the stored image file is removed with the row.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", ""))
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
			return
		}
		utils.LogError(err, "DeleteProduct: Error from productService.GetProductByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete product.", "Internal error"))
		return
	}

	if err := h.productService.DeleteProduct(productID); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
			return
		}
		utils.LogError(err, "DeleteProduct: Error from productService.DeleteProduct")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete product.", "Internal error"))
		return
	}

	if product.ImagePath != nil {
		removeImageFile(*product.ImagePath)
	}

	h.auditService.LogActivity(actorFromContext(c), "product_deleted", product.Name, gin.H{"product_id": productID})
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

var allowedImageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// UploadProductImage stores an uploaded image under a generated name and
// updates the product's image path.
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	productID, ok := pathID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", ""))
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
			return
		}
		utils.LogError(err, "UploadProductImage: Error from productService.GetProductByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch product.", "Internal error"))
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Image file required in 'image' form field.", ""))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unsupported image type.", ext))
		return
	}

	if err := os.MkdirAll(h.imageDir, 0o755); err != nil {
		utils.LogError(err, "UploadProductImage: Failed to create image directory")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to store image.", "Internal error"))
		return
	}

	storedPath := filepath.Join(h.imageDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		utils.LogError(err, "UploadProductImage: Failed to save uploaded file")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to store image.", "Internal error"))
		return
	}

	req := productToRequest(product)
	req.ImagePath = storedPath
	updated, err := h.productService.UpdateProduct(productID, req)
	if err != nil {
		removeImageFile(storedPath)
		utils.LogError(err, "UploadProductImage: Error from productService.UpdateProduct")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update product image path.", "Internal error"))
		return
	}

	if product.ImagePath != nil && *product.ImagePath != storedPath {
		removeImageFile(*product.ImagePath)
	}

	h.auditService.LogActivity(actorFromContext(c), "product_image_uploaded", updated.Name,
		gin.H{"product_id": productID, "image_path": storedPath})
	c.JSON(http.StatusOK, updated)
}

// removeImageFile deletes a stored product image. A file that is already
// gone is not an error; anything else is logged and otherwise ignored since
// the database row is the source of truth.
func removeImageFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		utils.LogWarn("Failed to remove product image file", map[string]interface{}{"path": path, "error": err.Error()})
	}
}

// productToRequest projects a stored product back into the write DTO so a
// single field can be changed without losing the rest.
func productToRequest(p *models.Product) services.ProductRequest {
	req := services.ProductRequest{
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		Price:         p.Price,
		Stock:         p.Stock,
		MinStockLevel: p.MinStockLevel,
	}
	if p.Brand != nil {
		req.Brand = *p.Brand
	}
	if p.ImagePath != nil {
		req.ImagePath = *p.ImagePath
	}
	if p.ExpirationDate != nil {
		req.ExpirationDate = p.ExpirationDate.Format(utils.DateLayout)
	}
	return req
}
