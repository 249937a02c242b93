package handlers

import (
	"errors"
	"net/http"

	"inventory_backend/internal/models"
	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CategoryHandler holds the category and audit services.
type CategoryHandler struct {
	categoryService services.CategoryService
	auditService    services.AuditService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(cs services.CategoryService, audit services.AuditService) *CategoryHandler {
	return &CategoryHandler{categoryService: cs, auditService: audit}
}

// GetCategories handles fetching all categories.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		utils.LogError(err, "GetCategories: Error from categoryService.GetCategories")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch categories.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles creation of a new category.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name)
	if err != nil {
		if errors.Is(err, services.ErrCategoryExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name already exists.", ""))
			return
		}
		utils.LogError(err, "CreateCategory: Error from categoryService.CreateCategory")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create category.", "Internal error"))
		return
	}

	h.auditService.LogActivity(actorFromContext(c), "category_created", category.Name, nil)
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles renaming a category.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, ok := pathID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", ""))
		return
	}

	var req models.Category
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.categoryService.UpdateCategory(categoryID, req.Name); err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", ""))
		case errors.Is(err, services.ErrCategoryExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name already exists.", ""))
		default:
			utils.LogError(err, "UpdateCategory: Error from categoryService.UpdateCategory")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update category.", "Internal error"))
		}
		return
	}

	h.auditService.LogActivity(actorFromContext(c), "category_updated", req.Name, gin.H{"category_id": categoryID})
	c.JSON(http.StatusOK, gin.H{"id": categoryID, "name": req.Name})
}

// DeleteCategory handles deleting a category. Categories still referenced by
// products are refused.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, ok := pathID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", ""))
		return
	}

	if err := h.categoryService.DeleteCategory(categoryID); err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", ""))
		case errors.Is(err, services.ErrCategoryInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category is still referenced by products.", err.Error()))
		default:
			utils.LogError(err, "DeleteCategory: Error from categoryService.DeleteCategory")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete category.", "Internal error"))
		}
		return
	}

	h.auditService.LogActivity(actorFromContext(c), "category_deleted", "", gin.H{"category_id": categoryID})
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
