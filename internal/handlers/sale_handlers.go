package handlers

import (
	"errors"
	"net/http"

	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SaleHandler holds the sale and audit services.
type SaleHandler struct {
	saleService  services.SaleService
	auditService services.AuditService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService, audit services.AuditService) *SaleHandler {
	return &SaleHandler{saleService: ss, auditService: audit}
}

// RecordSale handles recording a sale for the authenticated seller.
func (h *SaleHandler) RecordSale(c *gin.Context) {
	var req services.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	actor := actorFromContext(c)
	sale, err := h.saleService.RecordSale(req, actor.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
		case errors.Is(err, services.ErrInsufficientStock):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock for the requested quantity.", err.Error()))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.LogError(err, "RecordSale: Error from saleService.RecordSale")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to record sale.", "Internal error"))
		}
		return
	}

	h.auditService.LogActivity(actor, "sale_recorded", "",
		gin.H{"sale_id": sale.ID, "product_id": req.ProductID, "quantity": req.Quantity, "total_price": sale.TotalPrice})
	c.JSON(http.StatusCreated, sale)
}

// UndoSale handles reversing a recorded sale.
func (h *SaleHandler) UndoSale(c *gin.Context) {
	saleID, ok := pathID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sale ID format.", ""))
		return
	}

	if err := h.saleService.UndoSale(saleID); err != nil {
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", ""))
			return
		}
		utils.LogError(err, "UndoSale: Error from saleService.UndoSale")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to undo sale.", "Internal error"))
		return
	}

	h.auditService.LogActivity(actorFromContext(c), "sale_undone", "", gin.H{"sale_id": saleID})
	c.JSON(http.StatusOK, gin.H{"message": "Sale undone"})
}
