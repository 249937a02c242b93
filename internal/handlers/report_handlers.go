package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"inventory_backend/internal/services"
	"inventory_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report and inventory services.
type ReportHandler struct {
	reportService    services.ReportService
	inventoryService services.InventoryService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService, is services.InventoryService) *ReportHandler {
	return &ReportHandler{reportService: rs, inventoryService: is}
}

// GetSalesReport handles fetching the sales report for an inclusive date
// range: ?start_date=yyyy-mm-dd&end_date=yyyy-mm-dd.
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	rows, err := h.reportService.GetSalesReport(startDate, endDate)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date range: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "GetSalesReport: Error from reportService.GetSalesReport")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sales report.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ExportSalesReport handles downloading the sales report as an XLSX file.
func (h *ReportHandler) ExportSalesReport(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	data, err := h.reportService.ExportSalesReportXLSX(startDate, endDate)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date range: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "ExportSalesReport: Error from reportService.ExportSalesReportXLSX")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to export sales report.", "Internal error"))
		return
	}

	filename := fmt.Sprintf("sales_report_%s_%s.xlsx", startDate, endDate)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// GetLowStockItems handles fetching products at or below their minimum
// stock level, excluding those already out of stock.
func (h *ReportHandler) GetLowStockItems(c *gin.Context) {
	items, err := h.inventoryService.GetLowStockItems()
	if err != nil {
		utils.LogError(err, "GetLowStockItems: Error from inventoryService.GetLowStockItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch low stock items.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetExpiringItems handles fetching products expiring within ?days= days
// (default 7).
func (h *ReportHandler) GetExpiringItems(c *gin.Context) {
	days := services.DefaultExpiringDays
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid days parameter.", ""))
			return
		}
		days = n
	}

	items, err := h.inventoryService.GetExpiringItems(days)
	if err != nil {
		utils.LogError(err, "GetExpiringItems: Error from inventoryService.GetExpiringItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch expiring items.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetInventoryHistory handles fetching products ordered by most recent
// modification.
func (h *ReportHandler) GetInventoryHistory(c *gin.Context) {
	entries, err := h.inventoryService.GetInventoryHistory()
	if err != nil {
		utils.LogError(err, "GetInventoryHistory: Error from inventoryService.GetInventoryHistory")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory history.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, entries)
}
