package services

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
	"inventory_backend/pkg/utils"

	"github.com/xuri/excelize/v2"
)

var ErrInvalidDateRange = errors.New("invalid date range")

// ReportService produces the sales report for a date range, as rows or as an
// XLSX workbook.
type ReportService interface {
	GetSalesReport(startDate, endDate string) ([]models.SalesReportRow, error)
	ExportSalesReportXLSX(startDate, endDate string) ([]byte, error)
}

type reportService struct {
	saleRepo repositories.SaleRepository
}

// NewReportService creates a new instance of ReportService.
func NewReportService(saleRepo repositories.SaleRepository) ReportService {
	return &reportService{saleRepo: saleRepo}
}

// parseRange turns inclusive yyyy-mm-dd bounds into a half-open [start, end)
// interval so the full final day is covered without time-of-day arithmetic.
func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(utils.DateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start date %q", ErrInvalidDateRange, startDate)
	}
	end, err := time.Parse(utils.DateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end date %q", ErrInvalidDateRange, endDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %q before start %q", ErrInvalidDateRange, endDate, startDate)
	}
	return start, end.AddDate(0, 0, 1), nil
}

func (s *reportService) GetSalesReport(startDate, endDate string) ([]models.SalesReportRow, error) {
	start, endExclusive, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	rows, err := s.saleRepo.GetSalesReport(start, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales report: %w", err)
	}
	return rows, nil
}

var salesReportHeaders = []string{"Sale ID", "Product", "Brand", "Category", "Quantity", "Total Price", "Seller", "Sale Time"}

// ExportSalesReportXLSX renders the report as a single-sheet workbook and
// returns the serialized file.
func (s *reportService) ExportSalesReportXLSX(startDate, endDate string) ([]byte, error) {
	rows, err := s.GetSalesReport(startDate, endDate)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales Report"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range salesReportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.ID, row.ProductName, row.Brand, row.Category,
			row.Quantity, row.TotalPrice.InexactFloat64(),
			row.Seller, row.SaleTime.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize report workbook: %w", err)
	}
	return buf.Bytes(), nil
}
