package services

import (
	"fmt"

	"inventory_backend/internal/models"
	"inventory_backend/internal/repositories"
)

// DefaultExpiringDays is the lookahead window for the expiring-items alert
// when the caller does not supply one.
const DefaultExpiringDays = 7

// InventoryService serves the monitoring views over the product table: items
// running low, items close to their expiration date, and the modification
// history.
type InventoryService interface {
	GetLowStockItems() ([]models.Product, error)
	GetExpiringItems(daysThreshold int) ([]models.Product, error)
	GetInventoryHistory() ([]models.InventoryHistoryEntry, error)
}

type inventoryService struct {
	productRepo repositories.ProductRepository
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(productRepo repositories.ProductRepository) InventoryService {
	return &inventoryService{productRepo: productRepo}
}

func (s *inventoryService) GetLowStockItems() ([]models.Product, error) {
	items, err := s.productRepo.GetLowStockItems()
	if err != nil {
		return nil, fmt.Errorf("failed to get low stock items: %w", err)
	}
	return items, nil
}

// GetExpiringItems returns products expiring within daysThreshold days from
// today inclusive. Already-expired products are excluded.
func (s *inventoryService) GetExpiringItems(daysThreshold int) ([]models.Product, error) {
	if daysThreshold <= 0 {
		daysThreshold = DefaultExpiringDays
	}
	items, err := s.productRepo.GetExpiringItems(daysThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to get expiring items: %w", err)
	}
	return items, nil
}

func (s *inventoryService) GetInventoryHistory() ([]models.InventoryHistoryEntry, error) {
	entries, err := s.productRepo.GetInventoryHistory()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory history: %w", err)
	}
	return entries, nil
}
