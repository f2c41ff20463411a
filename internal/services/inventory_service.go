package services

import (
	"database/sql"

	"tradehub/internal/domain"
	applog "tradehub/internal/log"
	"tradehub/internal/repos"
)

// InventoryService fronts the distributor-owned stock counters. The
// sell-path deduction lives in OrderService; everything here is the
// lower-contention read/credit side.
type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

// Availability is the public stock summary for one product.
type Availability struct {
	ProductID     string `json:"productId"`
	DistributorID string `json:"distributorId,omitempty"`
	Status        string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Quantity      int    `json:"quantity,omitempty"`
}

// CheckAvailability converts the owning distributor's quantity into
// IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(productID string) (Availability, error) {
	inv, err := s.Inv.ForProduct(s.Inv.DB(), productID)
	if err != nil {
		// No available row means nobody stocks it.
		if err == sql.ErrNoRows {
			return Availability{ProductID: productID, Status: "OUT_OF_STOCK"}, nil
		}
		return Availability{}, err
	}
	if inv.Quantity < 0 {
		applog.Integrity("inventory.negative", domain.ErrDataIntegrity,
			map[string]any{"distributor_id": inv.DistributorID, "product_id": productID, "quantity": inv.Quantity})
		return Availability{}, domain.ErrDataIntegrity
	}

	status := "OUT_OF_STOCK"
	switch {
	case inv.Quantity > domain.LowStockThreshold:
		status = "IN_STOCK"
	case inv.Quantity > 0:
		status = "LOW_STOCK"
	}
	return Availability{ProductID: productID, DistributorID: inv.DistributorID, Status: status, Quantity: inv.Quantity}, nil
}

// List returns a distributor's stock with the derived low-stock flags.
func (s *InventoryService) List(distributorID string) ([]domain.InventoryView, error) {
	rows, err := s.Inv.ListByDistributor(distributorID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.InventoryView, 0, len(rows))
	for _, inv := range rows {
		if inv.Quantity < 0 {
			applog.Integrity("inventory.negative", domain.ErrDataIntegrity,
				map[string]any{"distributor_id": inv.DistributorID, "product_id": inv.ProductID, "quantity": inv.Quantity})
			return nil, domain.ErrDataIntegrity
		}
		out = append(out, inv.View())
	}
	return out, nil
}

func (s *InventoryService) SetPrice(distributorID, productID string, price float64) error {
	ok, err := s.Inv.SetPrice(distributorID, productID, price)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *InventoryService) SetAvailable(distributorID, productID string, available bool) error {
	ok, err := s.Inv.SetAvailable(distributorID, productID, available)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
