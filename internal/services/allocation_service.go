package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradehub/internal/domain"
	"tradehub/internal/repos"
)

// AllocationService records what a manufacturer has released to a
// distributor and keeps the distributor's inventory credited in step.
type AllocationService struct {
	DB           *sqlx.DB
	Allocations  *repos.AllocationRepo
	Inventory    *repos.InventoryRepo
	Products     *repos.ProductRepo
	Partnerships *PartnershipService
}

func NewAllocationService(db *sqlx.DB, a *repos.AllocationRepo, inv *repos.InventoryRepo, prods *repos.ProductRepo, parts *PartnershipService) *AllocationService {
	return &AllocationService{DB: db, Allocations: a, Inventory: inv, Products: prods, Partnerships: parts}
}

// Grant creates or revises the allocation for the (manufacturer,
// distributor, product) triple. Only the *increase* in quantity is
// credited to inventory, so a correction can never erase stock that
// was already sold. Allocation upsert and inventory credit commit
// together.
func (s *AllocationService) Grant(manufacturerID, distributorID, productID string, quantity int, price *float64) (domain.Allocation, error) {
	if quantity < 0 {
		return domain.Allocation{}, domain.ErrBadInput
	}

	p, err := s.Products.Get(productID)
	if err != nil {
		return domain.Allocation{}, domain.ErrNotFound
	}
	if p.ManufacturerID != manufacturerID {
		return domain.Allocation{}, domain.ErrUnauthorized
	}

	ok, err := s.Partnerships.IsApproved(manufacturerID, distributorID, domain.TypeManufacturerDistributor)
	if err != nil {
		return domain.Allocation{}, err
	}
	if !ok {
		return domain.Allocation{}, domain.ErrPartnershipRequired
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Allocation{}, err
	}
	defer func() { _ = tx.Rollback() }()

	creditPrice := p.BasePrice
	if price != nil {
		creditPrice = *price
	}

	existing, err := s.Allocations.Find(tx, manufacturerID, distributorID, productID)
	switch {
	case err == sql.ErrNoRows:
		a := domain.Allocation{
			ID:                uuid.NewString(),
			ManufacturerID:    manufacturerID,
			DistributorID:     distributorID,
			ProductID:         productID,
			SellingPrice:      price,
			AllocatedQuantity: quantity,
			IsActive:          true,
		}
		if err := s.Allocations.Create(tx, a); err != nil {
			return domain.Allocation{}, err
		}
		if quantity > 0 {
			if err := s.Inventory.Credit(tx, distributorID, productID, quantity, creditPrice); err != nil {
				return domain.Allocation{}, err
			}
		}
		if err := tx.Commit(); err != nil {
			return domain.Allocation{}, err
		}
		return a, nil

	case err != nil:
		return domain.Allocation{}, err
	}

	if err := s.Allocations.Revise(tx, existing.ID, quantity, price); err != nil {
		return domain.Allocation{}, err
	}
	if delta := quantity - existing.AllocatedQuantity; delta > 0 {
		if err := s.Inventory.Credit(tx, distributorID, productID, delta, creditPrice); err != nil {
			return domain.Allocation{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Allocation{}, err
	}

	existing.AllocatedQuantity = quantity
	existing.SellingPrice = price
	existing.IsActive = true
	return existing, nil
}

// Revoke soft-retires the grant. Stock already credited stays with the
// distributor.
func (s *AllocationService) Revoke(allocationID, manufacturerID string) error {
	a, err := s.Allocations.Get(s.DB, allocationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}
	if a.ManufacturerID != manufacturerID {
		return domain.ErrUnauthorized
	}
	ok, err := s.Allocations.Deactivate(s.DB, allocationID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *AllocationService) ListByManufacturer(manufacturerID string) ([]domain.Allocation, error) {
	return s.Allocations.ListByManufacturer(manufacturerID)
}

func (s *AllocationService) ListByDistributor(distributorID string) ([]domain.Allocation, error) {
	return s.Allocations.ListByDistributor(distributorID)
}
