package repos

import (
	"tradehub/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AllocationRepo struct{ db *sqlx.DB }

func NewAllocationRepo(db *sqlx.DB) *AllocationRepo { return &AllocationRepo{db: db} }

const allocationCols = `
  id, manufacturer_id, distributor_id, product_id, selling_price, allocated_quantity, is_active,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *AllocationRepo) Get(q sqlx.Queryer, id string) (domain.Allocation, error) {
	var a domain.Allocation
	err := sqlx.Get(q, &a, `SELECT `+allocationCols+` FROM allocations WHERE id = ?`, id)
	return a, err
}

// Find returns the allocation for the (manufacturer, distributor,
// product) triple, or sql.ErrNoRows.
func (r *AllocationRepo) Find(q sqlx.Queryer, manufacturerID, distributorID, productID string) (domain.Allocation, error) {
	var a domain.Allocation
	err := sqlx.Get(q, &a, `
	  SELECT `+allocationCols+`
	  FROM allocations
	  WHERE manufacturer_id = ? AND distributor_id = ? AND product_id = ?
	`, manufacturerID, distributorID, productID)
	return a, err
}

func (r *AllocationRepo) Create(e sqlx.Ext, a domain.Allocation) error {
	_, err := e.Exec(`
	  INSERT INTO allocations(id, manufacturer_id, distributor_id, product_id, selling_price, allocated_quantity, is_active, created_at)
	  VALUES(?,?,?,?,?,?,1,CURRENT_TIMESTAMP)
	`, a.ID, a.ManufacturerID, a.DistributorID, a.ProductID, a.SellingPrice, a.AllocatedQuantity)
	return err
}

// Revise sets the grant to a new quantity/price. Stock already
// credited to inventory is untouched; the caller computes the credit
// delta.
func (r *AllocationRepo) Revise(e sqlx.Ext, id string, quantity int, price *float64) error {
	_, err := e.Exec(`
	  UPDATE allocations
	  SET allocated_quantity = ?, selling_price = ?, is_active = 1, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, quantity, price, id)
	return err
}

// Deactivate soft-retires the grant; zero rows means unknown id.
func (r *AllocationRepo) Deactivate(e sqlx.Ext, id string) (bool, error) {
	res, err := e.Exec(`
	  UPDATE allocations SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_active = 1
	`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *AllocationRepo) ListByManufacturer(manufacturerID string) ([]domain.Allocation, error) {
	var out []domain.Allocation
	err := r.db.Select(&out, `
	  SELECT `+allocationCols+` FROM allocations
	  WHERE manufacturer_id = ?
	  ORDER BY datetime(created_at) DESC
	`, manufacturerID)
	return out, err
}

func (r *AllocationRepo) ListByDistributor(distributorID string) ([]domain.Allocation, error) {
	var out []domain.Allocation
	err := r.db.Select(&out, `
	  SELECT `+allocationCols+` FROM allocations
	  WHERE distributor_id = ? AND is_active = 1
	  ORDER BY datetime(created_at) DESC
	`, distributorID)
	return out, err
}
