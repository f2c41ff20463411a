package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradehub/internal/domain"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

func (r *InventoryRepo) DB() *sqlx.DB { return r.db }

const inventoryCols = `
  id, distributor_id, product_id, quantity, selling_price, is_available,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *InventoryRepo) Get(q sqlx.Queryer, distributorID, productID string) (domain.Inventory, error) {
	var inv domain.Inventory
	err := sqlx.Get(q, &inv, `
	  SELECT `+inventoryCols+` FROM inventory
	  WHERE distributor_id = ? AND product_id = ?
	`, distributorID, productID)
	return inv, err
}

// ForProduct resolves the owning distributor's available row for a
// product. When several distributors stock it the lowest distributor
// id wins, keeping resolution deterministic.
func (r *InventoryRepo) ForProduct(q sqlx.Queryer, productID string) (domain.Inventory, error) {
	var inv domain.Inventory
	err := sqlx.Get(q, &inv, `
	  SELECT `+inventoryCols+` FROM inventory
	  WHERE product_id = ? AND is_available = 1
	  ORDER BY distributor_id
	  LIMIT 1
	`, productID)
	return inv, err
}

// Credit increases stock, creating the row on first credit. The
// conditional insert plus additive update keeps credits incremental,
// never a full overwrite.
func (r *InventoryRepo) Credit(e sqlx.Ext, distributorID, productID string, delta int, price float64) error {
	_, err := e.Exec(`
	  INSERT INTO inventory(id, distributor_id, product_id, quantity, selling_price, is_available, created_at)
	  VALUES(?,?,?,?,?,1,CURRENT_TIMESTAMP)
	  ON CONFLICT(distributor_id, product_id) DO UPDATE
	  SET quantity = quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), distributorID, productID, delta, price)
	return err
}

// Deduct atomically subtracts qty if enough stock exists and reports
// the remaining quantity. The quantity guard in the WHERE clause is
// the per-row serialization point: two concurrent deductions can
// never drive quantity negative. Zero rows affected means
// insufficient stock (or a missing row).
func (r *InventoryRepo) Deduct(e sqlx.Ext, distributorID, productID string, qty int) (int, bool, error) {
	res, err := e.Exec(`
	  UPDATE inventory
	  SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE distributor_id = ? AND product_id = ? AND quantity >= ?
	`, qty, distributorID, productID, qty)
	if err != nil {
		return 0, false, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, false, nil
	}
	var remaining int
	err = sqlx.Get(e, &remaining, `
	  SELECT quantity FROM inventory WHERE distributor_id = ? AND product_id = ?
	`, distributorID, productID)
	if err != nil {
		return 0, false, err
	}
	return remaining, true, nil
}

func (r *InventoryRepo) SetPrice(distributorID, productID string, price float64) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE inventory SET selling_price = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE distributor_id = ? AND product_id = ?
	`, price, distributorID, productID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *InventoryRepo) SetAvailable(distributorID, productID string, available bool) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE inventory SET is_available = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE distributor_id = ? AND product_id = ?
	`, available, distributorID, productID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *InventoryRepo) ListByDistributor(distributorID string) ([]domain.Inventory, error) {
	var out []domain.Inventory
	err := r.db.Select(&out, `
	  SELECT `+inventoryCols+` FROM inventory
	  WHERE distributor_id = ?
	  ORDER BY product_id
	`, distributorID)
	return out, err
}
