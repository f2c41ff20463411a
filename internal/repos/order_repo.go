package repos

import (
	"tradehub/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `
  id, checkout_ref, buyer_id, seller_id, delivery_option, notes, total_amount, status,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *OrderRepo) Create(e sqlx.Ext, o domain.Order) error {
	_, err := e.Exec(`
	  INSERT INTO orders(id, checkout_ref, buyer_id, seller_id, delivery_option, notes, total_amount, status, created_at)
	  VALUES(?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, o.ID, o.CheckoutRef, o.BuyerID, o.SellerID, o.DeliveryOption, o.Notes, o.TotalAmount, o.Status)
	return err
}

func (r *OrderRepo) InsertItem(e sqlx.Ext, it domain.OrderItem) error {
	_, err := e.Exec(`
	  INSERT INTO order_items(order_id, product_id, quantity, unit_price)
	  VALUES(?,?,?,?)
	`, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice)
	return err
}

func (r *OrderRepo) Get(q sqlx.Queryer, id string) (domain.Order, error) {
	var o domain.Order
	err := sqlx.Get(q, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	return o, err
}

func (r *OrderRepo) Items(q sqlx.Queryer, orderID string) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := sqlx.Select(q, &items, `
	  SELECT order_id, product_id, quantity, unit_price
	  FROM order_items
	  WHERE order_id = ?
	  ORDER BY product_id
	`, orderID)
	return items, err
}

// SetStatus moves an order out of `from`; zero rows affected means the
// order changed underneath the caller and the transition must be
// re-checked.
func (r *OrderRepo) SetStatus(e sqlx.Ext, id, from, to string) (bool, error) {
	res, err := e.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = ?
	`, to, id, from)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *OrderRepo) ListForUser(userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  WHERE buyer_id = ? OR seller_id = ?
	  ORDER BY datetime(created_at) DESC
	`, userID, userID)
	return out, err
}

func (r *OrderRepo) ListByCheckout(checkoutRef string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT `+orderCols+` FROM orders
	  WHERE checkout_ref = ?
	  ORDER BY seller_id
	`, checkoutRef)
	return out, err
}
