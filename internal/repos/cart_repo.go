package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	ProductID    string  `db:"product_id" json:"productId"`
	Title        string  `db:"title" json:"title"`
	Quantity     int     `db:"quantity" json:"quantity"`
	SellingPrice float64 `db:"selling_price" json:"sellingPrice"`
	Subtotal     float64 `db:"subtotal" json:"subtotal"`
}

// EnsureCart returns the buyer's cart id, creating the cart on first
// touch. One cart per user; it persists across sessions.
func (r *CartRepo) EnsureCart(userID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE user_id = ?`, userID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,user_id,updated_at) VALUES(?,?,?)`,
		userID, userID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *CartRepo) UpsertItem(cartID, productID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,product_id,quantity,created_at)
		VALUES(?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, qty)
	return err
}

// View joins cart lines to the owning distributor's price so the cart
// shows what checkout will actually charge. Not authoritative for
// stock.
func (r *CartRepo) View(cartID string) ([]CartItemRow, float64, error) {
	rows := []CartItemRow{}
	if err := r.db.Select(&rows, `
	  SELECT ci.product_id, p.title, ci.quantity,
	         COALESCE(i.selling_price, p.base_price) AS selling_price,
	         (ci.quantity * COALESCE(i.selling_price, p.base_price)) AS subtotal
	  FROM cart_items ci
	  JOIN products p ON p.id = ci.product_id
	  LEFT JOIN inventory i ON i.id = (
	    SELECT id FROM inventory
	    WHERE product_id = ci.product_id AND is_available = 1
	    ORDER BY distributor_id LIMIT 1
	  )
	  WHERE ci.cart_id = ?
	  ORDER BY ci.product_id
	`, cartID); err != nil {
		return nil, 0, err
	}
	total := 0.0
	for _, it := range rows {
		total += it.Subtotal
	}
	return rows, total, nil
}

func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	return err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// ClearProducts drains only the lines a checkout settled, leaving
// anything the buyer added meanwhile.
func (r *CartRepo) ClearProducts(e sqlx.Ext, cartID string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM cart_items WHERE cart_id = ? AND product_id IN (?)`, cartID, productIDs)
	if err != nil {
		return err
	}
	_, err = e.Exec(query, args...)
	return err
}
