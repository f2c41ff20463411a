package repos

import (
	"tradehub/internal/domain"

	"github.com/jmoiron/sqlx"
)

type InvoiceRepo struct{ db *sqlx.DB }

func NewInvoiceRepo(db *sqlx.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

const invoiceCols = `
  id, invoice_number, order_id, seller_id, buyer_id,
  total_amount, tax_amount, shipping_amount, grand_total,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *InvoiceRepo) Create(e sqlx.Ext, inv domain.Invoice) error {
	_, err := e.Exec(`
	  INSERT INTO invoices(id, invoice_number, order_id, seller_id, buyer_id,
	    total_amount, tax_amount, shipping_amount, grand_total, created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, inv.ID, inv.InvoiceNumber, inv.OrderID, inv.SellerID, inv.BuyerID,
		inv.TotalAmount, inv.TaxAmount, inv.ShippingAmount, inv.GrandTotal)
	return err
}

func (r *InvoiceRepo) Get(q sqlx.Queryer, id string) (domain.Invoice, error) {
	var inv domain.Invoice
	err := sqlx.Get(q, &inv, `SELECT `+invoiceCols+` FROM invoices WHERE id = ?`, id)
	return inv, err
}

// ByOrder backs the one-invoice-per-order idempotence check.
func (r *InvoiceRepo) ByOrder(q sqlx.Queryer, orderID string) (domain.Invoice, error) {
	var inv domain.Invoice
	err := sqlx.Get(q, &inv, `SELECT `+invoiceCols+` FROM invoices WHERE order_id = ?`, orderID)
	return inv, err
}

func (r *InvoiceRepo) ListForUser(userID string) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := r.db.Select(&out, `
	  SELECT `+invoiceCols+` FROM invoices
	  WHERE buyer_id = ? OR seller_id = ?
	  ORDER BY datetime(created_at) DESC
	`, userID, userID)
	return out, err
}
