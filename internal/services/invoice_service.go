package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradehub/internal/domain"
	"tradehub/internal/repos"
)

// RateFunc computes the tax owed on an order total. Pluggable so the
// flat configured rate can be swapped for real business rules later.
type RateFunc func(total float64) float64

// FlatRate returns a RateFunc charging a fixed fraction of the total.
func FlatRate(rate float64) RateFunc {
	return func(total float64) float64 { return round2(total * rate) }
}

func round2(f float64) float64 {
	return float64(int64(f*100+0.5)) / 100
}

// InvoiceService derives one immutable invoice per settled order.
type InvoiceService struct {
	DB       *sqlx.DB
	Invoices *repos.InvoiceRepo
	Orders   *repos.OrderRepo
	Users    *repos.UserRepo
	Tax      RateFunc
	Shipping map[string]float64 // delivery option -> flat fee
}

func NewInvoiceService(db *sqlx.DB, inv *repos.InvoiceRepo, orders *repos.OrderRepo, users *repos.UserRepo, tax RateFunc, shipping map[string]float64) *InvoiceService {
	return &InvoiceService{DB: db, Invoices: inv, Orders: orders, Users: users, Tax: tax, Shipping: shipping}
}

func invoiceNumber() string {
	return fmt.Sprintf("INV-%s-%s", time.Now().UTC().Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))
}

// settled statuses: an order that exists in any forward status has
// been through settlement; only a cancelled order is excluded from
// fresh invoice generation.
func settled(status string) bool {
	switch status {
	case domain.OrderPlaced, domain.OrderConfirmed, domain.OrderShipped, domain.OrderDelivered:
		return true
	}
	return false
}

// Generate returns the order's invoice, creating it if absent.
// Idempotent: a second call returns the stored invoice unchanged,
// backed by the UNIQUE(order_id) index.
func (s *InvoiceService) Generate(orderID string) (domain.Invoice, error) {
	if inv, err := s.Invoices.ByOrder(s.DB, orderID); err == nil {
		return inv, nil
	} else if err != sql.ErrNoRows {
		return domain.Invoice{}, err
	}

	o, err := s.Orders.Get(s.DB, orderID)
	if err != nil {
		return domain.Invoice{}, domain.ErrOrderNotSettled
	}
	if !settled(o.Status) {
		return domain.Invoice{}, domain.ErrOrderNotSettled
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Invoice{}, err
	}
	defer func() { _ = tx.Rollback() }()

	inv, err := s.generate(tx, o)
	if err != nil {
		return domain.Invoice{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

// generate writes the invoice inside the caller's transaction. The
// settlement path calls this so order and invoice commit as one unit.
func (s *InvoiceService) generate(e sqlx.Ext, o domain.Order) (domain.Invoice, error) {
	// Line totals were frozen into order_items at settlement; the
	// order header carries their sum.
	total := o.TotalAmount
	tax := s.Tax(total)
	shipping := s.Shipping[o.DeliveryOption]

	inv := domain.Invoice{
		ID:             uuid.NewString(),
		InvoiceNumber:  invoiceNumber(),
		OrderID:        o.ID,
		SellerID:       o.SellerID,
		BuyerID:        o.BuyerID,
		TotalAmount:    total,
		TaxAmount:      tax,
		ShippingAmount: shipping,
		GrandTotal:     round2(total + tax + shipping),
	}
	if err := s.Invoices.Create(e, inv); err != nil {
		// A concurrent Generate won the unique race; surface theirs.
		if existing, gerr := s.Invoices.ByOrder(e, o.ID); gerr == nil {
			return existing, nil
		}
		return domain.Invoice{}, err
	}
	return inv, nil
}

// InvoiceDetail is the wire shape with nested order and party
// summaries.
type InvoiceDetail struct {
	domain.Invoice
	Order  domain.Order        `json:"order"`
	Seller domain.PartySummary `json:"seller"`
	Buyer  domain.PartySummary `json:"buyer"`
}

func (s *InvoiceService) Get(invoiceID string, actor *domain.User) (InvoiceDetail, error) {
	inv, err := s.Invoices.Get(s.DB, invoiceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return InvoiceDetail{}, domain.ErrNotFound
		}
		return InvoiceDetail{}, err
	}
	if actor.Role != domain.RoleAdmin && actor.ID != inv.BuyerID && actor.ID != inv.SellerID {
		return InvoiceDetail{}, domain.ErrUnauthorized
	}
	return s.detail(inv)
}

func (s *InvoiceService) detail(inv domain.Invoice) (InvoiceDetail, error) {
	o, err := s.Orders.Get(s.DB, inv.OrderID)
	if err != nil {
		return InvoiceDetail{}, err
	}
	seller, err := s.Users.Summary(inv.SellerID)
	if err != nil {
		return InvoiceDetail{}, err
	}
	buyer, err := s.Users.Summary(inv.BuyerID)
	if err != nil {
		return InvoiceDetail{}, err
	}
	return InvoiceDetail{Invoice: inv, Order: o, Seller: seller, Buyer: buyer}, nil
}

func (s *InvoiceService) ListForUser(userID string) ([]domain.Invoice, error) {
	return s.Invoices.ListForUser(userID)
}
