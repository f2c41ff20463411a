package services

import (
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradehub/internal/domain"
	"tradehub/internal/repos"
)

// OrderService settles checkouts: it validates the buyer's lines
// against distributor inventory, deducts stock all-or-nothing inside
// one transaction, and emits the order and invoice records together.
type OrderService struct {
	DB           *sqlx.DB
	Carts        *repos.CartRepo
	Inv          *repos.InventoryRepo
	Orders       *repos.OrderRepo
	Partnerships *repos.PartnershipRepo
	Invoices     *InvoiceService
	Notify       *Notifier
}

func NewOrderService(db *sqlx.DB, carts *repos.CartRepo, inv *repos.InventoryRepo, orders *repos.OrderRepo,
	parts *repos.PartnershipRepo, invoices *InvoiceService, notify *Notifier) *OrderService {
	return &OrderService{DB: db, Carts: carts, Inv: inv, Orders: orders, Partnerships: parts, Invoices: invoices, Notify: notify}
}

// Line is one (product, quantity) pair of a checkout request.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlacedOrder pairs a created order with its items and invoice.
type PlacedOrder struct {
	Order   domain.Order       `json:"order"`
	Items   []domain.OrderItem `json:"items"`
	Invoice domain.Invoice     `json:"invoice"`
}

// PlaceResult is the checkout response. A checkout spanning several
// distributors yields one order per seller under a shared ref.
type PlaceResult struct {
	CheckoutRef string        `json:"checkoutRef"`
	Orders      []PlacedOrder `json:"orders"`
}

// resolvedLine is a checkout line bound to its owning distributor's
// inventory row.
type resolvedLine struct {
	productID     string
	quantity      int
	distributorID string
	unitPrice     float64
	available     int
}

// busyAttempts bounds retries when sqlite reports lock contention
// before the failure surfaces to the caller.
const busyAttempts = 3

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// Place runs the whole settlement. Steps: merge lines, resolve each
// product's owning distributor, gate on partnership for direct
// delivery, deduct every line in deterministic order, then create one
// order+invoice per seller and drain the matching cart lines, all in
// a single transaction. Any insufficient line rolls everything back.
func (s *OrderService) Place(buyerID string, lines []Line, deliveryOption, notes string) (PlaceResult, error) {
	merged := mergeLines(lines)
	if len(merged) == 0 {
		return PlaceResult{}, domain.ErrNotFound
	}

	var res PlaceResult
	var lowStock []string
	var err error
	for attempt := 0; attempt < busyAttempts; attempt++ {
		res, lowStock, err = s.placeOnce(buyerID, merged, deliveryOption, notes)
		if !isBusy(err) {
			break
		}
	}
	if isBusy(err) {
		// Retries exhausted; the contention is the caller's to retry.
		return PlaceResult{}, domain.ErrConflict
	}
	if err != nil {
		return PlaceResult{}, err
	}

	s.Notify.Dispatch("order.placed", map[string]any{
		"checkout_ref": res.CheckoutRef,
		"buyer_id":     buyerID,
		"orders":       len(res.Orders),
	})
	if len(lowStock) > 0 {
		s.Notify.Dispatch("inventory.low_stock", map[string]any{
			"checkout_ref": res.CheckoutRef,
			"products":     lowStock,
		})
	}
	return res, nil
}

func (s *OrderService) placeOnce(buyerID string, lines []Line, deliveryOption, notes string) (PlaceResult, []string, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return PlaceResult{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	resolved, err := s.resolve(tx, lines)
	if err != nil {
		return PlaceResult{}, nil, err
	}

	// Partnership gate per distributor. Drop-ship bypasses it.
	if deliveryOption == domain.DeliveryDirect {
		for _, dist := range distributors(resolved) {
			ok, err := s.Partnerships.IsApproved(tx, dist, buyerID, domain.TypeDistributorRetailer)
			if err != nil {
				return PlaceResult{}, nil, err
			}
			if !ok {
				return PlaceResult{}, nil, domain.ErrPartnershipRequired
			}
		}
	}

	// Deduct in (distributor, product) order so two overlapping
	// checkouts always touch rows in the same sequence.
	sort.Slice(resolved, func(i, j int) bool {
		if resolved[i].distributorID != resolved[j].distributorID {
			return resolved[i].distributorID < resolved[j].distributorID
		}
		return resolved[i].productID < resolved[j].productID
	})
	var lowStock []string
	for _, rl := range resolved {
		left, ok, err := s.Inv.Deduct(tx, rl.distributorID, rl.productID, rl.quantity)
		if err != nil {
			return PlaceResult{}, nil, err
		}
		if !ok {
			// Rollback via defer; nothing from this checkout persists.
			return PlaceResult{}, nil, &domain.InsufficientStockError{
				ProductID: rl.productID,
				Requested: rl.quantity,
				Available: rl.available,
			}
		}
		if left <= domain.LowStockThreshold {
			lowStock = append(lowStock, rl.productID)
		}
	}

	checkoutRef := uuid.NewString()
	result := PlaceResult{CheckoutRef: checkoutRef}
	settledProducts := make([]string, 0, len(resolved))

	for _, dist := range distributors(resolved) {
		var (
			total float64
			items []domain.OrderItem
		)
		orderID := uuid.NewString()
		for _, rl := range resolved {
			if rl.distributorID != dist {
				continue
			}
			items = append(items, domain.OrderItem{
				OrderID:   orderID,
				ProductID: rl.productID,
				Quantity:  rl.quantity,
				UnitPrice: rl.unitPrice,
			})
			total += rl.unitPrice * float64(rl.quantity)
			settledProducts = append(settledProducts, rl.productID)
		}

		o := domain.Order{
			ID:             orderID,
			CheckoutRef:    checkoutRef,
			BuyerID:        buyerID,
			SellerID:       dist,
			DeliveryOption: deliveryOption,
			Notes:          notes,
			TotalAmount:    total,
			Status:         domain.OrderPlaced,
		}
		if err := s.Orders.Create(tx, o); err != nil {
			return PlaceResult{}, nil, err
		}
		for _, it := range items {
			if err := s.Orders.InsertItem(tx, it); err != nil {
				return PlaceResult{}, nil, err
			}
		}

		inv, err := s.Invoices.generate(tx, o)
		if err != nil {
			return PlaceResult{}, nil, err
		}
		result.Orders = append(result.Orders, PlacedOrder{Order: o, Items: items, Invoice: inv})
	}

	if err := s.Carts.ClearProducts(tx, buyerID, settledProducts); err != nil {
		return PlaceResult{}, nil, err
	}

	if err := tx.Commit(); err != nil {
		return PlaceResult{}, nil, err
	}
	return result, lowStock, nil
}

// resolve binds each line to the inventory row that owns the product.
// A missing or unavailable row fails the same way an empty one would.
func (s *OrderService) resolve(q sqlx.Queryer, lines []Line) ([]resolvedLine, error) {
	out := make([]resolvedLine, 0, len(lines))
	for _, l := range lines {
		inv, err := s.Inv.ForProduct(q, l.ProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, &domain.InsufficientStockError{ProductID: l.ProductID, Requested: l.Quantity, Available: 0}
			}
			return nil, err
		}
		if inv.Quantity < 0 {
			return nil, domain.ErrDataIntegrity
		}
		out = append(out, resolvedLine{
			productID:     l.ProductID,
			quantity:      l.Quantity,
			distributorID: inv.DistributorID,
			unitPrice:     inv.SellingPrice,
			available:     inv.Quantity,
		})
	}
	return out, nil
}

// mergeLines folds duplicate products together and drops junk
// quantities.
func mergeLines(lines []Line) []Line {
	byProduct := map[string]int{}
	order := []string{}
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		if _, seen := byProduct[l.ProductID]; !seen {
			order = append(order, l.ProductID)
		}
		byProduct[l.ProductID] += l.Quantity
	}
	out := make([]Line, 0, len(order))
	for _, pid := range order {
		out = append(out, Line{ProductID: pid, Quantity: byProduct[pid]})
	}
	return out
}

func distributors(resolved []resolvedLine) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, rl := range resolved {
		if !seen[rl.distributorID] {
			seen[rl.distributorID] = true
			out = append(out, rl.distributorID)
		}
	}
	sort.Strings(out)
	return out
}

// UpdateStatus advances an order along PLACED -> CONFIRMED -> SHIPPED
// -> DELIVERED, or cancels it before shipment. Cancellation credits
// every line's quantity back to the seller's inventory in the same
// transaction.
func (s *OrderService) UpdateStatus(orderID string, actor *domain.User, next string) (domain.Order, error) {
	o, err := s.Orders.Get(s.DB, orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, err
	}

	if !statusActorAllowed(o, actor, next) {
		return domain.Order{}, domain.ErrUnauthorized
	}
	if !domain.CanTransition(o.Status, next) {
		return domain.Order{}, domain.ErrInvalidTransition
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	moved, err := s.Orders.SetStatus(tx, orderID, o.Status, next)
	if err != nil {
		return domain.Order{}, err
	}
	if !moved {
		// Status changed concurrently; the transition no longer holds.
		return domain.Order{}, domain.ErrInvalidTransition
	}

	if next == domain.OrderCancelled {
		items, err := s.Orders.Items(tx, orderID)
		if err != nil {
			return domain.Order{}, err
		}
		for _, it := range items {
			if err := s.Inv.Credit(tx, o.SellerID, it.ProductID, it.Quantity, it.UnitPrice); err != nil {
				return domain.Order{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}

	o.Status = next
	s.Notify.Dispatch("order.status", map[string]any{
		"order_id": orderID,
		"status":   next,
		"actor_id": actor.ID,
	})
	return o, nil
}

// statusActorAllowed: the seller advances fulfillment; buyer or seller
// may cancel; admin may do anything.
func statusActorAllowed(o domain.Order, actor *domain.User, next string) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	if next == domain.OrderCancelled {
		return actor.ID == o.BuyerID || actor.ID == o.SellerID
	}
	return actor.ID == o.SellerID
}

// OrderDetail pairs an order with its lines for read paths.
type OrderDetail struct {
	Order domain.Order       `json:"order"`
	Items []domain.OrderItem `json:"items"`
}

func (s *OrderService) Get(orderID string, actor *domain.User) (OrderDetail, error) {
	o, err := s.Orders.Get(s.DB, orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return OrderDetail{}, domain.ErrNotFound
		}
		return OrderDetail{}, err
	}
	if actor.Role != domain.RoleAdmin && actor.ID != o.BuyerID && actor.ID != o.SellerID {
		return OrderDetail{}, domain.ErrNotFound
	}
	items, err := s.Orders.Items(s.DB, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	return OrderDetail{Order: o, Items: items}, nil
}

func (s *OrderService) ListForUser(userID string) ([]domain.Order, error) {
	return s.Orders.ListForUser(userID)
}
