package services_test

import (
	"testing"

	"tradehub/internal/domain"
	"tradehub/internal/services"
)

// Full path: partnership -> grant -> checkout -> deduction -> invoice.
func TestOrderFlowEndToEnd(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)
	approve(t, c, "d1", "r1", domain.TypeDistributorRetailer)

	if _, err := c.allocs.Grant("m1", "d1", "p1", 50, price(100)); err != nil {
		t.Fatal(err)
	}
	if got := stock(t, c, "d1", "p1"); got != 50 {
		t.Fatalf("want 50 credited, got %d", got)
	}

	if err := c.carts.Add("r1", "p1", 5); err != nil {
		t.Fatal(err)
	}

	res, err := c.orders.Place("r1", []services.Line{{ProductID: "p1", Quantity: 5}}, domain.DeliveryDirect, "first order")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 1 {
		t.Fatalf("want 1 order, got %d", len(res.Orders))
	}
	po := res.Orders[0]
	if po.Order.SellerID != "d1" || po.Order.BuyerID != "r1" || po.Order.Status != domain.OrderPlaced {
		t.Fatalf("bad order: %+v", po.Order)
	}
	if po.Order.TotalAmount != 500 {
		t.Fatalf("want total 500, got %v", po.Order.TotalAmount)
	}
	if got := stock(t, c, "d1", "p1"); got != 45 {
		t.Fatalf("want 45 after settlement, got %d", got)
	}

	// Invoice settled with the order: 500 + 10% tax + direct shipping
	if po.Invoice.OrderID != po.Order.ID {
		t.Fatalf("invoice not bound to order: %+v", po.Invoice)
	}
	if po.Invoice.TaxAmount != 50 || po.Invoice.ShippingAmount != 15 || po.Invoice.GrandTotal != 565 {
		t.Fatalf("bad invoice amounts: %+v", po.Invoice)
	}

	// Settled cart line drained
	cv, err := c.carts.View("r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", cv.Items)
	}
}

func TestPlaceIsAtomicAcrossLines(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)
	approve(t, c, "d1", "r1", domain.TypeDistributorRetailer)

	if _, err := c.allocs.Grant("m1", "d1", "p1", 50, price(100)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.allocs.Grant("m1", "d1", "p2", 1, price(40)); err != nil {
		t.Fatal(err)
	}

	// p1 deducts first (sorted order), then p2 fails; nothing persists
	_, err := c.orders.Place("r1", []services.Line{
		{ProductID: "p1", Quantity: 5},
		{ProductID: "p2", Quantity: 2},
	}, domain.DeliveryDirect, "")
	ise, ok := domain.IsInsufficientStock(err)
	if !ok {
		t.Fatalf("want InsufficientStockError, got %v", err)
	}
	if ise.ProductID != "p2" {
		t.Fatalf("error must name the offending product, got %s", ise.ProductID)
	}
	if got := stock(t, c, "d1", "p1"); got != 50 {
		t.Fatalf("p1 deduction leaked through rollback: %d", got)
	}
	if got := stock(t, c, "d1", "p2"); got != 1 {
		t.Fatalf("p2 changed: %d", got)
	}
}

func TestPlaceSplitsPerDistributor(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)
	approve(t, c, "m1", "d2", domain.TypeManufacturerDistributor)
	approve(t, c, "d1", "r1", domain.TypeDistributorRetailer)
	approve(t, c, "d2", "r1", domain.TypeDistributorRetailer)

	if _, err := c.allocs.Grant("m1", "d1", "p1", 20, price(100)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.allocs.Grant("m1", "d2", "p2", 20, price(50)); err != nil {
		t.Fatal(err)
	}

	res, err := c.orders.Place("r1", []services.Line{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}, domain.DeliveryDirect, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders) != 2 {
		t.Fatalf("want one order per distributor, got %d", len(res.Orders))
	}
	bySeller := map[string]services.PlacedOrder{}
	for _, po := range res.Orders {
		if po.Order.CheckoutRef != res.CheckoutRef {
			t.Fatalf("orders must share the checkout ref")
		}
		bySeller[po.Order.SellerID] = po
	}
	if bySeller["d1"].Order.TotalAmount != 200 {
		t.Fatalf("d1 total: %v", bySeller["d1"].Order.TotalAmount)
	}
	if bySeller["d2"].Order.TotalAmount != 150 {
		t.Fatalf("d2 total: %v", bySeller["d2"].Order.TotalAmount)
	}
	if got := stock(t, c, "d1", "p1"); got != 18 {
		t.Fatalf("d1 stock: %d", got)
	}
	if got := stock(t, c, "d2", "p2"); got != 17 {
		t.Fatalf("d2 stock: %d", got)
	}
}

func TestPlacePartnershipGate(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)
	if _, err := c.allocs.Grant("m1", "d1", "p1", 20, price(100)); err != nil {
		t.Fatal(err)
	}

	// No d1<->r1 partnership: direct delivery refused
	_, err := c.orders.Place("r1", []services.Line{{ProductID: "p1", Quantity: 1}}, domain.DeliveryDirect, "")
	if err != domain.ErrPartnershipRequired {
		t.Fatalf("want ErrPartnershipRequired, got %v", err)
	}
	if got := stock(t, c, "d1", "p1"); got != 20 {
		t.Fatalf("stock touched by refused checkout: %d", got)
	}

	// Drop-ship bypasses the partnership check
	res, err := c.orders.Place("r1", []services.Line{{ProductID: "p1", Quantity: 1}}, domain.DeliveryDropShip, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Orders[0].Invoice.ShippingAmount != 0 {
		t.Fatalf("drop-ship shipping must be 0, got %v", res.Orders[0].Invoice.ShippingAmount)
	}
}

func TestCancellationCreditsBack(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)
	approve(t, c, "d1", "r1", domain.TypeDistributorRetailer)
	if _, err := c.allocs.Grant("m1", "d1", "p1", 50, price(100)); err != nil {
		t.Fatal(err)
	}

	res, err := c.orders.Place("r1", []services.Line{{ProductID: "p1", Quantity: 3}}, domain.DeliveryDirect, "")
	if err != nil {
		t.Fatal(err)
	}
	orderID := res.Orders[0].Order.ID
	if got := stock(t, c, "d1", "p1"); got != 47 {
		t.Fatalf("want 47, got %d", got)
	}

	buyer := &domain.User{ID: "r1", Role: domain.RoleRetailer}
	if _, err := c.orders.UpdateStatus(orderID, buyer, domain.OrderCancelled); err != nil {
		t.Fatal(err)
	}
	if got := stock(t, c, "d1", "p1"); got != 50 {
		t.Fatalf("credit-back must restore exactly 3, got %d", got)
	}
}

func TestCancellationAfterShipmentRejected(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)
	approve(t, c, "d1", "r1", domain.TypeDistributorRetailer)
	if _, err := c.allocs.Grant("m1", "d1", "p1", 50, price(100)); err != nil {
		t.Fatal(err)
	}

	res, err := c.orders.Place("r1", []services.Line{{ProductID: "p1", Quantity: 3}}, domain.DeliveryDirect, "")
	if err != nil {
		t.Fatal(err)
	}
	orderID := res.Orders[0].Order.ID

	seller := &domain.User{ID: "d1", Role: domain.RoleDistributor}
	buyer := &domain.User{ID: "r1", Role: domain.RoleRetailer}

	// Seller advances; skipping CONFIRMED is rejected
	if _, err := c.orders.UpdateStatus(orderID, seller, domain.OrderShipped); err != domain.ErrInvalidTransition {
		t.Fatalf("want ErrInvalidTransition for PLACED->SHIPPED, got %v", err)
	}
	if _, err := c.orders.UpdateStatus(orderID, seller, domain.OrderConfirmed); err != nil {
		t.Fatal(err)
	}
	if _, err := c.orders.UpdateStatus(orderID, seller, domain.OrderShipped); err != nil {
		t.Fatal(err)
	}

	// Post-shipment cancellation fails and inventory stays put
	if _, err := c.orders.UpdateStatus(orderID, buyer, domain.OrderCancelled); err != domain.ErrInvalidTransition {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}
	if got := stock(t, c, "d1", "p1"); got != 47 {
		t.Fatalf("inventory must be unchanged at 47, got %d", got)
	}

	// Buyer cannot advance fulfillment
	if _, err := c.orders.UpdateStatus(orderID, buyer, domain.OrderDelivered); err != domain.ErrUnauthorized {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if _, err := c.orders.UpdateStatus(orderID, seller, domain.OrderDelivered); err != nil {
		t.Fatal(err)
	}
}

func TestPlaceClearsOnlySettledCartLines(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)
	approve(t, c, "d1", "r1", domain.TypeDistributorRetailer)
	if _, err := c.allocs.Grant("m1", "d1", "p1", 50, price(100)); err != nil {
		t.Fatal(err)
	}

	if err := c.carts.Add("r1", "p1", 2); err != nil {
		t.Fatal(err)
	}
	if err := c.carts.Add("r1", "p2", 4); err != nil {
		t.Fatal(err)
	}

	if _, err := c.orders.Place("r1", []services.Line{{ProductID: "p1", Quantity: 2}}, domain.DeliveryDirect, ""); err != nil {
		t.Fatal(err)
	}

	cv, err := c.carts.View("r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cv.Items) != 1 || cv.Items[0].ProductID != "p2" {
		t.Fatalf("only the settled line should drain: %+v", cv.Items)
	}
}

func TestPlaceMergesDuplicateLines(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)
	approve(t, c, "d1", "r1", domain.TypeDistributorRetailer)
	if _, err := c.allocs.Grant("m1", "d1", "p1", 10, price(100)); err != nil {
		t.Fatal(err)
	}

	res, err := c.orders.Place("r1", []services.Line{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p1", Quantity: 3},
	}, domain.DeliveryDirect, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Orders[0].Items) != 1 || res.Orders[0].Items[0].Quantity != 5 {
		t.Fatalf("duplicate lines must merge: %+v", res.Orders[0].Items)
	}
	if got := stock(t, c, "d1", "p1"); got != 5 {
		t.Fatalf("want 5, got %d", got)
	}
}
