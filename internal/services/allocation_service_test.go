package services_test

import (
	"testing"

	"tradehub/internal/domain"
)

func TestGrantRequiresPartnership(t *testing.T) {
	c := newCore(t)

	if _, err := c.allocs.Grant("m1", "d1", "p1", 10, price(100)); err != domain.ErrPartnershipRequired {
		t.Fatalf("want ErrPartnershipRequired, got %v", err)
	}
}

func TestGrantCreditsDeltaOnly(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)

	a, err := c.allocs.Grant("m1", "d1", "p1", 10, price(100))
	if err != nil {
		t.Fatal(err)
	}
	if a.AllocatedQuantity != 10 {
		t.Fatalf("want allocation 10, got %d", a.AllocatedQuantity)
	}
	if got := stock(t, c, "d1", "p1"); got != 10 {
		t.Fatalf("want inventory 10, got %d", got)
	}

	// Revising 10 -> 15 credits exactly the 5-unit increase
	if _, err := c.allocs.Grant("m1", "d1", "p1", 15, price(100)); err != nil {
		t.Fatal(err)
	}
	if got := stock(t, c, "d1", "p1"); got != 15 {
		t.Fatalf("want inventory 15 after delta credit, got %d", got)
	}

	// Revising downward never claws back credited stock
	a2, err := c.allocs.Grant("m1", "d1", "p1", 8, price(100))
	if err != nil {
		t.Fatal(err)
	}
	if a2.AllocatedQuantity != 8 {
		t.Fatalf("want allocation 8, got %d", a2.AllocatedQuantity)
	}
	if got := stock(t, c, "d1", "p1"); got != 15 {
		t.Fatalf("inventory must stay 15 after downward revision, got %d", got)
	}
}

func TestGrantOwnershipAndRevoke(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)

	// d1 does not own p1
	if _, err := c.allocs.Grant("d1", "d2", "p1", 5, nil); err != domain.ErrUnauthorized {
		t.Fatalf("want ErrUnauthorized for non-owner grant, got %v", err)
	}
	// Unknown product
	if _, err := c.allocs.Grant("m1", "d1", "missing", 5, nil); err != domain.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	a, err := c.allocs.Grant("m1", "d1", "p1", 20, price(100))
	if err != nil {
		t.Fatal(err)
	}

	// Only the granting manufacturer may revoke
	if err := c.allocs.Revoke(a.ID, "d1"); err != domain.ErrUnauthorized {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if err := c.allocs.Revoke(a.ID, "m1"); err != nil {
		t.Fatal(err)
	}
	// Revocation is not retroactive: credited stock stays
	if got := stock(t, c, "d1", "p1"); got != 20 {
		t.Fatalf("want inventory 20 after revoke, got %d", got)
	}

	// Already revoked
	if err := c.allocs.Revoke(a.ID, "m1"); err != domain.ErrNotFound {
		t.Fatalf("want ErrNotFound on second revoke, got %v", err)
	}
}

func TestGrantDefaultPriceFromProduct(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)

	// No selling price on the grant: inventory prices at the product's
	// base price
	if _, err := c.allocs.Grant("m1", "d1", "p2", 10, nil); err != nil {
		t.Fatal(err)
	}
	inv, err := c.invRepo.Get(c.db, "d1", "p2")
	if err != nil {
		t.Fatal(err)
	}
	if inv.SellingPrice != 40.0 {
		t.Fatalf("want base price 40.0, got %v", inv.SellingPrice)
	}
}

// Catalog rows seeded without description or timestamps must still
// load cleanly; a sparse row should never read as a missing product.
func TestGrantToleratesSparseProductRows(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)

	p, err := c.products.Get("p1")
	if err != nil {
		t.Fatalf("sparse product row failed to load: %v", err)
	}
	if p.Description != "" || p.Title != "Widget" {
		t.Fatalf("unexpected product fields: %+v", p)
	}

	if _, err := c.allocs.Grant("m1", "d1", "p1", 5, price(100)); err != nil {
		t.Fatalf("grant against sparse product row: %v", err)
	}
}

func TestGrantRejectsNegativeQuantity(t *testing.T) {
	c := newCore(t)
	approve(t, c, "m1", "d1", domain.TypeManufacturerDistributor)

	if _, err := c.allocs.Grant("m1", "d1", "p1", -1, price(100)); err != domain.ErrBadInput {
		t.Fatalf("want ErrBadInput, got %v", err)
	}
}
