package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"tradehub/internal/domain"
	"tradehub/internal/repos"
	"tradehub/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// One connection so every statement sees the same in-memory DB.
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT UNIQUE, name TEXT, company_name TEXT DEFAULT '',
	  password_hash TEXT DEFAULT '', role TEXT);
	CREATE TABLE sessions(id TEXT PRIMARY KEY, user_id TEXT, created_at TEXT, last_seen TEXT);
	CREATE TABLE products(id TEXT PRIMARY KEY, manufacturer_id TEXT, sku TEXT, title TEXT, description TEXT,
	  base_price NUMERIC, stock_quantity INTEGER DEFAULT 0, active INTEGER DEFAULT 1, created_at TEXT, updated_at TEXT);
	CREATE TABLE partnerships(id TEXT PRIMARY KEY, requester_id TEXT, partner_id TEXT,
	  partnership_type TEXT, status TEXT DEFAULT 'pending', created_at TEXT, updated_at TEXT);
	CREATE TABLE allocations(id TEXT PRIMARY KEY, manufacturer_id TEXT, distributor_id TEXT, product_id TEXT,
	  selling_price NUMERIC, allocated_quantity INTEGER DEFAULT 0, is_active INTEGER DEFAULT 1,
	  created_at TEXT, updated_at TEXT, UNIQUE(manufacturer_id, distributor_id, product_id));
	CREATE TABLE inventory(id TEXT PRIMARY KEY, distributor_id TEXT, product_id TEXT,
	  quantity INTEGER DEFAULT 0 CHECK (quantity >= 0), selling_price NUMERIC DEFAULT 0,
	  is_available INTEGER DEFAULT 1, created_at TEXT, updated_at TEXT, UNIQUE(distributor_id, product_id));
	CREATE TABLE carts(id TEXT PRIMARY KEY, user_id TEXT UNIQUE, updated_at TEXT);
	CREATE TABLE cart_items(cart_id TEXT, product_id TEXT, quantity INTEGER, created_at TEXT, updated_at TEXT,
	  PRIMARY KEY(cart_id, product_id));
	CREATE TABLE orders(id TEXT PRIMARY KEY, checkout_ref TEXT, buyer_id TEXT, seller_id TEXT,
	  delivery_option TEXT, notes TEXT DEFAULT '', total_amount NUMERIC, status TEXT, created_at TEXT, updated_at TEXT);
	CREATE TABLE order_items(order_id TEXT, product_id TEXT, quantity INTEGER, unit_price NUMERIC,
	  PRIMARY KEY(order_id, product_id));
	CREATE TABLE invoices(id TEXT PRIMARY KEY, invoice_number TEXT UNIQUE, order_id TEXT UNIQUE,
	  seller_id TEXT, buyer_id TEXT, total_amount NUMERIC, tax_amount NUMERIC, shipping_amount NUMERIC,
	  grand_total NUMERIC, created_at TEXT, updated_at TEXT);

	INSERT INTO users(id,email,name,role) VALUES
	  ('m1','m1@acme.test','Acme','MANUFACTURER'),
	  ('d1','d1@dist.test','Dist One','DISTRIBUTOR'),
	  ('d2','d2@dist.test','Dist Two','DISTRIBUTOR'),
	  ('r1','r1@shop.test','Shop One','RETAILER'),
	  ('r2','r2@shop.test','Shop Two','RETAILER');
	INSERT INTO products(id,manufacturer_id,sku,title,base_price,stock_quantity) VALUES
	  ('p1','m1','SKU-1','Widget',100.0,1000),
	  ('p2','m1','SKU-2','Gadget',40.0,1000);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

// core wires every service over one in-memory DB the way main does.
type core struct {
	db       *sqlx.DB
	invRepo  *repos.InventoryRepo
	products *repos.ProductRepo
	parts    *services.PartnershipService
	allocs   *services.AllocationService
	inv      *services.InventoryService
	carts    *services.CartService
	orders   *services.OrderService
	invoices *services.InvoiceService
}

func newCore(t *testing.T) *core {
	t.Helper()
	db := memdb(t)

	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	partRepo := repos.NewPartnershipRepo(db)
	allocRepo := repos.NewAllocationRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	invoiceRepo := repos.NewInvoiceRepo(db)

	partSvc := services.NewPartnershipService(partRepo, userRepo)
	shipping := map[string]float64{domain.DeliveryDirect: 15.0, domain.DeliveryDropShip: 0}
	invoiceSvc := services.NewInvoiceService(db, invoiceRepo, orderRepo, userRepo, services.FlatRate(0.10), shipping)

	return &core{
		db:       db,
		invRepo:  invRepo,
		products: prodRepo,
		parts:    partSvc,
		allocs:   services.NewAllocationService(db, allocRepo, invRepo, prodRepo, partSvc),
		inv:      services.NewInventoryService(invRepo),
		carts:    services.NewCartService(cartRepo, prodRepo),
		orders:   services.NewOrderService(db, cartRepo, invRepo, orderRepo, partRepo, invoiceSvc, services.NewNotifier()),
		invoices: invoiceSvc,
	}
}

// approve runs the request/respond handshake so a test starts from an
// approved relationship.
func approve(t *testing.T, c *core, requester, partner, ptype string) {
	t.Helper()
	p, err := c.parts.Request(requester, partner, ptype)
	if err != nil {
		t.Fatalf("request partnership: %v", err)
	}
	if _, err := c.parts.Respond(p.ID, partner, "approved"); err != nil {
		t.Fatalf("approve partnership: %v", err)
	}
}

func stock(t *testing.T, c *core, distributorID, productID string) int {
	t.Helper()
	inv, err := c.invRepo.Get(c.db, distributorID, productID)
	if err != nil {
		t.Fatalf("read inventory: %v", err)
	}
	return inv.Quantity
}

func price(f float64) *float64 { return &f }
