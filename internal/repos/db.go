package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Ensure demo users exist first (idempotent; safe to run every
	// start) -- the catalog references them.
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	// Seed a small catalog if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  company_name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('MANUFACTURER','DISTRIBUTOR','RETAILER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Products (manufacturer-owned master records)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  manufacturer_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  sku TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  base_price NUMERIC NOT NULL CHECK (base_price >= 0),
  stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_mfr_sku ON products(manufacturer_id, sku);
CREATE INDEX IF NOT EXISTS idx_products_manufacturer ON products(manufacturer_id);

-- Partnerships (bilateral, gated by approval)
CREATE TABLE IF NOT EXISTS partnerships(
  id TEXT PRIMARY KEY,
  requester_id TEXT NOT NULL REFERENCES users(id),
  partner_id   TEXT NOT NULL REFERENCES users(id),
  partnership_type TEXT NOT NULL CHECK (partnership_type IN ('manufacturer_distributor','distributor_retailer')),
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','rejected')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  CHECK (requester_id <> partner_id)
);
CREATE INDEX IF NOT EXISTS idx_partnerships_pair ON partnerships(requester_id, partner_id, partnership_type);
CREATE INDEX IF NOT EXISTS idx_partnerships_partner ON partnerships(partner_id);

-- Allocations (manufacturer grants to distributors)
CREATE TABLE IF NOT EXISTS allocations(
  id TEXT PRIMARY KEY,
  manufacturer_id TEXT NOT NULL REFERENCES users(id),
  distributor_id  TEXT NOT NULL REFERENCES users(id),
  product_id      TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  selling_price NUMERIC NULL CHECK (selling_price IS NULL OR selling_price >= 0),
  allocated_quantity INTEGER NOT NULL DEFAULT 0 CHECK (allocated_quantity >= 0),
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(manufacturer_id, distributor_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_allocations_distributor ON allocations(distributor_id);

-- Inventory (distributor-owned sell-side stock; rows are zeroed, never deleted)
CREATE TABLE IF NOT EXISTS inventory(
  id TEXT PRIMARY KEY,
  distributor_id TEXT NOT NULL REFERENCES users(id),
  product_id     TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  selling_price NUMERIC NOT NULL DEFAULT 0 CHECK (selling_price >= 0),
  is_available INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(distributor_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_inventory_product ON inventory(product_id);

-- Carts
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);

-- Orders (one row per seller; a multi-seller checkout shares checkout_ref)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  checkout_ref TEXT NOT NULL,
  buyer_id  TEXT NOT NULL REFERENCES users(id),
  seller_id TEXT NOT NULL REFERENCES users(id),
  delivery_option TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  total_amount NUMERIC NOT NULL CHECK (total_amount >= 0),
  status TEXT NOT NULL DEFAULT 'PLACED',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer  ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id);
CREATE INDEX IF NOT EXISTS idx_orders_checkout ON orders(checkout_ref);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  unit_price NUMERIC NOT NULL CHECK (unit_price >= 0),
  PRIMARY KEY (order_id, product_id)
);

-- Invoices (exactly one per order)
CREATE TABLE IF NOT EXISTS invoices(
  id TEXT PRIMARY KEY,
  invoice_number TEXT NOT NULL UNIQUE,
  order_id TEXT NOT NULL UNIQUE REFERENCES orders(id),
  seller_id TEXT NOT NULL REFERENCES users(id),
  buyer_id  TEXT NOT NULL REFERENCES users(id),
  total_amount    NUMERIC NOT NULL CHECK (total_amount >= 0),
  tax_amount      NUMERIC NOT NULL CHECK (tax_amount >= 0),
  shipping_amount NUMERIC NOT NULL CHECK (shipping_amount >= 0),
  grand_total     NUMERIC NOT NULL CHECK (grand_total >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo catalog")

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO products(id,manufacturer_id,sku,title,description,base_price,stock_quantity) VALUES
	  ('prd-widget-std','u-acme','WID-STD','Standard Widget','Workhorse widget, case of 24',12.50,5000),
	  ('prd-widget-pro','u-acme','WID-PRO','Pro Widget','Reinforced widget, case of 12',28.00,2000),
	  ('prd-gadget-mini','u-acme','GAD-MINI','Mini Gadget','Compact gadget, single unit',7.25,10000)`); err != nil {
		return err
	}
	return tx.Commit()
}

// seedUsers ensures one actor per marketplace tier plus an admin
// (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Company, Role, Hash string
	}
	mk := func(id, email, name, company, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Company: company, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-acme", "ops@acme.test", "Acme Manufacturing", "Acme Corp", "MANUFACTURER", "Passw0rd!"),
		mk("u-midwest", "sales@midwest.test", "Midwest Distribution", "Midwest Dist LLC", "DISTRIBUTOR", "Passw0rd!"),
		mk("u-corner", "buyer@corner.test", "Corner Store", "Corner Store Inc", "RETAILER", "Passw0rd!"),
		mk("u-admin", "admin@tradehub.test", "Admin", "TradeHub", "ADMIN", "Passw0rd!"),
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,company_name,password_hash,role)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Company, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
