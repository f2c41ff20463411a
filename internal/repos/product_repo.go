package repos

import (
	"tradehub/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, manufacturer_id, sku, title, COALESCE(description,'') AS description,
  base_price, stock_quantity, active,
  COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) ListByManufacturer(manufacturerID string, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE manufacturer_id = ? AND active = 1
	  ORDER BY created_at DESC
	  LIMIT ? OFFSET ?
	`, manufacturerID, limit, offset)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, manufacturer_id, sku, title, description, base_price, stock_quantity, active, created_at)
	  VALUES(?,?,?,?,?,?,?,1,CURRENT_TIMESTAMP)
	`, p.ID, p.ManufacturerID, p.SKU, p.Title, p.Description, p.BasePrice, p.StockQuantity)
	return err
}
