package repos

import (
	"tradehub/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PartnershipRepo struct{ db *sqlx.DB }

func NewPartnershipRepo(db *sqlx.DB) *PartnershipRepo { return &PartnershipRepo{db: db} }

func (r *PartnershipRepo) DB() *sqlx.DB { return r.db }

const partnershipCols = `
  id, requester_id, partner_id, status, partnership_type,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *PartnershipRepo) Get(q sqlx.Queryer, id string) (domain.Partnership, error) {
	var p domain.Partnership
	err := sqlx.Get(q, &p, `SELECT `+partnershipCols+` FROM partnerships WHERE id = ?`, id)
	return p, err
}

// ExistsOpen reports whether a non-rejected partnership already exists
// for the ordered (requester, partner) pair and type.
func (r *PartnershipRepo) ExistsOpen(q sqlx.Queryer, requesterID, partnerID, ptype string) (bool, error) {
	var n int
	err := sqlx.Get(q, &n, `
	  SELECT COUNT(*) FROM partnerships
	  WHERE requester_id = ? AND partner_id = ? AND partnership_type = ? AND status <> 'rejected'
	`, requesterID, partnerID, ptype)
	return n > 0, err
}

// IsApproved is direction-agnostic: either party may have requested.
func (r *PartnershipRepo) IsApproved(q sqlx.Queryer, a, b, ptype string) (bool, error) {
	var n int
	err := sqlx.Get(q, &n, `
	  SELECT COUNT(*) FROM partnerships
	  WHERE partnership_type = ? AND status = 'approved'
	    AND ((requester_id = ? AND partner_id = ?) OR (requester_id = ? AND partner_id = ?))
	`, ptype, a, b, b, a)
	return n > 0, err
}

func (r *PartnershipRepo) Create(e sqlx.Ext, p domain.Partnership) error {
	_, err := e.Exec(`
	  INSERT INTO partnerships(id, requester_id, partner_id, partnership_type, status, created_at)
	  VALUES(?,?,?,?,'pending',CURRENT_TIMESTAMP)
	`, p.ID, p.RequesterID, p.PartnerID, p.PartnershipType)
	return err
}

// Resolve moves a pending partnership to approved/rejected; zero rows
// affected means it was already resolved.
func (r *PartnershipRepo) Resolve(e sqlx.Ext, id, status string) (bool, error) {
	res, err := e.Exec(`
	  UPDATE partnerships SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = 'pending'
	`, status, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *PartnershipRepo) ListForUser(userID string) ([]domain.Partnership, error) {
	var out []domain.Partnership
	err := r.db.Select(&out, `
	  SELECT `+partnershipCols+`
	  FROM partnerships
	  WHERE requester_id = ? OR partner_id = ?
	  ORDER BY datetime(created_at) DESC
	`, userID, userID)
	return out, err
}
