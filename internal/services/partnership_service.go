package services

import (
	"database/sql"

	"github.com/google/uuid"

	"tradehub/internal/domain"
	"tradehub/internal/repos"
)

// PartnershipService tracks bilateral trading relationships and their
// approval state. Allocation grants and direct-delivery checkouts both
// gate on IsApproved.
type PartnershipService struct {
	Partnerships *repos.PartnershipRepo
	Users        *repos.UserRepo
}

func NewPartnershipService(p *repos.PartnershipRepo, u *repos.UserRepo) *PartnershipService {
	return &PartnershipService{Partnerships: p, Users: u}
}

// rolePairs maps a partnership type to the two roles it may link.
var rolePairs = map[string][2]string{
	domain.TypeManufacturerDistributor: {domain.RoleManufacturer, domain.RoleDistributor},
	domain.TypeDistributorRetailer:     {domain.RoleDistributor, domain.RoleRetailer},
}

// Request opens a pending partnership. At most one non-rejected row
// may exist per ordered (requester, partner) pair and type; the check
// and insert share a transaction so two racing requests cannot both
// land.
func (s *PartnershipService) Request(requesterID, partnerID, ptype string) (domain.Partnership, error) {
	if requesterID == partnerID {
		return domain.Partnership{}, domain.ErrUnauthorized
	}

	requester, err := s.Users.ByID(requesterID)
	if err != nil {
		return domain.Partnership{}, domain.ErrNotFound
	}
	partner, err := s.Users.ByID(partnerID)
	if err != nil {
		return domain.Partnership{}, domain.ErrNotFound
	}
	pair, ok := rolePairs[ptype]
	if !ok {
		return domain.Partnership{}, domain.ErrNotFound
	}
	// Either side may initiate, but the two roles must match the type.
	fits := (requester.Role == pair[0] && partner.Role == pair[1]) ||
		(requester.Role == pair[1] && partner.Role == pair[0])
	if !fits {
		return domain.Partnership{}, domain.ErrUnauthorized
	}

	tx, err := s.Partnerships.DB().Beginx()
	if err != nil {
		return domain.Partnership{}, err
	}
	defer func() { _ = tx.Rollback() }()

	open, err := s.Partnerships.ExistsOpen(tx, requesterID, partnerID, ptype)
	if err != nil {
		return domain.Partnership{}, err
	}
	if open {
		return domain.Partnership{}, domain.ErrDuplicateRequest
	}

	p := domain.Partnership{
		ID:              uuid.NewString(),
		RequesterID:     requesterID,
		PartnerID:       partnerID,
		PartnershipType: ptype,
		Status:          domain.PartnershipPending,
	}
	if err := s.Partnerships.Create(tx, p); err != nil {
		return domain.Partnership{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Partnership{}, err
	}
	return p, nil
}

// Respond resolves a pending partnership exactly once. Only the
// receiving party may decide.
func (s *PartnershipService) Respond(partnershipID, responderID, decision string) (domain.Partnership, error) {
	db := s.Partnerships.DB()

	p, err := s.Partnerships.Get(db, partnershipID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Partnership{}, domain.ErrNotFound
		}
		return domain.Partnership{}, err
	}
	if p.PartnerID != responderID {
		return domain.Partnership{}, domain.ErrUnauthorized
	}
	if p.Status != domain.PartnershipPending {
		return domain.Partnership{}, domain.ErrAlreadyResolved
	}

	status := domain.PartnershipRejected
	if decision == "approved" {
		status = domain.PartnershipApproved
	}
	moved, err := s.Partnerships.Resolve(db, partnershipID, status)
	if err != nil {
		return domain.Partnership{}, err
	}
	if !moved {
		// Lost a race with a concurrent response.
		return domain.Partnership{}, domain.ErrAlreadyResolved
	}
	p.Status = status
	return p, nil
}

// IsApproved is the read-only predicate the allocation and order paths
// call before letting stock or money move between two parties.
func (s *PartnershipService) IsApproved(a, b, ptype string) (bool, error) {
	return s.Partnerships.IsApproved(s.Partnerships.DB(), a, b, ptype)
}

func (s *PartnershipService) ListForUser(userID string) ([]domain.Partnership, error) {
	return s.Partnerships.ListForUser(userID)
}
