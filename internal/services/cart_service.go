package services

import (
	"tradehub/internal/domain"
	"tradehub/internal/repos"
)

// CartService is the buyer-side staging area. It only records intent;
// stock is checked and charged at checkout.
type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

func (s *CartService) Add(userID, productID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil || !p.Active {
		return domain.ErrNotFound
	}
	return s.Carts.UpsertItem(cartID, productID, qty)
}

type CartView struct {
	Items []repos.CartItemRow `json:"items"`
	Total float64             `json:"total"`
}

func (s *CartService) View(userID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return CartView{}, err
	}
	items, total, err := s.Carts.View(cartID)
	if err != nil {
		return CartView{}, err
	}
	return CartView{Items: items, Total: total}, nil
}

func (s *CartService) Remove(userID, productID string) error {
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, productID)
}

func (s *CartService) Clear(userID string) error {
	cartID, err := s.Carts.EnsureCart(userID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}
