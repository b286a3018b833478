package cart

import (
	"sort"

	"github.com/farmlink/farm-market-backend/internal/product"
)

// ServiceInterface is the cart surface the order and payment packages use.
type ServiceInterface interface {
	GetCart(userID int) (Cart, error)
	AddToCart(userID, productID, qty int) (Cart, error)
	RemoveFromCart(userID, productID int) (Cart, error)
	ClearCart(userID int) error
}

type Service struct {
	repo     Repository
	products product.ServiceInterface
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) GetCart(userID int) (Cart, error) {
	if userID <= 0 {
		return Cart{}, ErrNotFound
	}
	raw, err := s.repo.Get(userID)
	if err != nil {
		return Cart{}, err
	}
	return s.build(raw)
}

func (s *Service) AddToCart(userID, productID, qty int) (Cart, error) {
	if userID <= 0 || productID <= 0 {
		return Cart{}, ErrNotFound
	}
	// zero qty does nothing, but still return the current cart
	if qty == 0 {
		return s.GetCart(userID)
	}
	if qty > 0 {
		if _, err := s.products.GetByID(productID); err != nil {
			return Cart{}, err
		}
	}
	raw, err := s.repo.Add(userID, productID, qty)
	if err != nil {
		return Cart{}, err
	}
	return s.build(raw)
}

func (s *Service) RemoveFromCart(userID, productID int) (Cart, error) {
	if userID <= 0 || productID <= 0 {
		return Cart{}, ErrNotFound
	}
	raw, err := s.repo.Remove(userID, productID)
	if err != nil {
		return Cart{}, err
	}
	return s.build(raw)
}

func (s *Service) ClearCart(userID int) error {
	if userID <= 0 {
		return ErrNotFound
	}
	return s.repo.Clear(userID)
}

// build enriches the raw quantity map with product details and recomputes
// totals from first principles. Products that no longer exist are dropped
// from the view rather than failing the whole cart.
func (s *Service) build(raw map[int]int) (Cart, error) {
	ids := make([]int, 0, len(raw))
	for pid := range raw {
		ids = append(ids, pid)
	}
	sort.Ints(ids)

	products, err := s.products.ListByIDs(ids)
	if err != nil {
		return Cart{}, err
	}

	items := make([]Item, 0, len(products))
	for _, p := range products {
		items = append(items, Item{Product: p, Quantity: raw[p.ID]})
	}

	cart := Cart{Items: items}
	cart.Totals()
	return cart, nil
}
