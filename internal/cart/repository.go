package cart

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("user not found")

// Repository stores the raw product->quantity map for a user.
type Repository interface {
	Get(userID int) (map[int]int, error)
	Add(userID, productID, qty int) (map[int]int, error)
	Remove(userID, productID int) (map[int]int, error)
	Clear(userID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[int]map[int]int
}

func NewInMemoryRepository(userIDs ...int) *InMemoryRepository {
	r := &InMemoryRepository{carts: make(map[int]map[int]int)}
	for _, id := range userIDs {
		r.carts[id] = make(map[int]int)
	}
	return r
}

func (r *InMemoryRepository) Get(userID int) (map[int]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCart(cart), nil
}

func (r *InMemoryRepository) Add(userID, productID, qty int) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cart[productID] += qty
	if cart[productID] <= 0 {
		delete(cart, productID)
	}
	return copyCart(cart), nil
}

func (r *InMemoryRepository) Remove(userID, productID int) (map[int]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	delete(cart, productID)
	return copyCart(cart), nil
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[userID]; !ok {
		return ErrNotFound
	}
	r.carts[userID] = make(map[int]int)
	return nil
}

func copyCart(cart map[int]int) map[int]int {
	out := make(map[int]int, len(cart))
	for k, v := range cart {
		out[k] = v
	}
	return out
}
