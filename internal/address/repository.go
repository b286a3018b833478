package address

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("address not found")

type Repository interface {
	ListByUser(userID int) ([]Address, error)
	Create(a Address) (Address, error)
	Update(userID, addressID int, a Address) (Address, error)
	Delete(userID, addressID int) error
}

type InMemoryRepository struct {
	mu        sync.RWMutex
	addresses []Address
	nextID    int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Address, 0)
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a.AddressID = r.nextID
	r.nextID++
	r.addresses = append(r.addresses, a)
	return a, nil
}

func (r *InMemoryRepository) Update(userID, addressID int, update Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.addresses {
		if a.AddressID == addressID && a.UserID == userID {
			update.AddressID = addressID
			update.UserID = userID
			if update.CreatedAt == "" {
				update.CreatedAt = a.CreatedAt
			}
			r.addresses[i] = update
			return update, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(userID, addressID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.addresses {
		if a.AddressID == addressID && a.UserID == userID {
			r.addresses = append(r.addresses[:i], r.addresses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
