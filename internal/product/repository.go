package product

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	List(category string) []Product
	ListByFarmer(farmerID int) []Product
	ListByIDs(ids []int) ([]Product, error)
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	products []Product
	nextID   int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	repo := &InMemoryRepository{products: make([]Product, 0, len(seed)), nextID: 1}
	maxID := 0
	for _, p := range seed {
		repo.products = append(repo.products, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	repo.nextID = maxID + 1
	return repo
}

func (r *InMemoryRepository) List(category string) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *InMemoryRepository) ListByFarmer(farmerID int) []Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0)
	for _, p := range r.products {
		if p.FarmerID == farmerID {
			out = append(out, p)
		}
	}
	return out
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range r.products {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.products = append(r.products, p)
	return p, nil
}

func (r *InMemoryRepository) Update(id int, update Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			update.ID = id
			update.FarmerID = p.FarmerID
			if update.CreatedAt == "" {
				update.CreatedAt = p.CreatedAt
			}
			r.products[i] = update
			return update, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
