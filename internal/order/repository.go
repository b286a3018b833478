package order

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("illegal status transition")
)

// Repository defines persistence operations for orders and their items.
// UpdateStatus enforces the legal-transition table itself so every caller is
// protected, not just the UI actions.
type Repository interface {
	Create(ord Order, items []Item) (Order, error)
	AddItem(item Item) (Item, error)
	GetByID(id string) (Order, error)
	GetBySessionID(sessionID string) (Order, error)
	ListByUser(userID int) ([]Order, error)
	ListByFarmer(farmerID int) ([]Order, error)
	ListAll() ([]Order, error)
	UpdateStatus(id string, status Status) (Order, error)
}

// InMemoryRepository backs tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
	nextID int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]*Order), nextID: 1}
}

func (r *InMemoryRepository) Create(ord Order, items []Item) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ord.Status == "" {
		ord.Status = StatusPending
	}
	ord.Items = make([]Item, 0, len(items))
	for _, item := range items {
		item.ID = r.nextID
		r.nextID++
		item.OrderID = ord.ID
		ord.Items = append(ord.Items, item)
	}

	stored := ord
	r.orders[ord.ID] = &stored
	return ord, nil
}

func (r *InMemoryRepository) AddItem(item Item) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord, ok := r.orders[item.OrderID]
	if !ok {
		return Item{}, ErrNotFound
	}
	item.ID = r.nextID
	r.nextID++
	ord.Items = append(ord.Items, item)
	return item, nil
}

func (r *InMemoryRepository) GetByID(id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(*ord), nil
}

func (r *InMemoryRepository) GetBySessionID(sessionID string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ord := range r.orders {
		if ord.PaymentSessionID != nil && *ord.PaymentSessionID == sessionID {
			return cloneOrder(*ord), nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if ord.UserID == userID {
			out = append(out, cloneOrder(*ord))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// ListByFarmer returns orders containing at least one of the farmer's items,
// with the item list filtered to that farmer only.
func (r *InMemoryRepository) ListByFarmer(farmerID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		mine := make([]Item, 0)
		for _, item := range ord.Items {
			if item.FarmerID == farmerID {
				mine = append(mine, item)
			}
		}
		if len(mine) == 0 {
			continue
		}
		filtered := cloneOrder(*ord)
		filtered.Items = mine
		out = append(out, filtered)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) ListAll() ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0, len(r.orders))
	for _, ord := range r.orders {
		out = append(out, cloneOrder(*ord))
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id string, status Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	if !CanTransition(ord.Status, status) {
		return Order{}, ErrInvalidTransition
	}
	ord.Status = status
	ord.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return cloneOrder(*ord), nil
}

func cloneOrder(ord Order) Order {
	items := make([]Item, len(ord.Items))
	copy(items, ord.Items)
	ord.Items = items
	return ord
}

func sortNewestFirst(orders []Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt > orders[j].CreatedAt
	})
}
