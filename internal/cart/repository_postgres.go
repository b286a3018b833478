package cart

import (
	"database/sql"
	"encoding/json"
	"strconv"
)

// PostgresRepository keeps the cart as a jsonb product->quantity map on the
// users row, so the cart survives across sessions.
type PostgresRepository struct {
	db *sql.DB
}

const (
	getCartQuery   = `SELECT cart FROM users WHERE user_id = $1`
	setCartQuery   = `UPDATE users SET cart = $1, updated_at = NOW() WHERE user_id = $2`
	clearCartQuery = `UPDATE users SET cart = '{}', updated_at = NOW() WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(userID int) (map[int]int, error) {
	var raw []byte
	err := r.db.QueryRow(getCartQuery, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeCart(raw)
}

func (r *PostgresRepository) Add(userID, productID, qty int) (map[int]int, error) {
	cart, err := r.Get(userID)
	if err != nil {
		return nil, err
	}

	cart[productID] += qty
	if cart[productID] <= 0 {
		delete(cart, productID)
	}

	if err := r.save(userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *PostgresRepository) Remove(userID, productID int) (map[int]int, error) {
	cart, err := r.Get(userID)
	if err != nil {
		return nil, err
	}

	delete(cart, productID)

	if err := r.save(userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *PostgresRepository) Clear(userID int) error {
	res, err := r.db.Exec(clearCartQuery, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) save(userID int, cart map[int]int) error {
	encoded := make(map[string]int, len(cart))
	for pid, qty := range cart {
		encoded[strconv.Itoa(pid)] = qty
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(setCartQuery, raw, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeCart(raw []byte) (map[int]int, error) {
	if len(raw) == 0 {
		return map[int]int{}, nil
	}

	encoded := map[string]int{}
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}

	cart := make(map[int]int, len(encoded))
	for pidStr, qty := range encoded {
		pid, err := strconv.Atoi(pidStr)
		if err != nil {
			continue
		}
		cart[pid] = qty
	}
	return cart, nil
}
