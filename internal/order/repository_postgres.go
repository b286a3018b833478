package order

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
		INSERT INTO orders (order_id, user_id, status, total_amount,
			shipping_full_name, shipping_address, shipping_city, shipping_state,
			shipping_zip_code, shipping_country, shipping_phone,
			payment_method, payment_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`
	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, product_id, farmer_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING item_id
	`
	getOrderQuery = `
		SELECT o.order_id, o.user_id, COALESCE(u.full_name, ''), o.status, o.total_amount,
			o.shipping_full_name, o.shipping_address, o.shipping_city, o.shipping_state,
			o.shipping_zip_code, o.shipping_country, o.shipping_phone,
			o.payment_method, o.payment_session_id, o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN users u ON u.user_id = o.user_id
	`
	getOrderByIDQuery        = getOrderQuery + ` WHERE o.order_id = $1`
	getOrderBySessionIDQuery = getOrderQuery + ` WHERE o.payment_session_id = $1`
	listOrdersByUserQuery    = getOrderQuery + ` WHERE o.user_id = $1 ORDER BY o.created_at DESC`
	listAllOrdersQuery       = getOrderQuery + ` ORDER BY o.created_at DESC`
	listOrdersByFarmerQuery  = getOrderQuery + `
		WHERE EXISTS (
			SELECT 1 FROM order_items oi
			WHERE oi.order_id = o.order_id AND oi.farmer_id = $1
		)
		ORDER BY o.created_at DESC`

	// Missing products must not fail the read; the item keeps a placeholder
	// description instead.
	listItemsQuery = `
		SELECT oi.item_id, oi.order_id, oi.product_id, oi.farmer_id,
			COALESCE(p.name, 'Product Not Available'), oi.quantity, oi.price
		FROM order_items oi
		LEFT JOIN products p ON p.product_id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.item_id
	`
	listItemsByFarmerQuery = `
		SELECT oi.item_id, oi.order_id, oi.product_id, oi.farmer_id,
			COALESCE(p.name, 'Product Not Available'), oi.quantity, oi.price
		FROM order_items oi
		LEFT JOIN products p ON p.product_id = oi.product_id
		WHERE oi.order_id = $1 AND oi.farmer_id = $2
		ORDER BY oi.item_id
	`

	// The status guard lives in the query so illegal transitions are rejected
	// no matter who calls this.
	updateStatusQuery = `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE order_id = $2 AND status = ANY($3)
	`
	orderExistsQuery = `SELECT EXISTS(SELECT 1 FROM orders WHERE order_id = $1)`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the order row and all its items in one transaction: the
// checkout path never leaves a partial order behind.
func (r *PostgresRepository) Create(ord Order, items []Item) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if ord.ID == "" {
		ord.ID = uuid.New().String()
	}
	if ord.Status == "" {
		ord.Status = StatusPending
	}

	_, err = tx.Exec(insertOrderQuery,
		ord.ID, ord.UserID, ord.Status, ord.TotalAmount,
		ord.Shipping.FullName, ord.Shipping.Address, ord.Shipping.City, ord.Shipping.State,
		ord.Shipping.ZipCode, ord.Shipping.Country, ord.Shipping.Phone,
		ord.PaymentMethod, ord.PaymentSessionID)
	if err != nil {
		return Order{}, err
	}

	ord.Items = make([]Item, 0, len(items))
	for _, item := range items {
		item.OrderID = ord.ID
		if err := tx.QueryRow(insertOrderItemQuery,
			item.OrderID, item.ProductID, item.FarmerID, item.Quantity, item.Price).Scan(&item.ID); err != nil {
			return Order{}, err
		}
		ord.Items = append(ord.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	ord.CreatedAt = now
	ord.UpdatedAt = now
	return ord, nil
}

func (r *PostgresRepository) AddItem(item Item) (Item, error) {
	err := r.db.QueryRow(insertOrderItemQuery,
		item.OrderID, item.ProductID, item.FarmerID, item.Quantity, item.Price).Scan(&item.ID)
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

func scanOrder(s rowScanner) (Order, error) {
	var ord Order
	var createdAt, updatedAt time.Time
	err := s.Scan(&ord.ID, &ord.UserID, &ord.BuyerName, &ord.Status, &ord.TotalAmount,
		&ord.Shipping.FullName, &ord.Shipping.Address, &ord.Shipping.City, &ord.Shipping.State,
		&ord.Shipping.ZipCode, &ord.Shipping.Country, &ord.Shipping.Phone,
		&ord.PaymentMethod, &ord.PaymentSessionID, &createdAt, &updatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	ord.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return ord, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) GetByID(id string) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(getOrderByIDQuery, id))
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	items, err := r.loadItems(ord.ID, 0)
	if err != nil {
		return Order{}, err
	}
	ord.Items = items
	return ord, nil
}

func (r *PostgresRepository) GetBySessionID(sessionID string) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(getOrderBySessionIDQuery, sessionID))
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	items, err := r.loadItems(ord.ID, 0)
	if err != nil {
		return Order{}, err
	}
	ord.Items = items
	return ord, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.list(listOrdersByUserQuery, 0, userID)
}

// ListByFarmer restricts both the order set and each order's item list to
// the given farmer; another farmer's lines are never returned.
func (r *PostgresRepository) ListByFarmer(farmerID int) ([]Order, error) {
	return r.list(listOrdersByFarmerQuery, farmerID, farmerID)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	return r.list(listAllOrdersQuery, 0)
}

func (r *PostgresRepository) list(query string, farmerID int, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.loadItems(orders[i].ID, farmerID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *PostgresRepository) loadItems(orderID string, farmerID int) ([]Item, error) {
	var rows *sql.Rows
	var err error
	if farmerID > 0 {
		rows, err = r.db.Query(listItemsByFarmerQuery, orderID, farmerID)
	} else {
		rows, err = r.db.Query(listItemsQuery, orderID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.FarmerID,
			&item.ProductName, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(id string, status Status) (Order, error) {
	sources := LegalSources(status)
	allowed := make([]string, 0, len(sources))
	for _, s := range sources {
		allowed = append(allowed, string(s))
	}

	res, err := r.db.Exec(updateStatusQuery, status, id, pq.Array(allowed))
	if err != nil {
		return Order{}, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		var exists bool
		if err := r.db.QueryRow(orderExistsQuery, id).Scan(&exists); err != nil {
			return Order{}, err
		}
		if !exists {
			return Order{}, ErrNotFound
		}
		return Order{}, ErrInvalidTransition
	}

	return r.GetByID(id)
}
