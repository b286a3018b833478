package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT product_id, farmer_id, name, description, category, price, quantity, image_url, created_at, updated_at
		FROM products
		ORDER BY product_id
	`
	listProductsByCategoryQuery = `
		SELECT product_id, farmer_id, name, description, category, price, quantity, image_url, created_at, updated_at
		FROM products
		WHERE category = $1
		ORDER BY product_id
	`
	listProductsByFarmerQuery = `
		SELECT product_id, farmer_id, name, description, category, price, quantity, image_url, created_at, updated_at
		FROM products
		WHERE farmer_id = $1
		ORDER BY product_id
	`
	listProductsByIDsQuery = `
		SELECT product_id, farmer_id, name, description, category, price, quantity, image_url, created_at, updated_at
		FROM products
		WHERE product_id = ANY($1::int[])
		ORDER BY array_position($1::int[], product_id)
	`
	getProductByIDQuery = `
		SELECT product_id, farmer_id, name, description, category, price, quantity, image_url, created_at, updated_at
		FROM products
		WHERE product_id = $1
	`
	insertProductQuery = `
		INSERT INTO products (farmer_id, name, description, category, price, quantity, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			description = $2,
			category = $3,
			price = $4,
			quantity = $5,
			image_url = $6,
			updated_at = $7
		WHERE product_id = $8
	`
	deleteProductQuery = `DELETE FROM products WHERE product_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProduct(s rowScanner) (Product, error) {
	var p Product
	var description, category sql.NullString
	var createdAt, updatedAt sql.NullString
	if err := s.Scan(&p.ID, &p.FarmerID, &p.Name, &description, &category, &p.Price, &p.Quantity, &p.ImageURL, &createdAt, &updatedAt); err != nil {
		return Product{}, err
	}
	p.Description = description.String
	p.Category = category.String
	p.CreatedAt = createdAt.String
	p.UpdatedAt = updatedAt.String
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) List(category string) []Product {
	var rows *sql.Rows
	var err error
	if category == "" {
		rows, err = r.db.Query(listProductsQuery)
	} else {
		rows, err = r.db.Query(listProductsByCategoryQuery, category)
	}
	if err != nil {
		return []Product{}
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PostgresRepository) ListByFarmer(farmerID int) []Product {
	rows, err := r.db.Query(listProductsByFarmerQuery, farmerID)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.Query(listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows), nil
}

func collectProducts(rows *sql.Rows) []Product {
	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	return products
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(insertProductQuery,
		p.FarmerID, p.Name, p.Description, p.Category, p.Price, p.Quantity, p.ImageURL, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	res, err := r.db.Exec(updateProductQuery,
		p.Name, p.Description, p.Category, p.Price, p.Quantity, p.ImageURL, p.UpdatedAt, id)
	if err != nil {
		return Product{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
