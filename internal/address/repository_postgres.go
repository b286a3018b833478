package address

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	listAddressesQuery = `
		SELECT address_id, user_id, full_name, address, city, state, zip_code, country, phone, created_at, updated_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY address_id
	`
	insertAddressQuery = `
		INSERT INTO addresses (user_id, full_name, address, city, state, zip_code, country, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING address_id
	`
	updateAddressQuery = `
		UPDATE addresses
		SET full_name = $1, address = $2, city = $3, state = $4, zip_code = $5, country = $6, phone = $7, updated_at = $8
		WHERE address_id = $9 AND user_id = $10
	`
	getAddressQuery = `
		SELECT address_id, user_id, full_name, address, city, state, zip_code, country, phone, created_at, updated_at
		FROM addresses
		WHERE address_id = $1 AND user_id = $2
	`
	deleteAddressQuery = `DELETE FROM addresses WHERE address_id = $1 AND user_id = $2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(userID int) ([]Address, error) {
	rows, err := r.db.Query(listAddressesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *PostgresRepository) Create(a Address) (Address, error) {
	err := r.db.QueryRow(insertAddressQuery,
		a.UserID, a.FullName, a.Address, a.City, a.State, a.ZipCode, a.Country, a.Phone, a.CreatedAt, a.UpdatedAt).Scan(&a.AddressID)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Update(userID, addressID int, a Address) (Address, error) {
	res, err := r.db.Exec(updateAddressQuery,
		a.FullName, a.Address, a.City, a.State, a.ZipCode, a.Country, a.Phone, a.UpdatedAt, addressID, userID)
	if err != nil {
		return Address{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Address{}, ErrNotFound
	}

	updated, err := scanAddress(r.db.QueryRow(getAddressQuery, addressID, userID))
	if err == sql.ErrNoRows {
		return Address{}, ErrNotFound
	}
	return updated, err
}

func (r *PostgresRepository) Delete(userID, addressID int) error {
	res, err := r.db.Exec(deleteAddressQuery, addressID, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(s rowScanner) (Address, error) {
	var a Address
	var createdAt, updatedAt sql.NullString
	err := s.Scan(&a.AddressID, &a.UserID, &a.FullName, &a.Address, &a.City, &a.State,
		&a.ZipCode, &a.Country, &a.Phone, &createdAt, &updatedAt)
	if err != nil {
		return Address{}, err
	}
	a.CreatedAt = createdAt.String
	a.UpdatedAt = updatedAt.String
	return a, nil
}
