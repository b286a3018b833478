package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	listUsersQuery = `
		SELECT user_id, email, password, full_name, phone, role, created_at, updated_at
		FROM users
		ORDER BY user_id
	`
	getUserByIDQuery = `
		SELECT user_id, email, password, full_name, phone, role, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	getUserByEmailQuery = `
		SELECT user_id, email, password, full_name, phone, role, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	insertUserQuery = `
		INSERT INTO users (email, password, full_name, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id
	`
	updateUserQuery = `
		UPDATE users
		SET email = $1,
			full_name = $2,
			phone = $3,
			updated_at = $4
		WHERE user_id = $5
	`
	updatePasswordQuery = `UPDATE users SET password = $1, updated_at = $2 WHERE user_id = $3`
	deleteUserQuery     = `DELETE FROM users WHERE user_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(s rowScanner) (User, error) {
	var u User
	var createdAt, updatedAt sql.NullString
	if err := s.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.Phone, &u.Role, &createdAt, &updatedAt); err != nil {
		return User{}, err
	}
	u.CreatedAt = createdAt.String
	u.UpdatedAt = updatedAt.String
	return u, nil
}

func (r *PostgresRepository) List() []User {
	rows, err := r.db.Query(listUsersQuery)
	if err != nil {
		return []User{}
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByIDQuery, id))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(getUserByEmailQuery, email))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(insertUserQuery, u.Email, u.Password, u.FullName, u.Phone, u.Role, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id int, update User) (User, error) {
	if _, err := r.db.Exec(updateUserQuery, update.Email, update.FullName, update.Phone, update.UpdatedAt, id); err != nil {
		return User{}, err
	}
	if update.Password != "" {
		if _, err := r.db.Exec(updatePasswordQuery, update.Password, update.UpdatedAt, id); err != nil {
			return User{}, err
		}
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deleteUserQuery, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
