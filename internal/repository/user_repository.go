package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/BnamoRS/ecommerce-api/internal/model"
	"github.com/BnamoRS/ecommerce-api/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,first_name,last_name,username,email,password_hash,is_active,is_admin,is_supplier,is_customer,created_at,updated_at"

// Create inserts a user and returns its ID. New accounts start as active
// customers without admin or supplier privileges.
func (r *UserRepo) Create(ctx context.Context, firstName, lastName, username, email, password string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, username, email, password_hash) VALUES (?,?,?,?,?)",
		firstName, lastName, username, email, hash)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.IsAdmin, &u.IsSupplier, &u.IsCustomer, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// SetSupplierStatus flips the supplier/customer flags of a user. The two
// flags move together: granting supplier revokes customer and vice versa.
func (r *UserRepo) SetSupplierStatus(ctx context.Context, id uint64, isSupplier, isCustomer bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_supplier=?, is_customer=? WHERE id=?",
		isSupplier, isCustomer, id)
	return err
}

// Deactivate soft-deletes a user. The row is kept so reviews and products
// referencing it stay intact.
func (r *UserRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET is_active=0 WHERE id=?", id)
	return err
}
