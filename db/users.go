package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"station/entity"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) UserRepo {
	return UserRepo{db: db}
}

func (r UserRepo) Create(ctx context.Context, u entity.User) (entity.User, error) {
	err := r.db.GetContext(ctx, &u.ID, `INSERT INTO users (email, password_hash, is_staff)
		VALUES ($1, $2, $3) RETURNING id`, u.Email, u.PasswordHash, u.IsStaff)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		fe := entity.FieldErrors{}
		fe.Add("email", "A user with this email already exists.")
		return entity.User{}, fe
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return u, nil
}

func (r UserRepo) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	var u entity.User
	err := r.db.GetContext(ctx, &u, `SELECT id, email, password_hash, is_staff
		FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("querying user by email: %w", err)
	}
	return u, nil
}

func (r UserRepo) Get(ctx context.Context, id int64) (entity.User, error) {
	var u entity.User
	err := r.db.GetContext(ctx, &u, `SELECT id, email, password_hash, is_staff
		FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, entity.ErrNotFound
	}
	if err != nil {
		return entity.User{}, fmt.Errorf("querying user: %w", err)
	}
	return u, nil
}

func (r UserRepo) Update(ctx context.Context, u entity.User) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET email = $1, password_hash = $2
		WHERE id = $3`, u.Email, u.PasswordHash, u.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return oneRowAffected(res)
}
