package repos

import (
	"context"
	"database/sql"
	"errors"

	"aifinder/internal/apperror"
	"aifinder/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts the user and returns its id. The email column's unique
// constraint is the only duplicate check; a violation is DuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, email, username, hash string) (int64, error) {
	var id int64
	err := r.DB.GetContext(ctx, &id, r.DB.Rebind(`
	  INSERT INTO users(email, username, password_hash)
	  VALUES(?, ?, ?)
	  RETURNING user_id
	`), email, username, hash)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperror.DuplicateEmail()
		}
		return 0, apperror.Store("create user", err)
	}
	return id, nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT user_id,email,username,password_hash FROM users WHERE email=?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", email)
	}
	if err != nil {
		return nil, apperror.Store("find user", err)
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT user_id,email,username,password_hash FROM users WHERE user_id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NotFound("user", id)
	}
	if err != nil {
		return nil, apperror.Store("find user", err)
	}
	return &u, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, apperror.Store("count users", err)
	}
	return n, nil
}
