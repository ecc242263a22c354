package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ksasaki/traininglog/internal/apperrors"
	"github.com/ksasaki/traininglog/internal/storage"
	"github.com/ksasaki/traininglog/pkg"
)

type Repo struct {
	adapter storage.Adapter
}

func NewRepo(adapter storage.Adapter) *Repo {
	return &Repo{adapter: adapter}
}

func (r *Repo) Add(ctx context.Context, user User) error {
	_, err := r.adapter.Run(ctx, storage.Statement{
		SQL: `INSERT INTO users (id, email, password_hash, name, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
		Params: []any{user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt},
	})
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return apperrors.NewConflict("email already registered")
		}
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, storage.Statement{
		SQL:    `SELECT id, email, password_hash, name, created_at FROM users WHERE email = $1`,
		Params: []any{email},
	})
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getOne(ctx, storage.Statement{
		SQL:    `SELECT id, email, password_hash, name, created_at FROM users WHERE id = $1`,
		Params: []any{id},
	})
}

func (r *Repo) getOne(ctx context.Context, stmt storage.Statement) (*User, error) {
	var user User
	err := r.adapter.First(ctx, stmt).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.CreatedAt,
	)
	if errors.Is(err, storage.ErrNoRows) {
		return nil, apperrors.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
