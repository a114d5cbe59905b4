package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/repository/base"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{base.NewRepository(pool)}
}

// Upsert registers a user or refreshes their profile fields. The role is only
// set on first registration; later role changes go through SetRole.
func (r *UserRepository) Upsert(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, username, first_name, last_name, language_code, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			username      = EXCLUDED.username,
			first_name    = EXCLUDED.first_name,
			last_name     = EXCLUDED.last_name,
			language_code = EXCLUDED.language_code
		RETURNING role, created_at
	`

	err := r.QueryRow(
		ctx, query,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
		user.Role,
	).Scan(&user.Role, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

// GetByID returns a user, or model.ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, username, first_name, last_name, language_code, role, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.LanguageCode,
		&user.Role,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

// SetRole changes a user's role.
func (r *UserRepository) SetRole(ctx context.Context, id int64, role model.Role) error {
	query := `UPDATE users SET role = $2 WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}
