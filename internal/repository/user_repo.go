package repository

import (
	"context"
	"errors"

	"tasklists/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, a *domain.Account) error {
	return r.create(ctx, r.db, a)
}

func (r *UserRepository) create(ctx context.Context, q dbtx, a *domain.Account) error {
	err := q.QueryRow(ctx,
		`INSERT INTO accounts (id, email, display_name, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		a.ID, a.Email, a.DisplayName, a.PasswordHash,
	).Scan(&a.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, display_name, password_hash, created_at
		 FROM accounts
		 WHERE id = $1`,
		id,
	)
	return scanAccount(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, display_name, password_hash, created_at
		 FROM accounts
		 WHERE lower(email) = lower($1)`,
		email,
	)
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.PasswordHash, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
