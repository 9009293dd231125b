package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/akylbek/payment-system/fraud-detector/internal/models"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	usernameConstraint = "accounts_username_key"
	emailConstraint    = "accounts_email_key"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, username, email, passwordHash string) (models.Account, error) {
	account := models.Account{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`, username, email, passwordHash).Scan(&account.ID, &account.JoinedAt)
	if err != nil {
		return models.Account{}, mapAccountError(err)
	}
	account.JoinedAt = account.JoinedAt.UTC()
	return account, nil
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (models.Account, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, password_hash, joined_at
		FROM accounts WHERE username = $1
	`, username)
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (models.Account, error) {
	return r.getOne(ctx, `
		SELECT id, username, email, password_hash, joined_at
		FROM accounts WHERE id = $1
	`, id)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg any) (models.Account, error) {
	var a models.Account
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, models.ErrAccountNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to fetch account: %w", err)
	}
	a.JoinedAt = a.JoinedAt.UTC()
	return a, nil
}

func mapAccountError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case usernameConstraint:
			return models.ErrDuplicateUsername
		case emailConstraint:
			return models.ErrDuplicateEmail
		}
	}
	return fmt.Errorf("failed to insert account: %w", err)
}
