package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/corebank/backend/internal/models"
)

// AccountRepository reads accounts from the store. Numeric columns are decoded
// into decimal exactly once here; nothing downstream re-parses amounts.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetAccount looks up a single account by primary key. An unknown id yields
// (nil, nil), not an error.
func (r *AccountRepository) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, balance, type FROM accounts
		WHERE id = $1`, id).
		Scan(&account.ID, &account.UserID, &account.StartBalance, &account.AccountType)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %d: %w", id, err)
	}
	return &account, nil
}

// GetAccounts returns every account owned by a user. A user with no accounts
// (or an unknown user) yields an empty slice.
func (r *AccountRepository) GetAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, balance, type FROM accounts
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for user %d: %w", userID, err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.UserID, &account.StartBalance, &account.AccountType); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return accounts, nil
}
