package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/corebank/backend/internal/models"
)

// TransactionRepository reads and appends ledger entries. Entries are
// append-only: there is no update or delete path.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetTransactions returns all entries for one account in store order. Callers
// that display history sort by date then id; balance folds do not care.
func (r *TransactionRepository) GetTransactions(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, acct_id, trans_date, amount, payee, type FROM transactions
		WHERE acct_id = $1`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Date, &t.Amount, &t.Payee, &t.Type); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows: %w", err)
	}
	return transactions, nil
}

// Insert appends a single entry and returns its store-assigned id.
func (r *TransactionRepository) Insert(ctx context.Context, t *models.Transaction) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (acct_id, trans_date, amount, payee, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.AccountID, t.Date, t.Amount, t.Payee, t.Type).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return id, nil
}

// InsertTx appends an entry inside a caller-owned database transaction so a
// transfer's debit and credit legs commit or roll back together.
func (r *TransactionRepository) InsertTx(ctx context.Context, tx *sql.Tx, t *models.Transaction) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO transactions (acct_id, trans_date, amount, payee, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		t.AccountID, t.Date, t.Amount, t.Payee, t.Type).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return id, nil
}
