package services

import (
	"context"
	"sort"

	"github.com/corebank/backend/internal/models"
	"github.com/corebank/backend/internal/repository"
	"github.com/shopspring/decimal"
)

// LedgerService derives account balances from the immutable transaction
// sequence and exposes ordered history. It never mutates a transaction to
// correct a balance; corrections are new entries written by callers.
type LedgerService struct {
	accounts     *repository.AccountRepository
	transactions *repository.TransactionRepository
}

func NewLedgerService(accounts *repository.AccountRepository, transactions *repository.TransactionRepository) *LedgerService {
	return &LedgerService{
		accounts:     accounts,
		transactions: transactions,
	}
}

// CurrentBalance folds an account's transactions over its opening balance.
// The sum is order-independent, and a negative result is a valid overdraft
// state, not an error.
func CurrentBalance(account *models.Account, transactions []models.Transaction) decimal.Decimal {
	balance := account.StartBalance
	for i := range transactions {
		balance = balance.Add(transactions[i].SignedAmount())
	}
	return balance
}

// SortTransactions orders entries for display: date ascending, then id
// ascending (insertion order within a day).
func SortTransactions(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.Before(transactions[j].Date)
		}
		return transactions[i].ID < transactions[j].ID
	})
}

// AccountBalance returns the current balance for one account. The second
// return value reports whether the account exists.
func (s *LedgerService) AccountBalance(ctx context.Context, accountID int64) (decimal.Decimal, bool, error) {
	account, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, false, err
	}
	if account == nil {
		return decimal.Zero, false, nil
	}

	transactions, err := s.transactions.GetTransactions(ctx, accountID)
	if err != nil {
		return decimal.Zero, false, err
	}
	return CurrentBalance(account, transactions), true, nil
}

// TransactionHistory returns an account's entries sorted for display.
// Re-querying yields the same sequence, or a superset if new entries were
// appended concurrently.
func (s *LedgerService) TransactionHistory(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	transactions, err := s.transactions.GetTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	SortTransactions(transactions)
	return transactions, nil
}
