package models

import (
	"github.com/shopspring/decimal"
)

// Account types
const (
	AccountTypeChecking = "CHECKING"
	AccountTypeSavings  = "SAVINGS"
)

// Account represents a user-owned account. StartBalance is the balance the
// account was opened with and never changes afterwards; the current balance is
// always derived from StartBalance plus the account's transactions.
type Account struct {
	ID           int64           `json:"id" db:"id"`
	UserID       int64           `json:"user_id" db:"user_id"`
	StartBalance decimal.Decimal `json:"start_balance" db:"balance"`
	AccountType  string          `json:"account_type" db:"type"`
}
