package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type codes. DEBIT reduces an account's balance, CREDIT increases
// it. The store may hold other codes; anything that is not DEBIT counts as an
// inflow when folding a balance.
const (
	TxTypeDebit  = "DEBIT"
	TxTypeCredit = "CREDIT"
)

// PayeeTransfer is the payee recorded on both legs of an inter-account transfer.
const PayeeTransfer = "Transfer"

// Transaction is a single append-only ledger entry. Amount is always a positive
// magnitude; Type carries the sign. Date has day granularity.
type Transaction struct {
	ID        int64           `json:"id" db:"id"`
	AccountID int64           `json:"account_id" db:"acct_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Date      time.Time       `json:"date" db:"trans_date"`
	Payee     string          `json:"payee" db:"payee"`
	Type      string          `json:"type" db:"type"`
}

// SignedAmount returns the amount with the sign implied by the transaction
// type: negative for DEBIT, positive otherwise.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TxTypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
