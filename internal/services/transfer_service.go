package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/corebank/backend/internal/audit"
	"github.com/corebank/backend/internal/events"
	"github.com/corebank/backend/internal/models"
	"github.com/corebank/backend/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrSameAccount     = errors.New("from and to accounts must differ")
	ErrAccountNotFound = errors.New("account not found")
	ErrEmptyPayee      = errors.New("payee is required")
)

// TransferService owns the two write paths of the ledger: inter-account
// transfers and bill payments. Neither checks the balance before writing;
// overdraft is an accepted state.
type TransferService struct {
	db        *sql.DB
	accounts  *repository.AccountRepository
	entries   *repository.TransactionRepository
	validator *ValidationHelper
	audit     *audit.Logger
	publisher events.Publisher
	now       func() time.Time
}

func NewTransferService(db *sql.DB, accounts *repository.AccountRepository, entries *repository.TransactionRepository, publisher events.Publisher) *TransferService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &TransferService{
		db:        db,
		accounts:  accounts,
		entries:   entries,
		validator: NewValidationHelper(),
		audit:     audit.NewLogger(),
		publisher: publisher,
		now:       time.Now,
	}
}

// transactionDate stamps entries at day granularity.
func (s *TransferService) transactionDate() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// Transfer writes the double-entry pair: a DEBIT on the source account and a
// CREDIT on the destination, same date and magnitude, inside one database
// transaction. Either both rows commit or neither does. Returns a reference
// id correlating the pair in the audit log and event stream.
func (s *TransferService) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	if fromID == toID {
		return "", ErrSameAccount
	}

	fromAccount, err := s.accounts.GetAccount(ctx, fromID)
	if err != nil {
		return "", err
	}
	if fromAccount == nil {
		return "", fmt.Errorf("%w: %d", ErrAccountNotFound, fromID)
	}
	toAccount, err := s.accounts.GetAccount(ctx, toID)
	if err != nil {
		return "", err
	}
	if toAccount == nil {
		return "", fmt.Errorf("%w: %d", ErrAccountNotFound, toID)
	}

	reference := uuid.NewString()
	date := s.transactionDate()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer tx.Rollback()

	debit := models.Transaction{
		AccountID: fromID,
		Amount:    amount,
		Date:      date,
		Payee:     models.PayeeTransfer,
		Type:      models.TxTypeDebit,
	}
	if _, err := s.entries.InsertTx(ctx, tx, &debit); err != nil {
		s.audit.LogError(reference, fromID, err)
		return "", err
	}

	credit := models.Transaction{
		AccountID: toID,
		Amount:    amount,
		Date:      date,
		Payee:     models.PayeeTransfer,
		Type:      models.TxTypeCredit,
	}
	if _, err := s.entries.InsertTx(ctx, tx, &credit); err != nil {
		s.audit.LogError(reference, toID, err)
		return "", err
	}

	if err := tx.Commit(); err != nil {
		s.audit.LogError(reference, fromID, err)
		return "", fmt.Errorf("failed to commit transfer: %w", err)
	}

	s.audit.LogTransfer(reference, fromID, toID, amount, "SUCCESS")

	// Event delivery is best-effort once the pair is durable.
	event := events.TransferCompleted{
		Reference:   reference,
		FromAccount: fromID,
		ToAccount:   toID,
		Amount:      amount,
		Payee:       models.PayeeTransfer,
		OccurredAt:  s.now(),
	}
	if err := s.publisher.Publish(events.TopicTransferCompleted, event); err != nil {
		log.Printf("[TRANSFER] Failed to publish event for %s: %v", reference, err)
	}

	return reference, nil
}

// PayBill writes a single DEBIT against the paying account with the billed
// payee. Durable-or-absent; there is no second leg.
func (s *TransferService) PayBill(ctx context.Context, fromID int64, payee string, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}
	if payee == "" {
		return "", ErrEmptyPayee
	}

	account, err := s.accounts.GetAccount(ctx, fromID)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", fmt.Errorf("%w: %d", ErrAccountNotFound, fromID)
	}

	reference := uuid.NewString()
	entry := models.Transaction{
		AccountID: fromID,
		Amount:    amount,
		Date:      s.transactionDate(),
		Payee:     payee,
		Type:      models.TxTypeDebit,
	}
	if _, err := s.entries.Insert(ctx, &entry); err != nil {
		s.audit.LogError(reference, fromID, err)
		return "", err
	}

	s.audit.LogBillPayment(reference, fromID, payee, amount, "SUCCESS")
	return reference, nil
}

// TransferRequest represents the transfer request payload
type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountId" validate:"required"`
	ToAccountID   int64           `json:"toAccountId" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
}

// BillPaymentRequest represents the bill payment request payload
type BillPaymentRequest struct {
	FromAccountID int64           `json:"fromAccountId" validate:"required"`
	Payee         string          `json:"payee" validate:"required,max=100"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
}

// CreateTransfer moves money between two accounts
// @Summary Transfer between accounts
// @Description Record a debit/credit pair moving money from one account to another
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body TransferRequest true "Transfer request"
// @Success 201 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transfers [post]
func (s *TransferService) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	reference, err := s.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		s.writeOperationError(w, err, "Failed to process transfer")
		return
	}

	SendJSONResponse(w, http.StatusCreated, map[string]any{
		"reference":     reference,
		"fromAccountId": req.FromAccountID,
		"toAccountId":   req.ToAccountID,
		"amount":        req.Amount,
	})
}

// CreateBillPayment pays a bill from an account
// @Summary Pay a bill
// @Description Record a debit against an account payable to a billed entity
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body BillPaymentRequest true "Bill payment request"
// @Success 201 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /payments/bill [post]
func (s *TransferService) CreateBillPayment(w http.ResponseWriter, r *http.Request) {
	var req BillPaymentRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	reference, err := s.PayBill(r.Context(), req.FromAccountID, req.Payee, req.Amount)
	if err != nil {
		s.writeOperationError(w, err, "Failed to process bill payment")
		return
	}

	SendJSONResponse(w, http.StatusCreated, map[string]any{
		"reference":     reference,
		"fromAccountId": req.FromAccountID,
		"payee":         req.Payee,
		"amount":        req.Amount,
	})
}

func (s *TransferService) writeOperationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrSameAccount), errors.Is(err, ErrEmptyPayee):
		SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, ErrAccountNotFound):
		SendErrorResponse(w, err.Error(), http.StatusNotFound, nil)
	default:
		log.Printf("[TRANSFER] Operation failed: %v", err)
		SendErrorResponse(w, fallback, http.StatusInternalServerError, nil)
	}
}
