package services

import (
	"log"
	"net/http"
	"strconv"

	"github.com/corebank/backend/internal/models"
	"github.com/corebank/backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// AccountService exposes the read side of the ledger: account listings with
// derived balances and per-account transaction history.
type AccountService struct {
	accounts *repository.AccountRepository
	ledger   *LedgerService
}

func NewAccountService(accounts *repository.AccountRepository, ledger *LedgerService) *AccountService {
	return &AccountService{
		accounts: accounts,
		ledger:   ledger,
	}
}

// AccountSummary pairs an account with its derived current balance.
type AccountSummary struct {
	models.Account
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// AccountDetail adds ordered history to the summary.
type AccountDetail struct {
	AccountSummary
	Transactions []models.Transaction `json:"transactions"`
}

// ListAccounts returns the caller's accounts with balances
// @Summary List accounts
// @Description Get all accounts owned by the authenticated user with current balances
// @Tags accounts
// @Produce json
// @Success 200 {object} object{accounts=[]AccountSummary,count=int}
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /accounts [get]
func (s *AccountService) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	accounts, err := s.accounts.GetAccounts(r.Context(), userID)
	if err != nil {
		log.Printf("[ACCOUNT] Failed to list accounts for user %d: %v", userID, err)
		SendErrorResponse(w, "Failed to fetch accounts", http.StatusInternalServerError, nil)
		return
	}

	// A user with no accounts gets an empty list, not an error.
	summaries := []AccountSummary{}
	for i := range accounts {
		transactions, err := s.ledger.TransactionHistory(r.Context(), accounts[i].ID)
		if err != nil {
			log.Printf("[ACCOUNT] Failed to compute balance for account %d: %v", accounts[i].ID, err)
			SendErrorResponse(w, "Failed to fetch accounts", http.StatusInternalServerError, nil)
			return
		}
		summaries = append(summaries, AccountSummary{
			Account:        accounts[i],
			CurrentBalance: CurrentBalance(&accounts[i], transactions),
		})
	}

	SendJSONResponse(w, http.StatusOK, map[string]any{
		"accounts": summaries,
		"count":    len(summaries),
	})
}

// GetAccount returns one account with balance and ordered history
// @Summary Get account detail
// @Description Get an account's current balance and transaction history
// @Tags accounts
// @Produce json
// @Param accountId path int true "Account ID"
// @Success 200 {object} AccountDetail
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /accounts/{accountId} [get]
func (s *AccountService) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	account, ok := s.loadOwnedAccount(w, r, userID)
	if !ok {
		return
	}

	transactions, err := s.ledger.TransactionHistory(r.Context(), account.ID)
	if err != nil {
		log.Printf("[ACCOUNT] Failed to fetch history for account %d: %v", account.ID, err)
		SendErrorResponse(w, "Failed to fetch account", http.StatusInternalServerError, nil)
		return
	}

	SendJSONResponse(w, http.StatusOK, AccountDetail{
		AccountSummary: AccountSummary{
			Account:        *account,
			CurrentBalance: CurrentBalance(account, transactions),
		},
		Transactions: transactions,
	})
}

// ListTransactions returns an account's ordered transaction history
// @Summary List account transactions
// @Description Get all transactions for one account, ordered by date then id
// @Tags accounts
// @Produce json
// @Param accountId path int true "Account ID"
// @Success 200 {object} object{transactions=[]models.Transaction,count=int}
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /accounts/{accountId}/transactions [get]
func (s *AccountService) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(r)
	if !ok {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	account, ok := s.loadOwnedAccount(w, r, userID)
	if !ok {
		return
	}

	transactions, err := s.ledger.TransactionHistory(r.Context(), account.ID)
	if err != nil {
		log.Printf("[ACCOUNT] Failed to fetch transactions for account %d: %v", account.ID, err)
		SendErrorResponse(w, "Failed to fetch transactions", http.StatusInternalServerError, nil)
		return
	}

	SendJSONResponse(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// loadOwnedAccount resolves the accountId path parameter and enforces
// ownership. A foreign account is indistinguishable from a missing one.
func (s *AccountService) loadOwnedAccount(w http.ResponseWriter, r *http.Request, userID int64) (*models.Account, bool) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountId"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid account id", http.StatusBadRequest, nil)
		return nil, false
	}

	account, err := s.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		log.Printf("[ACCOUNT] Failed to fetch account %d: %v", accountID, err)
		SendErrorResponse(w, "Failed to fetch account", http.StatusInternalServerError, nil)
		return nil, false
	}
	if account == nil || account.UserID != userID {
		SendErrorResponse(w, "Account not found", http.StatusNotFound, nil)
		return nil, false
	}
	return account, true
}

func authenticatedUserID(r *http.Request) (int64, bool) {
	raw, ok := r.Context().Value("userID").(string)
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
