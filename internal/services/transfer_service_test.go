package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/corebank/backend/internal/models"
	"github.com/corebank/backend/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newTransferService(t *testing.T) (*TransferService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	service := NewTransferService(db,
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
		nil)
	service.now = func() time.Time { return day("2026-08-31") }
	return service, mock, func() { db.Close() }
}

func expectAccountLookup(mock sqlmock.Sqlmock, id, userID int64, balance string) {
	mock.ExpectQuery("SELECT id, user_id, balance, type FROM accounts").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "type"}).
			AddRow(id, userID, balance, models.AccountTypeChecking))
}

func TestTransferService_Transfer(t *testing.T) {
	service, mock, closeDB := newTransferService(t)
	defer closeDB()

	amount := decimal.RequireFromString("30.00")
	transDate := day("2026-08-31").UTC().Truncate(24 * time.Hour)

	t.Run("successful transfer", func(t *testing.T) {
		expectAccountLookup(mock, 1, 7, "100.00")
		expectAccountLookup(mock, 2, 8, "50.00")

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(int64(1), transDate, amount, models.PayeeTransfer, models.TxTypeDebit).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(int64(2), transDate, amount, models.PayeeTransfer, models.TxTypeCredit).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectCommit()

		reference, err := service.Transfer(context.Background(), 1, 2, amount)
		assert.NoError(t, err)
		assert.NotEmpty(t, reference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overdraft is permitted", func(t *testing.T) {
		// Amount far exceeds the source balance; no balance check happens and
		// the pair still commits.
		big := decimal.RequireFromString("9000.00")

		expectAccountLookup(mock, 1, 7, "100.00")
		expectAccountLookup(mock, 2, 8, "50.00")

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(int64(1), transDate, big, models.PayeeTransfer, models.TxTypeDebit).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(int64(2), transDate, big, models.PayeeTransfer, models.TxTypeCredit).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(13))
		mock.ExpectCommit()

		_, err := service.Transfer(context.Background(), 1, 2, big)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated transfer is not deduplicated", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			expectAccountLookup(mock, 1, 7, "100.00")
			expectAccountLookup(mock, 2, 8, "50.00")

			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO transactions").
				WithArgs(int64(1), transDate, amount, models.PayeeTransfer, models.TxTypeDebit).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20 + i*2))
			mock.ExpectQuery("INSERT INTO transactions").
				WithArgs(int64(2), transDate, amount, models.PayeeTransfer, models.TxTypeCredit).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21 + i*2))
			mock.ExpectCommit()
		}

		ref1, err := service.Transfer(context.Background(), 1, 2, amount)
		assert.NoError(t, err)
		ref2, err := service.Transfer(context.Background(), 1, 2, amount)
		assert.NoError(t, err)
		assert.NotEqual(t, ref1, ref2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second leg failure rolls back the first", func(t *testing.T) {
		expectAccountLookup(mock, 1, 7, "100.00")
		expectAccountLookup(mock, 2, 8, "50.00")

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(int64(1), transDate, amount, models.PayeeTransfer, models.TxTypeDebit).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(30))
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(int64(2), transDate, amount, models.PayeeTransfer, models.TxTypeCredit).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := service.Transfer(context.Background(), 1, 2, amount)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := service.Transfer(context.Background(), 1, 2, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = service.Transfer(context.Background(), 1, 2, decimal.RequireFromString("-5.00"))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("same account", func(t *testing.T) {
		_, err := service.Transfer(context.Background(), 1, 1, amount)
		assert.ErrorIs(t, err, ErrSameAccount)
	})

	t.Run("unknown source account", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, balance, type FROM accounts").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "type"}))

		_, err := service.Transfer(context.Background(), 99, 2, amount)
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransferService_PayBill(t *testing.T) {
	service, mock, closeDB := newTransferService(t)
	defer closeDB()

	amount := decimal.RequireFromString("15.00")
	transDate := day("2026-08-31").UTC().Truncate(24 * time.Hour)

	t.Run("successful bill payment", func(t *testing.T) {
		expectAccountLookup(mock, 1, 7, "100.00")

		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(int64(1), transDate, amount, "Acme Electric", models.TxTypeDebit).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(40))

		reference, err := service.PayBill(context.Background(), 1, "Acme Electric", amount)
		assert.NoError(t, err)
		assert.NotEmpty(t, reference)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty payee", func(t *testing.T) {
		_, err := service.PayBill(context.Background(), 1, "", amount)
		assert.ErrorIs(t, err, ErrEmptyPayee)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := service.PayBill(context.Background(), 1, "Acme Electric", decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unknown account", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, balance, type FROM accounts").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "type"}))

		_, err := service.PayBill(context.Background(), 99, "Acme Electric", amount)
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransferService_CreateTransfer(t *testing.T) {
	service, mock, closeDB := newTransferService(t)
	defer closeDB()

	t.Run("invalid request body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/transfers", bytes.NewBuffer([]byte("invalid")))
		w := httptest.NewRecorder()

		service.CreateTransfer(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown account returns 404", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, balance, type FROM accounts").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "type"}))

		body := []byte(`{"fromAccountId":99,"toAccountId":2,"amount":"30.00"}`)
		r := httptest.NewRequest("POST", "/transfers", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.CreateTransfer(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("same account returns 400", func(t *testing.T) {
		body := []byte(`{"fromAccountId":1,"toAccountId":1,"amount":"30.00"}`)
		r := httptest.NewRequest("POST", "/transfers", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		service.CreateTransfer(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
