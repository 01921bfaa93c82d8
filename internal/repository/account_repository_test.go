package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/corebank/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountRepository_GetAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	t.Run("existing account", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, balance, type FROM accounts WHERE id").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "type"}).
				AddRow(1, 7, "100.00", models.AccountTypeChecking))

		account, err := repo.GetAccount(context.Background(), 1)
		assert.NoError(t, err)
		assert.NotNil(t, account)
		assert.Equal(t, int64(1), account.ID)
		assert.Equal(t, int64(7), account.UserID)
		assert.True(t, account.StartBalance.Equal(decimal.RequireFromString("100.00")))
		assert.Equal(t, models.AccountTypeChecking, account.AccountType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown account is absent, not an error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, balance, type FROM accounts WHERE id").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "type"}))

		account, err := repo.GetAccount(context.Background(), 99)
		assert.NoError(t, err)
		assert.Nil(t, account)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure propagates", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, balance, type FROM accounts WHERE id").
			WithArgs(int64(1)).
			WillReturnError(assert.AnError)

		_, err := repo.GetAccount(context.Background(), 1)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_GetAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	t.Run("multiple accounts", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, balance, type FROM accounts WHERE user_id").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "type"}).
				AddRow(1, 7, "100.00", models.AccountTypeChecking).
				AddRow(2, 7, "250.50", models.AccountTypeSavings))

		accounts, err := repo.GetAccounts(context.Background(), 7)
		assert.NoError(t, err)
		assert.Len(t, accounts, 2)
		assert.Equal(t, models.AccountTypeSavings, accounts[1].AccountType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no accounts yields empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, user_id, balance, type FROM accounts WHERE user_id").
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "type"}))

		accounts, err := repo.GetAccounts(context.Background(), 8)
		assert.NoError(t, err)
		assert.NotNil(t, accounts)
		assert.Empty(t, accounts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
