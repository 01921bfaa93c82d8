package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid transfer request", func(t *testing.T) {
		req := TransferRequest{
			FromAccountID: 1,
			ToAccountID:   2,
			Amount:        decimal.RequireFromString("30.00"),
		}

		err := vh.ValidateStruct(&req)
		assert.NoError(t, err)
	})

	t.Run("missing required fields", func(t *testing.T) {
		req := TransferRequest{}

		err := vh.ValidateStruct(&req)
		assert.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.NotEmpty(t, validationErrors)
	})

	t.Run("bill payment payee too long", func(t *testing.T) {
		payee := make([]byte, 101)
		for i := range payee {
			payee[i] = 'x'
		}
		req := BillPaymentRequest{
			FromAccountID: 1,
			Payee:         string(payee),
			Amount:        decimal.RequireFromString("15.00"),
		}

		err := vh.ValidateStruct(&req)
		assert.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Equal(t, "Payee", validationErrors[0].Field())
		assert.Equal(t, "max", validationErrors[0].Tag())
	})
}

func TestDecodeJSONBody(t *testing.T) {
	t.Run("single object decodes", func(t *testing.T) {
		body := []byte(`{"fromAccountId":1,"toAccountId":2,"amount":"30.00"}`)
		r := httptest.NewRequest("POST", "/transfers", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		var req TransferRequest
		err := DecodeJSONBody(w, r, &req)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), req.FromAccountID)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		body := []byte(`{"fromAccountId":1,"toAccountId":2,"amount":"30.00","extra":true}`)
		r := httptest.NewRequest("POST", "/transfers", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		var req TransferRequest
		err := DecodeJSONBody(w, r, &req)
		assert.Error(t, err)
	})

	t.Run("trailing document rejected", func(t *testing.T) {
		body := []byte(`{"fromAccountId":1,"toAccountId":2,"amount":"30.00"}{}`)
		r := httptest.NewRequest("POST", "/transfers", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		var req TransferRequest
		err := DecodeJSONBody(w, r, &req)
		assert.Error(t, err)
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("error response without validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Something went wrong", http.StatusInternalServerError, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Something went wrong", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("error response with validation details", func(t *testing.T) {
		vh := NewValidationHelper()
		validationErr := vh.ValidateStruct(&TransferRequest{})
		assert.Error(t, validationErr)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Validation failed", response.Error)
		assert.NotEmpty(t, response.Details)
	})
}
