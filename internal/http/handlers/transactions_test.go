package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bank_transactions/internal/cache"
	"bank_transactions/internal/domain"
	"bank_transactions/internal/http/handlers"
	"bank_transactions/internal/logger"
	"bank_transactions/internal/repository"
	"bank_transactions/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(m handlers.TransactionManager) *gin.Engine {
	h := handlers.NewHandler(m, handlers.HandlerConfig{DefaultPageSize: 10})
	r := gin.New()
	r.GET("/api/transactions", h.ListTransactions)
	r.GET("/api/transactions/:id", h.GetTransaction)
	r.POST("/api/transactions", h.CreateTransaction)
	r.PUT("/api/transactions/:id", h.UpdateTransaction)
	r.DELETE("/api/transactions/:id", h.DeleteTransaction)
	return r
}

func newServiceRouter() *gin.Engine {
	svc := service.NewTransactionService(
		repository.NewMemoryTransactionRepository(),
		cache.NewMemoryPageCache(0),
		service.WithLogger(logger.Discard()),
		service.WithMaxPageSize(100),
	)
	return newRouter(svc)
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeTransaction(t *testing.T, rec *httptest.ResponseRecorder) domain.Transaction {
	t.Helper()
	var tx domain.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tx))
	return tx
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateTransaction_Deposit(t *testing.T) {
	r := newServiceRouter()

	rec := do(r, http.MethodPost, "/api/transactions", `{"type":"Deposit","amount":100.00,"targetAccount":"ACC-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":100,`)

	tx := decodeTransaction(t, rec)
	assert.NotZero(t, tx.ID)
	assert.Equal(t, domain.TransactionTypeDeposit, tx.Type)
	assert.Equal(t, domain.TransactionStatusPending, tx.Status)
	assert.True(t, decimal.RequireFromString("100.00").Equal(tx.Amount))
	assert.Equal(t, "ACC-1", tx.TargetAccount)
	assert.False(t, tx.Timestamp.IsZero())

	rec = do(r, http.MethodGet, "/api/transactions?page=0&size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page domain.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, tx.ID, page.Content[0].ID)
	assert.EqualValues(t, 1, page.TotalElements)
	assert.True(t, page.First)
	assert.True(t, page.Last)
}

func TestCreateTransaction_Validation(t *testing.T) {
	r := newServiceRouter()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "empty body", body: `{}`, want: "Amount must be greater than 0"},
		{name: "negative amount", body: `{"type":"WITHDRAWAL","amount":-5}`, want: "Amount must be greater than 0"},
		{name: "transfer without accounts", body: `{"type":"Transfer","amount":50.00}`, want: "Transfer requires both source and target accounts"},
		{name: "transfer with blank source", body: `{"type":"TRANSFER","amount":50,"sourceAccount":"  ","targetAccount":"B"}`, want: "Transfer requires both source and target accounts"},
		{name: "missing type", body: `{"amount":50}`, want: "Transaction type is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/api/transactions", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, http.StatusBadRequest, body.Status)
			assert.Equal(t, tt.want, body.Message)
		})
	}
}

func TestCreateTransaction_MalformedBody(t *testing.T) {
	r := newServiceRouter()

	for _, body := range []string{`{"amount":`, `{"type":"LOAN","amount":1}`} {
		rec := do(r, http.MethodPost, "/api/transactions", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.True(t, strings.HasPrefix(decodeError(t, rec).Message, "Malformed request body"), body)
	}
}

func TestListTransactions(t *testing.T) {
	r := newServiceRouter()
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/transactions", `{"type":"DEPOSIT","amount":10}`).Code)
	}

	t.Run("defaults", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/transactions", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var page domain.Page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, 0, page.Number)
		assert.Equal(t, 10, page.Size)
		assert.Len(t, page.Content, 3)
	})

	t.Run("second page", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/transactions?page=1&size=2", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var page domain.Page
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Len(t, page.Content, 1)
		assert.Equal(t, 2, page.TotalPages)
		assert.False(t, page.First)
		assert.True(t, page.Last)
	})

	t.Run("past the end", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/transactions?page=5&size=10", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"content":[]`)
	})

	for _, q := range []string{"page=-1", "size=0", "size=101", "page=abc", "size=x", "page=4611686018427387904&size=2"} {
		t.Run(q, func(t *testing.T) {
			rec := do(r, http.MethodGet, "/api/transactions?"+q, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetTransaction(t *testing.T) {
	r := newServiceRouter()
	created := decodeTransaction(t, do(r, http.MethodPost, "/api/transactions", `{"type":"WITHDRAWAL","amount":"12.50","sourceAccount":"ACC-9"}`))

	rec := do(r, http.MethodGet, "/api/transactions/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeTransaction(t, rec).ID)

	rec = do(r, http.MethodGet, "/api/transactions/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction not found with id: 42", decodeError(t, rec).Message)

	rec = do(r, http.MethodGet, "/api/transactions/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid transaction id: abc", decodeError(t, rec).Message)
}

func TestUpdateTransaction(t *testing.T) {
	r := newServiceRouter()
	created := decodeTransaction(t, do(r, http.MethodPost, "/api/transactions", `{"type":"DEPOSIT","amount":100}`))

	rec := do(r, http.MethodPut, "/api/transactions/1", `{"type":"TRANSFER","amount":75.5,"sourceAccount":"A","targetAccount":"B","status":"COMPLETED"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeTransaction(t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, domain.TransactionTypeTransfer, updated.Type)
	assert.Equal(t, domain.TransactionStatusCompleted, updated.Status)
	assert.True(t, decimal.RequireFromString("75.5").Equal(updated.Amount))
	assert.True(t, created.Timestamp.Equal(updated.Timestamp))

	rec = do(r, http.MethodPut, "/api/transactions/7", `{"type":"DEPOSIT","amount":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction not found with id: 7", decodeError(t, rec).Message)

	rec = do(r, http.MethodPut, "/api/transactions/1", `{"type":"DEPOSIT","amount":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTransaction(t *testing.T) {
	r := newServiceRouter()
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/transactions", `{"type":"DEPOSIT","amount":5}`).Code)

	rec := do(r, http.MethodDelete, "/api/transactions/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(r, http.MethodDelete, "/api/transactions/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "Transaction not found with id: 999", body.Message)

	rec = do(r, http.MethodGet, "/api/transactions", "")
	assert.Contains(t, rec.Body.String(), `"totalElements":0`)
}

type failingManager struct{}

var errStoreDown = errors.New("connection refused")

func (failingManager) Create(context.Context, domain.TransactionFields) (*domain.Transaction, error) {
	return nil, errStoreDown
}

func (failingManager) GetPage(context.Context, int, int) (domain.Page, error) {
	return domain.Page{}, errStoreDown
}

func (failingManager) Get(context.Context, int64) (*domain.Transaction, error) {
	return nil, errStoreDown
}

func (failingManager) Update(context.Context, int64, domain.TransactionFields) (*domain.Transaction, error) {
	return nil, errStoreDown
}

func (failingManager) Delete(context.Context, int64) error {
	return errStoreDown
}

func TestInternalErrorsAreHidden(t *testing.T) {
	r := newRouter(failingManager{})

	rec := do(r, http.MethodGet, "/api/transactions", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")

	rec = do(r, http.MethodDelete, "/api/transactions/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
