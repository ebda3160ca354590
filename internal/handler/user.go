// Package handler exposes the slot service over HTTP.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slot-machine-service/internal/model"
	"slot-machine-service/internal/service"
)

// History page bounds.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

// Ledger is the settlement surface the handlers depend on.
type Ledger interface {
	Settle(ctx context.Context, token, command string, bet int64) (*service.SpinResult, error)
	Reset(ctx context.Context, token string) (int64, error)
	History(ctx context.Context, token string, limit int) ([]*model.Transaction, error)
}

// UserHandler serves balance and account endpoints.
type UserHandler struct {
	ledger       Ledger
	historyLimit int
}

// NewUserHandler creates a UserHandler. historyLimit is the page size
// used when the request does not name one.
func NewUserHandler(ledger Ledger, historyLimit int) *UserHandler {
	if historyLimit <= 0 || historyLimit > MaxHistoryLimit {
		historyLimit = DefaultHistoryLimit
	}
	return &UserHandler{ledger: ledger, historyLimit: historyLimit}
}

// Status handles GET /api/user/status.
func (h *UserHandler) Status(c *gin.Context) {
	acc := accountFrom(c)
	c.JSON(http.StatusOK, BalanceResponse{Balance: acc.Balance})
}

// Reset handles POST /api/user/reset.
func (h *UserHandler) Reset(c *gin.Context) {
	acc := accountFrom(c)

	balance, err := h.ledger.Reset(c.Request.Context(), acc.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, BalanceResponse{Balance: balance})
}

// History handles GET /api/user/history?limit=N.
func (h *UserHandler) History(c *gin.Context) {
	acc := accountFrom(c)

	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondBindError(c, err)
			return
		}
		limit = min(max(n, 1), MaxHistoryLimit)
	}

	txs, err := h.ledger.History(c.Request.Context(), acc.Token, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if txs == nil {
		txs = []*model.Transaction{}
	}
	c.JSON(http.StatusOK, HistoryResponse{Transactions: txs, Count: len(txs)})
}
