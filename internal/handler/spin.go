package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slot-machine-service/internal/game"
	"slot-machine-service/internal/service"
)

// SpinHandler serves the spin endpoints of every variant.
type SpinHandler struct {
	ledger Ledger
}

// NewSpinHandler creates a SpinHandler.
func NewSpinHandler(ledger Ledger) *SpinHandler {
	return &SpinHandler{ledger: ledger}
}

// Classic handles POST /api/classic/spin.
func (h *SpinHandler) Classic(c *gin.Context) {
	res, ok := h.settle(c, "classic")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ClassicSpinResponse{
		Reels:     res.Outcome.Reels,
		Balance:   res.Balance,
		WinAmount: res.Outcome.WinAmount,
	})
}

// Grand handles POST /api/grand/spin.
func (h *SpinHandler) Grand(c *gin.Context) {
	res, ok := h.settle(c, "grand")
	if !ok {
		return
	}

	details := res.Outcome.WinLines
	if details == nil {
		details = []game.LineWin{}
	}
	c.JSON(http.StatusOK, GrandSpinResponse{
		Grid:       res.Outcome.Grid,
		Balance:    res.Balance,
		WinAmount:  res.Outcome.WinAmount,
		WinDetails: details,
		Sound:      res.Outcome.Sound,
	})
}

// settle binds the body and runs the spin. It writes the error response
// itself and returns false on failure.
func (h *SpinHandler) settle(c *gin.Context, command string) (*service.SpinResult, bool) {
	var req SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return nil, false
	}

	acc := accountFrom(c)
	res, err := h.ledger.Settle(c.Request.Context(), acc.Token, command, *req.Bet)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return res, true
}
