package handler

import (
	"slot-machine-service/internal/game"
	"slot-machine-service/internal/model"
)

// SpinRequest is the body of every spin endpoint. Bet is a pointer so a
// missing field is told apart from zero.
type SpinRequest struct {
	Bet *int64 `json:"bet" binding:"required"`
}

// ErrorResponse carries a human-readable rejection reason.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// BalanceResponse is returned by status and reset.
type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// ClassicSpinResponse is returned by the classic spin endpoint.
type ClassicSpinResponse struct {
	Reels     []string `json:"reels"`
	Balance   int64    `json:"balance"`
	WinAmount int64    `json:"win_amount"`
}

// GrandSpinResponse is returned by the grand spin endpoint.
type GrandSpinResponse struct {
	Grid       [][]string     `json:"grid"`
	Balance    int64          `json:"balance"`
	WinAmount  int64          `json:"win_amount"`
	WinDetails []game.LineWin `json:"win_details"`
	Sound      string         `json:"sound"`
}

// HistoryResponse lists recent transactions, newest first.
type HistoryResponse struct {
	Transactions []*model.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
}

// GameInfo describes one registered variant.
type GameInfo struct {
	Command     string `json:"command"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GamesResponse lists the registered variants.
type GamesResponse struct {
	Games []GameInfo `json:"games"`
}

// HealthResponse reports store reachability.
type HealthResponse struct {
	Status string `json:"status"`
}
