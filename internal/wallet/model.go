package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/nairalock/nairalock/internal/ledger"
)

// Overview is the dashboard header: balances, rate and the busy flag.
type Overview struct {
	Balance   ledger.Balance `json:"balance"`
	Formatted Formatted      `json:"formatted"`
	IsLoading bool           `json:"isLoading"`
}

// Formatted holds the display strings for each balance.
type Formatted struct {
	USD string `json:"usd"`
	NGN string `json:"ngn"`
}

// TransactionFilter narrows the transaction history.
type TransactionFilter struct {
	Type  ledger.TransactionType
	Limit int
}

// QuoteRequest is the query accepted by the FX preview.
type QuoteRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency string          `json:"currency" validate:"required,oneof=USD NGN"`
}
