package funding

import (
	"github.com/shopspring/decimal"

	"github.com/nairalock/nairalock/internal/ledger"
)

// FundingRequest is the body accepted by deposit and withdraw.
type FundingRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency string          `json:"currency" validate:"required,oneof=USD NGN"`
}

// FundingResponse represents the API response for a funding operation. Amount
// echoes the request; Transaction is set once the operation has settled.
type FundingResponse struct {
	TransactionID string              `json:"transaction_id"`
	Status        ledger.Status       `json:"status"`
	Amount        decimal.Decimal     `json:"amount"`
	Currency      ledger.Currency     `json:"currency"`
	Transaction   *ledger.Transaction `json:"transaction,omitempty"`
	Balance       *ledger.Balance     `json:"balance,omitempty"`
}
