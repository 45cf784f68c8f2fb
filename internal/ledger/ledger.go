package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nairalock/nairalock/internal/identity"
)

func init() {
	// Amounts go over the wire as JSON numbers, e.g. "usd":1250.75.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	// ErrInsufficientFunds occurs when a withdrawal exceeds the available USD balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount rejects zero or negative funding amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrUnsupportedCurrency rejects currencies other than USD and NGN.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrUnsupportedCardType rejects card brands other than Visa and Mastercard.
	ErrUnsupportedCardType = errors.New("unsupported card type")

	// ErrCardNotFound is returned by card mutations for an unknown card id.
	ErrCardNotFound = errors.New("card not found")

	// ErrQueueFull is returned when too many funding operations are waiting.
	ErrQueueFull = errors.New("funding queue full")

	// ErrClosed is returned for operations submitted to, or still queued in, a closed ledger.
	ErrClosed = errors.New("ledger closed")
)

// Currency is an ISO code accepted for funding.
type Currency string

const (
	USD Currency = "USD"
	NGN Currency = "NGN"
)

// Valid reports whether the currency is supported.
func (c Currency) Valid() bool {
	return c == USD || c == NGN
}

// Symbol returns the display symbol.
func (c Currency) Symbol() string {
	if c == NGN {
		return "₦"
	}
	return "$"
}

type TransactionType string

const (
	TypeDeposit     TransactionType = "deposit"
	TypeWithdrawal  TransactionType = "withdrawal"
	TypeCardPayment TransactionType = "card_payment"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

type CardType string

const (
	Visa       CardType = "Visa"
	Mastercard CardType = "Mastercard"
)

// Valid reports whether the card type can be issued.
func (t CardType) Valid() bool {
	return t == Visa || t == Mastercard
}

func (t CardType) prefix() string {
	if t == Mastercard {
		return "5"
	}
	return "4"
}

// Balance holds the wallet funds. NGN is adjusted incrementally alongside USD
// and is never recomputed from USD * FXRate.
type Balance struct {
	USD    decimal.Decimal `json:"usd"`
	NGN    decimal.Decimal `json:"ngn"`
	FXRate decimal.Decimal `json:"fxRate"`
}

// Transaction is an immutable ledger record. Amount is USD-denominated.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    Currency        `json:"currency"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Status      Status          `json:"status"`
}

// Card is a synthetic virtual payment card.
type Card struct {
	ID         string   `json:"id"`
	CardNumber string   `json:"cardNumber"`
	ExpiryDate string   `json:"expiryDate"`
	CVV        string   `json:"cvv"`
	CardHolder string   `json:"cardHolder"`
	Type       CardType `json:"type"`
	Frozen     bool     `json:"frozen"`
}

// LastFour returns the final four digits of the card number.
func (c Card) LastFour() string {
	if len(c.CardNumber) < 4 {
		return c.CardNumber
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}

// MaskedNumber hides all but the last four digits.
func (c Card) MaskedNumber() string {
	return "**** **** **** " + c.LastFour()
}

// Snapshot is a read-only copy of the ledger state.
type Snapshot struct {
	Balance      Balance       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
	Cards        []Card        `json:"cards"`
	Busy         bool          `json:"isLoading"`
}

// Quote previews a funding amount in both currencies at the current rate.
type Quote struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	USD      decimal.Decimal `json:"usd"`
	NGN      decimal.Decimal `json:"ngn"`
	FXRate   decimal.Decimal `json:"fxRate"`
}

// HolderSource provides the active identity read at card creation.
type HolderSource interface {
	Current() (identity.Identity, bool)
}
