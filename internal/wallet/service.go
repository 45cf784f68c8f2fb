package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/nairalock/nairalock/internal/ledger"
)

// Reader is the read side of the ledger.
type Reader interface {
	Snapshot() ledger.Snapshot
	Quote(amount decimal.Decimal, currency ledger.Currency) (ledger.Quote, error)
}

// Service exposes read-only wallet views backed by the ledger.
type Service struct {
	ledger Reader
}

// NewService builds a wallet service instance.
func NewService(l Reader) *Service {
	return &Service{ledger: l}
}

// Overview returns the balance with display strings.
func (s *Service) Overview() Overview {
	snap := s.ledger.Snapshot()
	return Overview{
		Balance: snap.Balance,
		Formatted: Formatted{
			USD: ledger.FormatAmount(snap.Balance.USD, ledger.USD),
			NGN: ledger.FormatAmount(snap.Balance.NGN, ledger.NGN),
		},
		IsLoading: snap.Busy,
	}
}

// Transactions returns the history newest first.
func (s *Service) Transactions(filter TransactionFilter) []ledger.Transaction {
	txs := s.ledger.Snapshot().Transactions
	out := make([]ledger.Transaction, 0, len(txs))
	for _, tx := range txs {
		if filter.Type != "" && tx.Type != filter.Type {
			continue
		}
		out = append(out, tx)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}

// Quote previews an amount in both currencies.
func (s *Service) Quote(amount decimal.Decimal, currency ledger.Currency) (ledger.Quote, error) {
	return s.ledger.Quote(amount, currency)
}
