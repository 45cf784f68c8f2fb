package funding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/nairalock/nairalock/internal/ledger"
)

// Ledger is the subset of *ledger.Ledger used for funding.
type Ledger interface {
	Deposit(ctx context.Context, amount decimal.Decimal, currency ledger.Currency) (*ledger.Pending, error)
	Withdraw(ctx context.Context, amount decimal.Decimal, currency ledger.Currency) (*ledger.Pending, error)
	Snapshot() ledger.Snapshot
}

// Service submits deposits and withdrawals to the ledger and optionally waits
// for them to settle.
type Service struct {
	ledger Ledger
	logger *slog.Logger
}

// NewService constructs a funding service.
func NewService(l Ledger, logger *slog.Logger) *Service {
	return &Service{ledger: l, logger: logger}
}

// Input captures a funding request. Async returns as soon as the operation is queued.
type Input struct {
	Amount   decimal.Decimal
	Currency ledger.Currency
	Async    bool
}

// Deposit credits the wallet.
func (s *Service) Deposit(ctx context.Context, in Input) (FundingResponse, error) {
	p, err := s.ledger.Deposit(ctx, in.Amount, in.Currency)
	if err != nil {
		return FundingResponse{}, fmt.Errorf("deposit: %w", err)
	}
	return s.settle(ctx, p, in)
}

// Withdraw debits the wallet. ledger.ErrInsufficientFunds is returned when
// the balance at settlement cannot cover the amount.
func (s *Service) Withdraw(ctx context.Context, in Input) (FundingResponse, error) {
	p, err := s.ledger.Withdraw(ctx, in.Amount, in.Currency)
	if err != nil {
		return FundingResponse{}, fmt.Errorf("withdraw: %w", err)
	}
	return s.settle(ctx, p, in)
}

func (s *Service) settle(ctx context.Context, p *ledger.Pending, in Input) (FundingResponse, error) {
	res := FundingResponse{
		TransactionID: p.TransactionID(),
		Status:        ledger.StatusPending,
		Amount:        in.Amount,
		Currency:      in.Currency,
	}
	if in.Async {
		return res, nil
	}
	tx, err := p.Wait(ctx)
	if err != nil {
		s.logger.InfoContext(ctx, "funding not applied", slog.String("tx_id", res.TransactionID), slog.String("error", err.Error()))
		return res, err
	}
	balance := s.ledger.Snapshot().Balance
	res.Status = tx.Status
	res.Transaction = &tx
	res.Balance = &balance
	return res, nil
}
