package ledger

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nairalock/nairalock/internal/notification"
)

const (
	// DefaultLatency is the simulated settlement delay applied to each funding operation.
	DefaultLatency = 1500 * time.Millisecond

	defaultQueueSize = 64
	placeholderName  = "Card Holder"
)

type opKind int

const (
	opDeposit opKind = iota
	opWithdraw
)

type fundingOp struct {
	ctx      context.Context
	kind     opKind
	amount   decimal.Decimal
	currency Currency
	pending  *Pending
}

// Ledger is the in-memory wallet state. Funding operations are applied one at
// a time by a single worker goroutine; card operations apply immediately.
type Ledger struct {
	mu           sync.RWMutex
	balance      Balance
	transactions []Transaction
	cards        []Card
	rng          *rand.Rand

	queue    chan fundingOp
	inFlight atomic.Int64
	latency  time.Duration
	now      func() time.Time
	notifier notification.Notifier
	holders  HolderSource
	logger   *slog.Logger

	closeMu sync.RWMutex
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLatency overrides the settlement delay. Zero applies operations as soon as they are dequeued.
func WithLatency(d time.Duration) Option {
	return func(l *Ledger) { l.latency = d }
}

// WithClock overrides the time source used for transaction dates and card expiry.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithRand overrides the random source used for card numbers and CVVs.
func WithRand(r *rand.Rand) Option {
	return func(l *Ledger) { l.rng = r }
}

func WithNotifier(n notification.Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithHolders sets where new cards read their holder name from.
func WithHolders(h HolderSource) Option {
	return func(l *Ledger) { l.holders = h }
}

func withQueueSize(n int) Option {
	return func(l *Ledger) { l.queue = make(chan fundingOp, n) }
}

// New builds a ledger initialised with the seed balance, transactions and
// cards and starts its funding worker. Call Close to stop it.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		balance:      SeedBalance(),
		transactions: SeedTransactions(),
		cards:        SeedCards(),
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		queue:        make(chan fundingOp, defaultQueueSize),
		latency:      DefaultLatency,
		now:          time.Now,
		logger:       slog.Default(),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	go l.run()
	return l
}

// Deposit queues a deposit. The returned Pending resolves once the simulated
// settlement delay has elapsed and the balance has been credited.
func (l *Ledger) Deposit(ctx context.Context, amount decimal.Decimal, currency Currency) (*Pending, error) {
	return l.submit(ctx, opDeposit, amount, currency)
}

// Withdraw queues a withdrawal. Sufficiency is checked when the withdrawal is
// applied, so an earlier queued withdrawal can cause a later one to fail.
func (l *Ledger) Withdraw(ctx context.Context, amount decimal.Decimal, currency Currency) (*Pending, error) {
	return l.submit(ctx, opWithdraw, amount, currency)
}

func (l *Ledger) submit(ctx context.Context, kind opKind, amount decimal.Decimal, currency Currency) (*Pending, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !currency.Valid() {
		return nil, ErrUnsupportedCurrency
	}

	l.closeMu.RLock()
	defer l.closeMu.RUnlock()
	if l.closed {
		return nil, ErrClosed
	}

	op := fundingOp{
		ctx:      context.WithoutCancel(ctx),
		kind:     kind,
		amount:   amount,
		currency: currency,
		pending:  newPending("tx_" + uuid.NewString()),
	}
	l.inFlight.Add(1)
	select {
	case l.queue <- op:
		return op.pending, nil
	default:
		l.inFlight.Add(-1)
		return nil, ErrQueueFull
	}
}

func (l *Ledger) run() {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			l.drain()
			return
		default:
		}
		select {
		case op := <-l.queue:
			l.process(op)
		case <-l.stop:
			l.drain()
			return
		}
	}
}

func (l *Ledger) process(op fundingOp) {
	if !l.settle() {
		l.inFlight.Add(-1)
		op.pending.resolve(Transaction{}, ErrClosed)
		return
	}

	var (
		tx  Transaction
		msg notification.Message
		err error
	)
	switch op.kind {
	case opDeposit:
		tx, msg = l.applyDeposit(op)
	case opWithdraw:
		tx, msg, err = l.applyWithdraw(op)
	}
	l.inFlight.Add(-1)
	op.pending.resolve(tx, err)
	l.notify(op.ctx, msg)
}

// settle waits out the settlement latency. It reports false once Close has begun.
func (l *Ledger) settle() bool {
	if l.latency <= 0 {
		select {
		case <-l.stop:
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(l.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-l.stop:
		return false
	}
}

func (l *Ledger) drain() {
	for {
		select {
		case op := <-l.queue:
			l.inFlight.Add(-1)
			op.pending.resolve(Transaction{}, ErrClosed)
		default:
			return
		}
	}
}

func (l *Ledger) applyDeposit(op fundingOp) (Transaction, notification.Message) {
	l.mu.Lock()
	usd, ngn := l.convert(op.amount, op.currency)
	l.balance.USD = l.balance.USD.Add(usd)
	l.balance.NGN = l.balance.NGN.Add(ngn)
	tx := l.record(op.pending.txID, TypeDeposit, usd, "Deposit via bank transfer")
	l.mu.Unlock()

	l.logger.Info("deposit applied",
		slog.String("tx_id", tx.ID),
		slog.String("usd", usd.String()),
		slog.String("currency", string(op.currency)),
	)
	return tx, notification.Message{
		Kind:  notification.KindDepositCompleted,
		Level: notification.LevelSuccess,
		Body:  "Successfully deposited " + FormatAmount(op.amount, op.currency),
	}
}

func (l *Ledger) applyWithdraw(op fundingOp) (Transaction, notification.Message, error) {
	l.mu.Lock()
	usd, ngn := l.convert(op.amount, op.currency)
	if usd.GreaterThan(l.balance.USD) {
		l.mu.Unlock()
		l.logger.Warn("withdrawal rejected",
			slog.String("usd", usd.String()),
			slog.String("currency", string(op.currency)),
		)
		return Transaction{}, notification.Message{
			Kind:  notification.KindWithdrawalFailed,
			Level: notification.LevelError,
			Body:  "Insufficient funds",
		}, ErrInsufficientFunds
	}
	l.balance.USD = l.balance.USD.Sub(usd)
	l.balance.NGN = l.balance.NGN.Sub(ngn)
	tx := l.record(op.pending.txID, TypeWithdrawal, usd, "Withdrawal to bank account")
	l.mu.Unlock()

	l.logger.Info("withdrawal applied",
		slog.String("tx_id", tx.ID),
		slog.String("usd", usd.String()),
		slog.String("currency", string(op.currency)),
	)
	return tx, notification.Message{
		Kind:  notification.KindWithdrawalCompleted,
		Level: notification.LevelSuccess,
		Body:  "Successfully withdrew " + FormatAmount(op.amount, op.currency),
	}, nil
}

// convert returns the USD amount and NGN delta for a funding amount. Must hold mu.
func (l *Ledger) convert(amount decimal.Decimal, currency Currency) (usd, ngn decimal.Decimal) {
	usd = amount
	if currency == NGN {
		usd = amount.Div(l.balance.FXRate)
	}
	return usd, usd.Mul(l.balance.FXRate)
}

// record prepends a completed transaction. Must hold mu.
func (l *Ledger) record(id string, typ TransactionType, usd decimal.Decimal, description string) Transaction {
	tx := Transaction{
		ID:          id,
		Type:        typ,
		Amount:      usd,
		Currency:    USD,
		Description: description,
		Date:        l.now().UTC(),
		Status:      StatusCompleted,
	}
	l.transactions = append([]Transaction{tx}, l.transactions...)
	return tx
}

func (l *Ledger) notify(ctx context.Context, msg notification.Message) {
	if l.notifier == nil || msg.Kind == "" {
		return
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = l.now().UTC()
	}
	if err := l.notifier.Send(ctx, msg); err != nil {
		l.logger.Warn("notification failed", slog.String("kind", msg.Kind), slog.String("error", err.Error()))
	}
}

// Busy reports whether any funding operation is queued or settling.
func (l *Ledger) Busy() bool {
	return l.inFlight.Load() > 0
}

// Snapshot returns a copy of the balance, transactions and cards.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{
		Balance:      l.balance,
		Transactions: append([]Transaction(nil), l.transactions...),
		Cards:        append([]Card(nil), l.cards...),
		Busy:         l.Busy(),
	}
}

// Quote converts an amount at the current rate without touching the balance.
func (l *Ledger) Quote(amount decimal.Decimal, currency Currency) (Quote, error) {
	if !amount.IsPositive() {
		return Quote{}, ErrInvalidAmount
	}
	if !currency.Valid() {
		return Quote{}, ErrUnsupportedCurrency
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	usd, ngn := l.convert(amount, currency)
	return Quote{Amount: amount, Currency: currency, USD: usd, NGN: ngn, FXRate: l.balance.FXRate}, nil
}

// Close stops the funding worker. Operations still queued or settling resolve with ErrClosed.
func (l *Ledger) Close() {
	l.closeMu.Lock()
	if l.closed {
		l.closeMu.Unlock()
		<-l.done
		return
	}
	l.closed = true
	close(l.stop)
	l.closeMu.Unlock()
	<-l.done
}
