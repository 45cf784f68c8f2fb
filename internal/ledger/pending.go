package ledger

import "context"

// Pending is the future returned by Deposit and Withdraw. Its effects are
// visible in snapshots only once Done is closed.
type Pending struct {
	txID string
	done chan struct{}
	tx   Transaction
	err  error
}

func newPending(txID string) *Pending {
	return &Pending{txID: txID, done: make(chan struct{})}
}

// TransactionID is the id the transaction will carry if the operation succeeds.
func (p *Pending) TransactionID() string {
	return p.txID
}

// Done is closed once the operation has completed or failed.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the operation resolves or ctx ends. A cancelled wait does
// not cancel the operation itself.
func (p *Pending) Wait(ctx context.Context) (Transaction, error) {
	select {
	case <-p.done:
		return p.tx, p.err
	case <-ctx.Done():
		return Transaction{}, ctx.Err()
	}
}

func (p *Pending) resolve(tx Transaction, err error) {
	p.tx = tx
	p.err = err
	close(p.done)
}
