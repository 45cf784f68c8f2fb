package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeedBalance is the balance every process starts with.
func SeedBalance() Balance {
	return Balance{
		USD:    decimal.RequireFromString("1250.75"),
		NGN:    decimal.NewFromInt(1_875_000),
		FXRate: decimal.NewFromInt(1_500),
	}
}

// SeedTransactions returns the historical transactions, newest first.
func SeedTransactions() []Transaction {
	return []Transaction{
		seedTx("tx_12345", TypeDeposit, "500", "Deposit via bank transfer", "2025-04-28T14:32:00Z"),
		seedTx("tx_12346", TypeCardPayment, "49.99", "Netflix Subscription", "2025-04-26T09:15:00Z"),
		seedTx("tx_12347", TypeWithdrawal, "200", "Withdrawal to bank account", "2025-04-23T16:40:00Z"),
		seedTx("tx_12348", TypeCardPayment, "12.99", "Spotify Premium", "2025-04-20T12:05:00Z"),
		seedTx("tx_12349", TypeDeposit, "1000", "Deposit via bank transfer", "2025-04-15T10:22:00Z"),
	}
}

// SeedCards returns the cards every process starts with.
func SeedCards() []Card {
	return []Card{{
		ID:         "card_1234",
		CardNumber: "4111 2222 3333 4444",
		ExpiryDate: "05/28",
		CVV:        "123",
		CardHolder: "John Doe",
		Type:       Visa,
	}}
}

func seedTx(id string, typ TransactionType, amount, description, date string) Transaction {
	at, err := time.Parse(time.RFC3339, date)
	if err != nil {
		panic(err)
	}
	return Transaction{
		ID:          id,
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
		Currency:    USD,
		Description: description,
		Date:        at,
		Status:      StatusCompleted,
	}
}
