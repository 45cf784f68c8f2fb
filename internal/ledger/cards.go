package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/nairalock/nairalock/internal/notification"
)

// CreateCard issues a synthetic card of the given type to the active identity
// and appends it to the card list.
func (l *Ledger) CreateCard(ctx context.Context, cardType CardType) (Card, error) {
	if !cardType.Valid() {
		return Card{}, ErrUnsupportedCardType
	}
	holder := placeholderName
	if l.holders != nil {
		if id, ok := l.holders.Current(); ok && id.Name != "" {
			holder = id.Name
		}
	}

	l.mu.Lock()
	now := l.now()
	card := Card{
		ID:         "card_" + uuid.NewString(),
		CardNumber: l.cardNumber(cardType),
		ExpiryDate: fmt.Sprintf("%02d/%02d", int(now.Month()), (now.Year()+3)%100),
		CVV:        strconv.Itoa(100 + l.rng.IntN(900)),
		CardHolder: holder,
		Type:       cardType,
	}
	l.cards = append(l.cards, card)
	l.mu.Unlock()

	l.logger.Info("card created", slog.String("card_id", card.ID), slog.String("type", string(cardType)))
	l.notify(ctx, notification.Message{
		Kind:  notification.KindCardCreated,
		Level: notification.LevelSuccess,
		Body:  fmt.Sprintf("New %s card created successfully!", cardType),
	})
	return card, nil
}

// cardNumber returns sixteen digits grouped in fours. Must hold mu.
func (l *Ledger) cardNumber(cardType CardType) string {
	var digits strings.Builder
	digits.WriteString(cardType.prefix())
	for range 15 {
		digits.WriteByte(byte('0' + l.rng.IntN(10)))
	}
	raw := digits.String()
	return strings.Join([]string{raw[0:4], raw[4:8], raw[8:12], raw[12:16]}, " ")
}

// ToggleFreezeCard flips the frozen flag of the card and returns the updated card.
func (l *Ledger) ToggleFreezeCard(ctx context.Context, cardID string) (Card, error) {
	l.mu.Lock()
	idx := l.cardIndex(cardID)
	if idx < 0 {
		l.mu.Unlock()
		return Card{}, ErrCardNotFound
	}
	l.cards[idx].Frozen = !l.cards[idx].Frozen
	card := l.cards[idx]
	l.mu.Unlock()

	kind, state := notification.KindCardUnfrozen, "unfrozen"
	if card.Frozen {
		kind, state = notification.KindCardFrozen, "frozen"
	}
	l.logger.Info("card "+state, slog.String("card_id", card.ID))
	l.notify(ctx, notification.Message{
		Kind:  kind,
		Level: notification.LevelSuccess,
		Body:  fmt.Sprintf("Card ending in %s has been %s.", card.LastFour(), state),
	})
	return card, nil
}

// DeleteCard removes the card, preserving the order of the rest.
func (l *Ledger) DeleteCard(ctx context.Context, cardID string) error {
	l.mu.Lock()
	idx := l.cardIndex(cardID)
	if idx < 0 {
		l.mu.Unlock()
		return ErrCardNotFound
	}
	card := l.cards[idx]
	l.cards = append(l.cards[:idx:idx], l.cards[idx+1:]...)
	l.mu.Unlock()

	l.logger.Info("card deleted", slog.String("card_id", card.ID))
	l.notify(ctx, notification.Message{
		Kind:  notification.KindCardDeleted,
		Level: notification.LevelSuccess,
		Body:  fmt.Sprintf("Card ending in %s has been deleted.", card.LastFour()),
	})
	return nil
}

// Card returns a single card by id.
func (l *Ledger) Card(cardID string) (Card, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.cardIndex(cardID)
	if idx < 0 {
		return Card{}, ErrCardNotFound
	}
	return l.cards[idx], nil
}

func (l *Ledger) cardIndex(cardID string) int {
	for i, c := range l.cards {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}
