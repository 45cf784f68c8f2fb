package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the topic exchange wallet events are published to.
const DefaultExchange = "wallet.events"

// publisher is the subset of *amqp091.Channel the notifier needs.
type publisher interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPNotifier publishes notifications as JSON to a RabbitMQ topic exchange,
// routed by message kind.
type AMQPNotifier struct {
	conn     *amqp091.Connection
	channel  publisher
	exchange string
}

// DialAMQP connects to RabbitMQ and declares the wallet events exchange.
func DialAMQP(rawURL, exchange string) (*AMQPNotifier, error) {
	cleanURL, err := sanitizeAMQPURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("amqp url: %w", err)
	}
	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	n, err := newAMQPNotifier(ch, exchange)
	if err != nil {
		conn.Close()
		return nil, err
	}
	n.conn = conn
	return n, nil
}

func newAMQPNotifier(ch publisher, exchange string) (*AMQPNotifier, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPNotifier{channel: ch, exchange: exchange}, nil
}

// Send publishes the message with the notification kind as routing key.
func (n *AMQPNotifier) Send(ctx context.Context, message Message) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	err = n.channel.PublishWithContext(ctx, n.exchange, message.Kind, false, false, amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   message.OccurredAt,
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", message.Kind, err)
	}
	return nil
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() error {
	var errs []error
	if n.channel != nil {
		errs = append(errs, n.channel.Close())
	}
	if n.conn != nil {
		errs = append(errs, n.conn.Close())
	}
	return errors.Join(errs...)
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("scheme must be amqp:// or amqps://")
	}
	return clean, nil
}
