package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AndresCespedes/inventory-service/internal/model"
)

// AMQPSink publishes change events to a topic exchange. Routing key:
// inventory.<action>.<product_id>.
type AMQPSink struct {
	ch       *amqp.Channel
	exchange string
}

// NewAMQPSink declares the exchange and returns a sink bound to it.
func NewAMQPSink(conn *amqp.Connection, exchange string) (*AMQPSink, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPSink{ch: ch, exchange: exchange}, nil
}

func (s *AMQPSink) Deliver(ctx context.Context, ev model.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("could not marshal change event: %w", err)
	}

	routingKey := fmt.Sprintf("inventory.%s.%d", ev.Action, ev.ProductID)

	return s.ch.PublishWithContext(ctx,
		s.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close releases the channel.
func (s *AMQPSink) Close() error { return s.ch.Close() }
