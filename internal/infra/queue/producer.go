package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DealWonPayload is published when an opportunity reaches the won
// stage. The consumer resolves the assigned rep through the lead; the
// lead may already be gone by then.
type DealWonPayload struct {
	OpportunityID string `json:"opportunity_id"`
	Name          string `json:"name"`
	ValueCents    int64  `json:"value_cents"`
	LeadID        string `json:"lead_id"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishDealWon(ctx context.Context, payload DealWonPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing deal won event: %w", err)
	}
	return nil
}
