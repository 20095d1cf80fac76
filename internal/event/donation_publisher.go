package event

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DonationQueue = "donation_events"

// DonationEvent is what downstream consumers (receipts, dashboards) see.
// Donor identity never leaves this service.
type DonationEvent struct {
	DonationID  int64     `json:"donation_id"`
	CampaignID  int64     `json:"campaign_id"`
	Amount      float64   `json:"amount"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

type DonationPublisher struct {
	rabbit *RabbitMQ
}

func NewDonationPublisher(rabbit *RabbitMQ) (*DonationPublisher, error) {
	if rabbit != nil {
		if _, err := rabbit.DeclareQueue(DonationQueue); err != nil {
			return nil, err
		}
	}
	return &DonationPublisher{rabbit: rabbit}, nil
}

// Publish is best effort. A donation must never fail because the broker is
// down, so errors are logged and swallowed.
func (p *DonationPublisher) Publish(ctx context.Context, event DonationEvent) {
	if p == nil || p.rabbit == nil {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal donation event: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err = p.rabbit.Channel.PublishWithContext(ctx,
		"",
		DonationQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		log.Printf("failed to publish donation event for donation %d: %v", event.DonationID, err)
	}
}
