// Package kafka publishes order events for downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/order"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

const (
	EventOrderCreated  = "order.created"
	EventStatusChanged = "order.status_changed"
)

// OrderEvent is the wire format on the order events topic. Type tells the two
// kinds apart; messages are keyed by order id so one order stays on one partition.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	ShopID     string    `json:"shopId"`
	PartnerID  string    `json:"partnerId,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	Action     string    `json:"action,omitempty"`
	Total      int64     `json:"total,omitempty"`
	ItemCount  int       `json:"itemCount,omitempty"`
	At         time.Time `json:"at"`
}

type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logrus.Entry
}

// NewSyncProducer builds the producer configuration used in production.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	return sarama.NewSyncProducer(brokers, config)
}

func NewPublisher(producer sarama.SyncProducer, topic string, log *logrus.Entry) *Publisher {
	return &Publisher{producer: producer, topic: topic, log: log}
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, evt order.OrderCreated) error {
	return p.send(ctx, OrderEvent{
		Type:       EventOrderCreated,
		OrderID:    evt.OrderID.String(),
		CustomerID: evt.CustomerID.String(),
		ShopID:     evt.ShopID.String(),
		Total:      evt.Total,
		ItemCount:  evt.ItemCount,
		At:         evt.At,
	})
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, evt order.StatusChanged) error {
	e := OrderEvent{
		Type:       EventStatusChanged,
		OrderID:    evt.OrderID.String(),
		CustomerID: evt.CustomerID.String(),
		ShopID:     evt.ShopID.String(),
		From:       evt.From.String(),
		To:         evt.To.String(),
		Actor:      evt.Actor.String(),
		Action:     evt.Action.String(),
		At:         evt.At,
	}
	if evt.PartnerID != nil {
		e.PartnerID = evt.PartnerID.String()
	}
	return p.send(ctx, e)
}

func (p *Publisher) send(ctx context.Context, e OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.OrderID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return err
	}

	p.log.WithFields(logrus.Fields{
		"topic":     p.topic,
		"partition": partition,
		"offset":    offset,
		"order_id":  e.OrderID,
		"type":      e.Type,
	}).Debug("order event published")
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, order.OrderCreated) error   { return nil }
func (NopPublisher) PublishStatusChanged(context.Context, order.StatusChanged) error { return nil }
