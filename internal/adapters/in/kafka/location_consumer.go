// Package kafka ingests partner location pings from a topic. Each ping goes
// through the same validation as POST /orders/{id}/location.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"dispatch/internal/core/application/coordinator"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/errs"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// LocationPing is the wire format of the location topic.
type LocationPing struct {
	OrderID    string     `json:"orderId"`
	PartnerID  string     `json:"partnerId"`
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
	RecordedAt *time.Time `json:"recordedAt,omitempty"`
}

type PositionReporter interface {
	ReportPosition(ctx context.Context, cmd commands.ReportPositionCommand) (coordinator.PositionOutcome, error)
}

// errPoison marks messages that can never succeed and are skipped.
var errPoison = errors.New("unprocessable location ping")

type LocationHandler struct {
	reporter PositionReporter
	log      *logrus.Entry
}

func NewLocationHandler(reporter PositionReporter, log *logrus.Entry) *LocationHandler {
	return &LocationHandler{reporter: reporter, log: log}
}

// Handle processes one message. A nil error, or one wrapping errPoison, means
// the offset may be committed.
func (h *LocationHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var ping LocationPing
	if err := json.Unmarshal(msg.Value, &ping); err != nil {
		return errors.Join(errPoison, err)
	}

	cmd, err := ping.command()
	if err != nil {
		return errors.Join(errPoison, err)
	}

	out, err := h.reporter.ReportPosition(ctx, cmd)
	switch {
	case errors.Is(err, tracking.ErrNotAssigned):
		return errors.Join(errPoison, err)
	case err != nil:
		return err
	}

	if !out.Accepted {
		h.log.WithFields(logrus.Fields{
			"order_id": ping.OrderID,
			"reason":   out.Reason,
		}).Debug("location ping discarded")
	}
	return nil
}

func (p LocationPing) command() (commands.ReportPositionCommand, error) {
	orderID, err := kernel.UUIDFromString(p.OrderID)
	if err != nil {
		return commands.ReportPositionCommand{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	partnerID, err := kernel.UUIDFromString(p.PartnerID)
	if err != nil {
		return commands.ReportPositionCommand{}, errs.NewValueIsInvalidErrorWithCause("partnerId", err)
	}
	point, err := kernel.NewGeoPoint(p.Lat, p.Lng)
	if err != nil {
		return commands.ReportPositionCommand{}, err
	}

	var at time.Time
	if p.RecordedAt != nil {
		at = *p.RecordedAt
	}
	return commands.NewReportPositionCommand(orderID, partnerID, point, at)
}

// Consumer runs a consumer group over the location topic until its context ends.
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler *LocationHandler
	log     *logrus.Entry
}

func NewConsumerGroup(brokers []string, groupID string) (sarama.ConsumerGroup, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Version = sarama.V2_6_0_0

	return sarama.NewConsumerGroup(brokers, groupID, config)
}

func NewConsumer(group sarama.ConsumerGroup, topic string, handler *LocationHandler, log *logrus.Entry) *Consumer {
	return &Consumer{group: group, topics: []string{topic}, handler: handler, log: log}
}

// Run blocks until ctx is cancelled or the group fails.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		if err := c.group.Consume(ctx, c.topics, c); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	c.log.Info("location consumer session started")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	c.log.Info("location consumer session ended")
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			err := c.handler.Handle(session.Context(), msg)
			log := c.log.WithFields(logrus.Fields{
				"partition": msg.Partition,
				"offset":    msg.Offset,
			})
			switch {
			case err == nil:
				session.MarkMessage(msg, "")
			case errors.Is(err, errPoison):
				log.WithError(err).Warn("skipping location ping")
				session.MarkMessage(msg, "")
			default:
				// left unmarked, redelivered after the next rebalance
				log.WithError(err).Error("location ping failed")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}
