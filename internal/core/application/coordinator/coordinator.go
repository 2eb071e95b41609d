// Package coordinator ties the order state machine, the matcher, the
// broadcaster and the notifier together behind the operations the transports
// expose.
package coordinator

import (
	"context"
	"errors"

	"dispatch/internal/core/application/broadcast"
	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// Deps are the collaborators of a Coordinator.
type Deps struct {
	UoWFactory  ports.UnitOfWorkFactory
	Orders      ports.OrderStore
	Partners    ports.PartnerDirectory
	Publisher   ports.EventPublisher
	Broadcaster *broadcast.Broadcaster
	Notifier    *notify.Dispatcher
	Metrics     *metrics.Metrics
	Log         *logrus.Entry
	Now         commands.Clock
}

// TransitionOutcome reports a transition request. Candidates is only set when
// the transition made the order ready without a partner.
type TransitionOutcome struct {
	Order            *order.Order
	Applied          bool
	NoPartnersNearby bool
	Candidates       []queries.PartnerCandidate
}

// PositionOutcome reports a location ping. Rejections that the partner app is
// expected to simply drop (stale order, out of order, duplicate) come back as
// Accepted=false with a Reason instead of an error.
type PositionOutcome struct {
	Accepted bool
	Reason   string
	Sample   tracking.Sample
}

const (
	ReasonStaleOrder = "stale_order"
	ReasonOutOfOrder = "out_of_order"
	ReasonDuplicate  = "duplicate"
)

// DispatchOutcome reports one matching round.
type DispatchOutcome struct {
	Order            *order.Order
	Candidates       []queries.PartnerCandidate
	Notified         int
	NoPartnersNearby bool
}

type Coordinator struct {
	cfg Config

	createOrder    commands.CreateOrderCommandHandler
	transition     commands.TransitionOrderCommandHandler
	reportPosition commands.ReportPositionCommandHandler
	candidates     queries.GetPartnerCandidatesQueryHandler

	orders      ports.OrderStore
	publisher   ports.EventPublisher
	broadcaster *broadcast.Broadcaster
	notifier    *notify.Dispatcher
	metrics     *metrics.Metrics
	log         *logrus.Entry
}

func New(cfg Config, deps Deps) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Coordinator{
		cfg:            cfg,
		createOrder:    commands.NewCreateOrderCommandHandler(deps.UoWFactory, deps.Now),
		transition:     commands.NewTransitionOrderCommandHandler(deps.Orders, deps.Now),
		reportPosition: commands.NewReportPositionCommandHandler(deps.UoWFactory, deps.Now),
		candidates: queries.NewGetPartnerCandidatesQueryHandler(
			deps.Orders, deps.Partners, services.NewGeospatialMatcher(),
		),
		orders:      deps.Orders,
		publisher:   deps.Publisher,
		broadcaster: deps.Broadcaster,
		notifier:    deps.Notifier,
		metrics:     deps.Metrics,
		log:         deps.Log,
	}, nil
}

func (c *Coordinator) Config() Config {
	return c.cfg
}

// CreateOrder stores a new pending order and tells the shop about it.
func (c *Coordinator) CreateOrder(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	o, err := c.createOrder.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}

	evt := order.NewOrderCreated(o)
	c.publish("order_created", evt.OrderID, func() error {
		return c.publisher.PublishOrderCreated(ctx, evt)
	})
	c.notifier.OnOrderCreated(ctx, o)

	c.log.WithFields(logrus.Fields{
		"order_id": o.ID().String(),
		"shop_id":  o.ShopID().String(),
		"total":    o.Total(),
	}).Info("order created")

	if c.cfg.Trigger == TriggerCreated {
		if _, err = c.Dispatch(ctx, o.ID()); err != nil {
			c.log.WithError(err).WithField("order_id", o.ID().String()).Warn("dispatch after creation failed")
		}
	}

	return o, nil
}

// Transition applies one state machine step and fans the resulting status
// change out to the event stream, the customer and the watchers. All of it runs
// under the order's feed lock, which orders it against other transitions and
// pings of the same order. Reaching ready without a partner immediately offers
// the order to nearby partners.
func (c *Coordinator) Transition(ctx context.Context, cmd commands.TransitionOrderCommand) (TransitionOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionOutcome{}, err
	}

	var res commands.TransitionResult
	_, err := c.broadcaster.Change(ctx, cmd.OrderID(), func(ctx context.Context) (*order.StatusChanged, error) {
		var hErr error
		res, hErr = c.transition.Handle(ctx, cmd)
		if hErr != nil || !res.Applied {
			return nil, hErr
		}

		evt := *res.Event
		c.publish("status_changed", evt.OrderID, func() error {
			return c.publisher.PublishStatusChanged(ctx, evt)
		})
		c.notifier.OnStatusChanged(ctx, evt)
		return &evt, nil
	})
	c.recordTransition(cmd, res, err)
	if err != nil {
		return TransitionOutcome{Order: res.Order}, err
	}

	out := TransitionOutcome{Order: res.Order, Applied: res.Applied}
	if !res.Applied {
		return out, nil
	}

	evt := *res.Event

	c.log.WithFields(logrus.Fields{
		"order_id": evt.OrderID.String(),
		"actor":    evt.Actor.String(),
		"action":   evt.Action.String(),
		"from":     evt.From.String(),
		"to":       evt.To.String(),
	}).Info("order transitioned")

	if evt.NeedsPartner() {
		d, dErr := c.dispatch(ctx, res.Order)
		if dErr != nil {
			c.log.WithError(dErr).WithField("order_id", evt.OrderID.String()).Warn("dispatch failed")
			return out, nil
		}
		out.NoPartnersNearby = d.NoPartnersNearby
		out.Candidates = d.Candidates
	}

	return out, nil
}

func (c *Coordinator) recordTransition(cmd commands.TransitionOrderCommand, res commands.TransitionResult, err error) {
	result := "applied"
	switch {
	case err == nil && !res.Applied:
		result = "replayed"
	case errors.Is(err, order.ErrAlreadyAssigned):
		result = "already_assigned"
		c.metrics.AssignmentConflicts.Inc()
	case errors.Is(err, order.ErrInvalidTransition):
		result = "invalid"
	case errors.Is(err, order.ErrActorNotPermitted):
		result = "not_permitted"
	case errors.Is(err, commands.ErrTransitionContention):
		result = "contention"
	case err != nil:
		result = "error"
	}
	c.metrics.TransitionsTotal.WithLabelValues(cmd.Actor().String(), cmd.Action().String(), result).Inc()
}

// ReportPosition accepts a ping from the assigned partner and pushes it to
// every watcher of the order. A partner that is not assigned gets
// tracking.ErrNotAssigned.
func (c *Coordinator) ReportPosition(ctx context.Context, cmd commands.ReportPositionCommand) (PositionOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return PositionOutcome{}, err
	}

	s, err := c.broadcaster.Ingest(ctx, cmd.OrderID(), func(ctx context.Context) (tracking.Sample, error) {
		return c.reportPosition.Handle(ctx, cmd)
	})

	log := c.log.WithFields(logrus.Fields{
		"order_id":   cmd.OrderID().String(),
		"partner_id": cmd.PartnerID().String(),
	})

	var reason string
	switch {
	case err == nil:
		c.metrics.SamplesTotal.WithLabelValues("accepted").Inc()
		return PositionOutcome{Accepted: true, Sample: s}, nil
	case errors.Is(err, tracking.ErrStaleOrder):
		reason = ReasonStaleOrder
	case errors.Is(err, tracking.ErrOutOfOrder):
		reason = ReasonOutOfOrder
	case errors.Is(err, tracking.ErrDuplicateSample):
		reason = ReasonDuplicate
	case errors.Is(err, tracking.ErrNotAssigned):
		c.metrics.SamplesTotal.WithLabelValues("not_assigned").Inc()
		log.Warn("ping from a partner not assigned to the order")
		return PositionOutcome{}, err
	default:
		c.metrics.SamplesTotal.WithLabelValues("error").Inc()
		return PositionOutcome{}, err
	}

	c.metrics.SamplesTotal.WithLabelValues(reason).Inc()
	log.WithError(err).Debug("position sample discarded")
	return PositionOutcome{Reason: reason}, nil
}

// Subscribe opens a watcher stream for an order. The stream of a delivered or
// cancelled order is closed from the start.
func (c *Coordinator) Subscribe(ctx context.Context, orderID kernel.UUID) (*broadcast.Subscription, error) {
	o, err := c.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status().IsTerminal() {
		c.broadcaster.Close(orderID, o.Status())
	}
	return c.broadcaster.Subscribe(orderID), nil
}

// Dispatch runs one matching round for an order that still needs a partner.
func (c *Coordinator) Dispatch(ctx context.Context, orderID kernel.UUID) (DispatchOutcome, error) {
	o, err := c.orders.Get(ctx, orderID)
	if err != nil {
		return DispatchOutcome{}, err
	}
	return c.dispatch(ctx, o)
}

func (c *Coordinator) dispatch(ctx context.Context, o *order.Order) (DispatchOutcome, error) {
	if !c.needsPartner(o) {
		c.metrics.DispatchRounds.WithLabelValues("skipped").Inc()
		return DispatchOutcome{Order: o}, nil
	}

	q, err := queries.NewGetPartnerCandidatesQuery(o.ID(), c.cfg.DispatchRadiusKm)
	if err != nil {
		return DispatchOutcome{}, err
	}

	resp, err := c.candidates.Handle(ctx, q)
	switch {
	case errors.Is(err, services.ErrNoCandidatesFound):
		c.metrics.DispatchRounds.WithLabelValues("no_partners").Inc()
		c.log.WithField("order_id", o.ID().String()).Info("no partners nearby")
		return DispatchOutcome{Order: resp.Order, Candidates: resp.Candidates, NoPartnersNearby: true}, nil
	case err != nil:
		c.metrics.DispatchRounds.WithLabelValues("error").Inc()
		return DispatchOutcome{}, err
	}

	notified := c.notifier.OnOrderReady(ctx, resp.Order, resp.Candidates)
	c.metrics.DispatchRounds.WithLabelValues("offered").Inc()
	c.log.WithFields(logrus.Fields{
		"order_id":   o.ID().String(),
		"candidates": len(resp.Candidates),
		"notified":   notified,
	}).Info("delivery opportunity offered")

	return DispatchOutcome{Order: resp.Order, Candidates: resp.Candidates, Notified: notified}, nil
}

func (c *Coordinator) needsPartner(o *order.Order) bool {
	if o.PartnerID() != nil {
		return false
	}
	switch o.Status() {
	case order.Ready:
		return true
	case order.Pending:
		return c.cfg.Trigger == TriggerCreated
	default:
		return false
	}
}

// RedispatchWaiting re-offers every order still waiting for a partner and
// returns the number of rounds that reached at least one candidate. It never
// cancels anything; stale orders stay where they are.
func (c *Coordinator) RedispatchWaiting(ctx context.Context) (int, error) {
	statuses := []order.Status{order.Ready}
	if c.cfg.Trigger == TriggerCreated {
		statuses = append(statuses, order.Pending)
	}

	waiting, err := c.orders.List(ctx, ports.OrderFilter{Statuses: statuses, Unassigned: true})
	if err != nil {
		return 0, err
	}

	offered := 0
	var errs []error
	for _, o := range waiting {
		if err = ctx.Err(); err != nil {
			return offered, err
		}
		d, dErr := c.dispatch(ctx, o)
		if dErr != nil {
			errs = append(errs, dErr)
			continue
		}
		if d.Notified > 0 {
			offered++
		}
	}
	return offered, errors.Join(errs...)
}

func (c *Coordinator) publish(kind string, orderID kernel.UUID, send func() error) {
	if err := send(); err != nil {
		c.metrics.PublishedEventsTotal.WithLabelValues(kind, "failed").Inc()
		c.log.WithError(err).WithFields(logrus.Fields{
			"order_id": orderID.String(),
			"event":    kind,
		}).Error("order event not published")
		return
	}
	c.metrics.PublishedEventsTotal.WithLabelValues(kind, "published").Inc()
}
