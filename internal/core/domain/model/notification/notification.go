package notification

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// Type classifies notifications.
type Type int

const (
	UnknownType Type = iota
	NewOrder
	DeliveryOpportunity
	StatusUpdate
)

var typeNames = map[Type]string{
	NewOrder:            "new_order",
	DeliveryOpportunity: "delivery_opportunity",
	StatusUpdate:        "status_update",
}

func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return UnknownType, errs.NewValueIsInvalidErrorWithCause("notification type", fmt.Errorf("%q is not a valid type", s))
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

func (t Type) Validate() error {
	if _, ok := typeNames[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("notification type", fmt.Errorf("%d is not a valid type", t))
	}
	return nil
}

// Notification is a persisted message for one recipient (customer, shop or partner).
type Notification struct {
	id          kernel.UUID
	recipientID kernel.UUID
	typ         Type
	title       string
	message     string
	payload     map[string]any
	createdAt   time.Time
	read        bool

	isConstructed bool
}

func NewNotification(
	recipientID kernel.UUID,
	typ Type,
	title, message string,
	payload map[string]any,
	createdAt time.Time,
) (*Notification, error) {
	return RestoreNotification(kernel.NewUUID(), recipientID, typ, title, message, payload, createdAt, false)
}

func RestoreNotification(
	id, recipientID kernel.UUID,
	typ Type,
	title, message string,
	payload map[string]any,
	createdAt time.Time,
	read bool,
) (*Notification, error) {
	title = strings.TrimSpace(title)

	var titleErr, createdErr error
	if title == "" {
		titleErr = errs.NewValueIsRequiredError("title")
	}
	if createdAt.IsZero() {
		createdErr = errs.NewValueIsRequiredError("created at")
	}

	if err := errors.Join(id.Validate(), recipientID.Validate(), typ.Validate(), titleErr, createdErr); err != nil {
		return nil, err
	}

	return &Notification{
		id:            id,
		recipientID:   recipientID,
		typ:           typ,
		title:         title,
		message:       message,
		payload:       maps.Clone(payload),
		createdAt:     createdAt,
		read:          read,
		isConstructed: true,
	}, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID          { return n.id }
func (n *Notification) RecipientID() kernel.UUID { return n.recipientID }
func (n *Notification) Type() Type               { return n.typ }
func (n *Notification) Title() string            { return n.title }
func (n *Notification) Message() string          { return n.message }
func (n *Notification) CreatedAt() time.Time     { return n.createdAt }
func (n *Notification) IsRead() bool             { return n.read }

func (n *Notification) Payload() map[string]any {
	return maps.Clone(n.payload)
}

// MarkRead is idempotent.
func (n *Notification) MarkRead() {
	n.read = true
}
