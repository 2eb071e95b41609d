package coordinator

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
)

// Trigger selects when partners are first offered an order.
type Trigger string

const (
	// TriggerReady offers the order once the shop marks it ready.
	TriggerReady Trigger = "ready"
	// TriggerCreated offers it as soon as it is placed.
	TriggerCreated Trigger = "created"
)

func ParseTrigger(s string) (Trigger, error) {
	switch t := Trigger(strings.ToLower(strings.TrimSpace(s))); t {
	case TriggerReady, TriggerCreated:
		return t, nil
	case "":
		return TriggerReady, nil
	default:
		return "", fmt.Errorf("unknown dispatch trigger %q", s)
	}
}

type Config struct {
	ShopRadiusKm     float64
	DispatchRadiusKm float64
	Trigger          Trigger
}

func DefaultConfig() Config {
	return Config{
		ShopRadiusKm:     10,
		DispatchRadiusKm: 5,
		Trigger:          TriggerReady,
	}
}

func (c Config) Validate() error {
	var triggerErr error
	if c.Trigger != TriggerReady && c.Trigger != TriggerCreated {
		triggerErr = fmt.Errorf("unknown dispatch trigger %q", c.Trigger)
	}
	return errors.Join(
		kernel.ValidateRadius(c.ShopRadiusKm),
		kernel.ValidateRadius(c.DispatchRadiusKm),
		triggerErr,
	)
}
