// Package statemachine defines the order lifecycle transition table once, so
// the driver step endpoint and the admin override path share a single rule
// set instead of repeating inline checks.
package statemachine

import (
	"fmt"

	"foodportal/internal/model"
)

// successor maps each status to the single status a driver may advance to.
// pending has no driver-advance successor: it leaves pending only through
// driver claim or admin assignment, both of which set confirmed.
var successor = map[string]string{
	model.OrderStatusConfirmed:  model.OrderStatusPreparing,
	model.OrderStatusPreparing:  model.OrderStatusDelivering,
	model.OrderStatusDelivering: model.OrderStatusCompleted,
}

var known = map[string]bool{
	model.OrderStatusPending:    true,
	model.OrderStatusConfirmed:  true,
	model.OrderStatusPreparing:  true,
	model.OrderStatusDelivering: true,
	model.OrderStatusCompleted:  true,
	model.OrderStatusCancelled:  true,
}

// KnownStatus reports whether status names a defined order status.
func KnownStatus(status string) bool {
	return known[status]
}

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status string) bool {
	return status == model.OrderStatusCompleted || status == model.OrderStatusCancelled
}

// Next returns the single driver-advance successor of the given status, or
// false when the status has none.
func Next(status string) (string, bool) {
	next, ok := successor[status]
	return next, ok
}

// Advance validates a driver's request to move an order from one status to
// a target. The target must equal the single defined successor of the
// current status; any other request is rejected.
func Advance(from, to string) error {
	if !known[from] {
		return fmt.Errorf("unknown order status %q", from)
	}
	if !known[to] {
		return fmt.Errorf("unknown order status %q", to)
	}
	next, ok := successor[from]
	if !ok {
		return fmt.Errorf("order in status %q cannot be advanced by the driver", from)
	}
	if to != next {
		return fmt.Errorf("invalid transition %s -> %s: the only allowed next status is %s", from, to, next)
	}
	return nil
}
