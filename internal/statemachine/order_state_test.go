package statemachine

import (
	"testing"

	"foodportal/internal/model"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		from, to string
		wantErr  bool
	}{
		{model.OrderStatusConfirmed, model.OrderStatusPreparing, false},
		{model.OrderStatusPreparing, model.OrderStatusDelivering, false},
		{model.OrderStatusDelivering, model.OrderStatusCompleted, false},

		// skipping a step
		{model.OrderStatusConfirmed, model.OrderStatusDelivering, true},
		{model.OrderStatusConfirmed, model.OrderStatusCompleted, true},
		{model.OrderStatusPreparing, model.OrderStatusCompleted, true},

		// going backwards
		{model.OrderStatusPreparing, model.OrderStatusConfirmed, true},
		{model.OrderStatusDelivering, model.OrderStatusPreparing, true},

		// pending leaves only via claim or assignment, never a driver step
		{model.OrderStatusPending, model.OrderStatusConfirmed, true},
		{model.OrderStatusPending, model.OrderStatusPreparing, true},

		// terminal statuses never advance
		{model.OrderStatusCompleted, model.OrderStatusPending, true},
		{model.OrderStatusCancelled, model.OrderStatusConfirmed, true},

		// drivers cannot cancel
		{model.OrderStatusConfirmed, model.OrderStatusCancelled, true},
		{model.OrderStatusDelivering, model.OrderStatusCancelled, true},

		// unknown statuses
		{"", model.OrderStatusConfirmed, true},
		{model.OrderStatusConfirmed, "", true},
		{"shipped", model.OrderStatusCompleted, true},
	}
	for _, tt := range tests {
		err := Advance(tt.from, tt.to)
		if (err != nil) != tt.wantErr {
			t.Errorf("Advance(%q, %q) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
		}
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		status string
		want   string
		ok     bool
	}{
		{model.OrderStatusConfirmed, model.OrderStatusPreparing, true},
		{model.OrderStatusPreparing, model.OrderStatusDelivering, true},
		{model.OrderStatusDelivering, model.OrderStatusCompleted, true},
		{model.OrderStatusPending, "", false},
		{model.OrderStatusCompleted, "", false},
		{model.OrderStatusCancelled, "", false},
	}
	for _, tt := range tests {
		got, ok := Next(tt.status)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Next(%q) = (%q, %v), want (%q, %v)", tt.status, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []string{model.OrderStatusCompleted, model.OrderStatusCancelled} {
		if !IsTerminal(status) {
			t.Errorf("IsTerminal(%q) = false, want true", status)
		}
	}
	for _, status := range []string{model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusPreparing, model.OrderStatusDelivering} {
		if IsTerminal(status) {
			t.Errorf("IsTerminal(%q) = true, want false", status)
		}
	}
}

func TestKnownStatus(t *testing.T) {
	for _, status := range []string{
		model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusPreparing,
		model.OrderStatusDelivering, model.OrderStatusCompleted, model.OrderStatusCancelled,
	} {
		if !KnownStatus(status) {
			t.Errorf("KnownStatus(%q) = false, want true", status)
		}
	}
	if KnownStatus("shipped") || KnownStatus("") {
		t.Error("KnownStatus accepted an undefined status")
	}
}
