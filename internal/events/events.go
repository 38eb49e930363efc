// Package events carries booking lifecycle notifications to other systems.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// Topic is the stream all booking events are written to, optionally
	// prefixed per environment.
	Topic = "hotel.bookings.v1"

	BookingCreated         = "booking.created"
	BookingCancelled       = "booking.cancelled"
	ActivityBookingCreated = "activity_booking.created"
	ActivityBookingVoided  = "activity_booking.voided"
	GuestCheckedIn         = "guest.checked_in"
	GuestCheckedOut        = "guest.checked_out"

	source = "hotel-api"
)

// Event is a CloudEvents-shaped envelope.
type Event struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	Type    string    `json:"type"`
	Subject string    `json:"subject"`
	Time    time.Time `json:"time"`
	Data    any       `json:"data,omitempty"`
}

func New(eventType, subject string, data any, at time.Time) Event {
	return Event{
		ID:      uuid.NewString(),
		Source:  source,
		Type:    eventType,
		Subject: subject,
		Time:    at.UTC(),
		Data:    data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }
