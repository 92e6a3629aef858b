package kernel

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// CloudEvent is an alias for the CloudEvents Event type for convenience.
type CloudEvent = cloudevents.Event

// NewCloudEvent converts a kernel lifecycle event into a CloudEvent with the
// given source. The event struct itself becomes the JSON payload.
func NewCloudEvent(source string, event Event) cloudevents.Event {
	ce := cloudevents.NewEvent()
	ce.SetID(generateEventID())
	ce.SetSource(source)
	ce.SetType(event.Type())
	ce.SetTime(time.Now())
	ce.SetSpecVersion(cloudevents.VersionV1)
	_ = ce.SetData(cloudevents.ApplicationJSON, event)
	return ce
}

// generateEventID generates a unique identifier for CloudEvents using UUIDv7.
// UUIDv7 includes timestamp information which provides time-ordered uniqueness.
func generateEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails for any reason
		id = uuid.New()
	}
	return id.String()
}

// CloudEventSink receives exported CloudEvents.
type CloudEventSink func(ctx context.Context, event cloudevents.Event) error

// CloudEventForwarder converts lifecycle events to CloudEvents and forwards
// them to a sink. Attach its Listener to an EventBus to export kernel events
// to external observers. Forwarding failures are logged, never propagated
// into the lifecycle operation that emitted the event.
type CloudEventForwarder struct {
	source string
	sink   CloudEventSink
	logger Logger
}

// NewCloudEventForwarder creates a forwarder emitting events with the given
// source attribute.
func NewCloudEventForwarder(source string, sink CloudEventSink, logger Logger) *CloudEventForwarder {
	if logger == nil {
		logger = nopLogger{}
	}
	return &CloudEventForwarder{source: source, sink: sink, logger: logger}
}

// Listener returns an event bus listener that exports every event it sees.
func (f *CloudEventForwarder) Listener() Listener {
	return func(event Event) {
		ce := NewCloudEvent(f.source, event)
		if err := ce.Validate(); err != nil {
			f.logger.Error("Invalid CloudEvent", "eventType", event.Type(), "error", err)
			return
		}
		if err := f.sink(context.Background(), ce); err != nil {
			f.logger.Error("Failed to forward CloudEvent", "eventType", event.Type(), "error", err)
		}
	}
}

// ValidateCloudEvent validates that a CloudEvent conforms to the
// specification.
func ValidateCloudEvent(event cloudevents.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("CloudEvent validation failed: %w", err)
	}
	return nil
}
