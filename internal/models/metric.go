package models

import "fmt"

// EventType names a kind of telemetry event.
type EventType string

const (
	EventButtonClick EventType = "BUTTON_CLICK"
	EventLogout      EventType = "LOGOUT"
)

// ParseEventType validates s against the known event types.
func ParseEventType(s string) (EventType, error) {
	switch e := EventType(s); e {
	case EventButtonClick, EventLogout:
		return e, nil
	default:
		return "", fmt.Errorf("unknown event type %q", s)
	}
}

// Metadata describes where an event originated.
type Metadata struct {
	TriggerID string `json:"triggerId"`
	Screen    string `json:"screen"`
}

// MetricEvent is the body posted to /api/save-metric.
type MetricEvent struct {
	Event         EventType `json:"event"`
	EventMetadata Metadata  `json:"eventMetadata"`
	UserID        *int64    `json:"userId,omitempty"`
}
