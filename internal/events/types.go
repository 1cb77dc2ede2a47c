package events

// Event type constants for kelindar/event.
const (
	TypeButtonPressed uint32 = iota + 1
	TypeButtonDropped
	TypeActivationChanged
	TypeClickDiscarded
	TypeBlinkCompleted
	TypeFadeCancelled
	TypeCursorPersisted
	TypeSequenceCompleted
	TypeStatus
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// ButtonPressedEvent is published for every debounced press edge, before
// gesture classification.
type ButtonPressedEvent struct {
	Source    string `json:"source" example:"gpio" doc:"Input source that produced the press"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ButtonPressedEvent.
func (e ButtonPressedEvent) Type() uint32 { return TypeButtonPressed }

// ButtonDroppedEvent is published when a press could not be handed off
// because the consumer queue was full.
type ButtonDroppedEvent struct {
	Source string `json:"source"`
	Total  uint32 `json:"total"`
}

// Type returns the event type identifier for ButtonDroppedEvent.
func (e ButtonDroppedEvent) Type() uint32 { return TypeButtonDropped }

// ActivationChangedEvent is published once per confirmed double-click.
// Used by the LED manager to apply the deactivation policy.
type ActivationChangedEvent struct {
	Active    bool   `json:"active" example:"true" doc:"New value of the active flag"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ActivationChangedEvent.
func (e ActivationChangedEvent) Type() uint32 { return TypeActivationChanged }

// ClickDiscardedEvent is published when a first click times out without a
// second one.
type ClickDiscardedEvent struct {
	Timestamp string `json:"timestamp"`
}

// Type returns the event type identifier for ClickDiscardedEvent.
func (e ClickDiscardedEvent) Type() uint32 { return TypeClickDiscarded }

// BlinkCompletedEvent is published after a fade ran to completion.
type BlinkCompletedEvent struct {
	LED        string `json:"led" example:"yellow"`
	LEDIndex   int    `json:"led_index"`
	BlinkIndex int    `json:"blink_index"`
}

// Type returns the event type identifier for BlinkCompletedEvent.
func (e BlinkCompletedEvent) Type() uint32 { return TypeBlinkCompleted }

// FadeCancelledEvent is published when deactivation interrupted a fade.
type FadeCancelledEvent struct {
	LED  string `json:"led"`
	Step int    `json:"step" doc:"Number of PWM steps rendered before cancellation"`
}

// Type returns the event type identifier for FadeCancelledEvent.
func (e FadeCancelledEvent) Type() uint32 { return TypeFadeCancelled }

// CursorPersistedEvent carries the cursor stored when the controller stops
// iterating, so the next activation resumes from it.
type CursorPersistedEvent struct {
	LEDIndex   int `json:"led_index"`
	BlinkIndex int `json:"blink_index"`
}

// Type returns the event type identifier for CursorPersistedEvent.
func (e CursorPersistedEvent) Type() uint32 { return TypeCursorPersisted }

// SequenceCompletedEvent is published when the final blink of the final LED
// completed while active and the cursor wrapped to the start.
type SequenceCompletedEvent struct {
	Passes uint64 `json:"passes" doc:"Completed passes since start"`
}

// Type returns the event type identifier for SequenceCompletedEvent.
func (e SequenceCompletedEvent) Type() uint32 { return TypeSequenceCompleted }

// StatusEvent is a periodic snapshot of the controller for SSE clients.
type StatusEvent struct {
	State      string `json:"state" example:"blinking" doc:"Controller state"`
	Active     bool   `json:"active" doc:"Whether the identifier sequence is running"`
	LEDIndex   int    `json:"led_index"`
	BlinkIndex int    `json:"blink_index"`
	Passes     uint64 `json:"passes"`
	Timestamp  string `json:"timestamp"`
}

// Type returns the event type identifier for StatusEvent.
func (e StatusEvent) Type() uint32 { return TypeStatus }
