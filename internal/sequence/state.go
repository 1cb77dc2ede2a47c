package sequence

// State is what the controller is doing.
type State string

// Controller states.
const (
	StateIdle     State = "idle"     // inactive, LEDs off
	StateBlinking State = "blinking" // rendering a fade
	StatePausing  State = "pausing"  // between two LEDs
)

// Status is a point-in-time snapshot of the controller.
type Status struct {
	State  State
	Cursor Cursor
	Passes uint64
}
