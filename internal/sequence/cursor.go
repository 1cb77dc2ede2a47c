package sequence

// Cursor is the position of the next blink to render.
type Cursor struct {
	LEDIndex   int `json:"led_index"`
	BlinkIndex int `json:"blink_index"`
}

// Advance returns the position after c. Past the last blink of an LED it
// moves to the next LED's first blink; past the last LED it wraps to {0,0}
// and reports wrapped. seq must be valid and c must satisfy Valid.
func Advance(seq Sequence, c Cursor) (next Cursor, wrapped bool) {
	next = Cursor{LEDIndex: c.LEDIndex, BlinkIndex: c.BlinkIndex + 1}
	if next.BlinkIndex < int(seq[c.LEDIndex].Blinks) {
		return next, false
	}
	next = Cursor{LEDIndex: c.LEDIndex + 1}
	if next.LEDIndex < len(seq) {
		return next, false
	}
	return Cursor{}, true
}

// Valid reports whether c is a legal position in seq.
func Valid(seq Sequence, c Cursor) bool {
	return c.LEDIndex >= 0 && c.LEDIndex < len(seq) &&
		c.BlinkIndex >= 0 && c.BlinkIndex <= int(seq[c.LEDIndex].Blinks)
}
