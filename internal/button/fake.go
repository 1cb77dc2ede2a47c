package button

import (
	"context"
	"sync"
)

// Fake delivers presses on demand, synchronously.
type Fake struct {
	mu      sync.Mutex
	onPress func()
}

// Start records the callback.
func (f *Fake) Start(_ context.Context, onPress func()) error {
	f.mu.Lock()
	f.onPress = onPress
	f.mu.Unlock()
	return nil
}

// Stop forgets the callback.
func (f *Fake) Stop() {
	f.mu.Lock()
	f.onPress = nil
	f.mu.Unlock()
}

// Press invokes the callback once. It is a no-op before Start.
func (f *Fake) Press() {
	f.mu.Lock()
	fn := f.onPress
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}
