package sequence

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smazurov/blinkid/internal/clock"
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/fade"
	"github.com/smazurov/blinkid/internal/led"
	"github.com/smazurov/blinkid/internal/logging"
)

// Default timings.
const (
	DefaultPause    = time.Second
	DefaultIdlePoll = 10 * time.Millisecond
)

// Activation is the read side of the activation flag.
type Activation interface {
	Active() bool
}

// Renderer renders one blink. *fade.Renderer implements it.
type Renderer interface {
	Render(id led.ID, tok fade.Token) fade.Result
}

// Options tunes the controller.
type Options struct {
	Pause    time.Duration // between LEDs
	IdlePoll time.Duration // poll interval while inactive
}

// Controller runs the identifier sequence on the main loop. Only the
// goroutine calling Step or Run mutates the cursor; Status may be called
// from anywhere.
type Controller struct {
	seq      Sequence
	flag     Activation
	renderer Renderer
	out      led.Driver
	src      clock.Source
	opts     Options
	bus      *events.Bus
	logger   logging.Logger

	mu     sync.Mutex
	cursor Cursor
	state  State
	passes uint64
	dark   bool // LEDs known off since going idle

	heartbeat atomic.Uint64
}

// NewController creates a controller starting at {0,0}.
func NewController(seq Sequence, flag Activation, renderer Renderer, out led.Driver, src clock.Source, opts Options, bus *events.Bus, logger logging.Logger) (*Controller, error) {
	if err := seq.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sequence: %w", err)
	}
	if opts.Pause < 0 {
		opts.Pause = 0
	}
	if opts.IdlePoll <= 0 {
		opts.IdlePoll = DefaultIdlePoll
	}
	return &Controller{
		seq:      seq,
		flag:     flag,
		renderer: renderer,
		out:      out,
		src:      src,
		opts:     opts,
		bus:      bus,
		logger:   logger,
		state:    StateIdle,
	}, nil
}

// Run calls Step until ctx is done, then turns all LEDs off.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("Sequence controller started", "sequence", c.seq.String())
	defer func() {
		c.out.AllOff()
		c.setState(StateIdle)
		c.logger.Info("Sequence controller stopped", "cursor", c.Cursor())
	}()
	for {
		if err := c.Step(ctx); err != nil {
			return nil
		}
	}
}

// Step runs one main-loop pass. While inactive it makes sure the LEDs are
// off and waits one idle poll. While active it renders from the cursor until
// the pass completes, the flag drops, or ctx is done. Every LED whose blinks
// all completed is followed by the inter-LED pause, the last one included,
// so consecutive passes are separated like consecutive LEDs. It returns
// ctx.Err() once ctx is done.
func (c *Controller) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.flag.Active() {
		c.idle(ctx)
		return ctx.Err()
	}

	c.mu.Lock()
	c.dark = false
	cur := c.cursor
	c.mu.Unlock()

	cancel := fade.Any(activationToken(c.flag), fade.TokenFunc(func() bool { return ctx.Err() != nil }))
	tok := fade.TokenFunc(func() bool {
		c.heartbeat.Add(1)
		return cancel.Cancelled()
	})

	for {
		entry := c.seq[cur.LEDIndex]
		for cur.BlinkIndex < int(entry.Blinks) {
			c.set(cur, StateBlinking)
			res := c.renderer.Render(entry.LED, tok)

			if ctx.Err() != nil {
				return ctx.Err()
			}
			if res.Cancelled || !c.flag.Active() {
				c.interrupt(entry.LED, cur, res)
				return nil
			}

			c.bus.Publish(events.BlinkCompletedEvent{
				LED:        string(entry.LED),
				LEDIndex:   cur.LEDIndex,
				BlinkIndex: cur.BlinkIndex,
			})
			cur.BlinkIndex++
		}

		last := cur.LEDIndex == len(c.seq)-1
		cur = Cursor{LEDIndex: cur.LEDIndex + 1}
		if last {
			c.complete()
			cur = Cursor{}
		}

		c.set(cur, StatePausing)
		if !clock.Hold(c.src, c.opts.Pause, tok.Cancelled) {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.setState(StateIdle)
			c.logger.Debug("Deactivated during pause", "cursor", cur)
			c.bus.Publish(events.CursorPersistedEvent{LEDIndex: cur.LEDIndex, BlinkIndex: cur.BlinkIndex})
			return nil
		}
		if last {
			return nil
		}
	}
}

// activationToken lets the render stop as soon as the flag drops. A flag
// that is already a fade.Token, like gesture.Flag, is used directly.
func activationToken(a Activation) fade.Token {
	if tok, ok := a.(fade.Token); ok {
		return tok
	}
	return fade.TokenFunc(func() bool { return !a.Active() })
}

// interrupt persists the cursor after a deactivated render. A blink that
// got at least one step counts as shown, so the next activation resumes
// after it; one that never started is kept. If that blink was the last of
// the sequence the pass is counted.
func (c *Controller) interrupt(id led.ID, cur Cursor, res fade.Result) {
	next := cur
	if !res.Cancelled || res.Steps > 0 {
		var wrapped bool
		if next, wrapped = Advance(c.seq, cur); wrapped {
			c.complete()
		}
	}
	c.set(next, StateIdle)

	if res.Cancelled {
		c.bus.Publish(events.FadeCancelledEvent{LED: string(id), Step: res.CancelledAt})
	}
	c.bus.Publish(events.CursorPersistedEvent{LEDIndex: next.LEDIndex, BlinkIndex: next.BlinkIndex})
	c.logger.Debug("Sequence interrupted", "led", id, "step", res.Steps, "resume_at", next)
}

func (c *Controller) complete() {
	c.mu.Lock()
	c.cursor = Cursor{}
	c.passes++
	passes := c.passes
	c.mu.Unlock()

	c.bus.Publish(events.SequenceCompletedEvent{Passes: passes})
	c.logger.Debug("Sequence pass completed", "passes", passes)
}

func (c *Controller) idle(ctx context.Context) {
	c.mu.Lock()
	c.state = StateIdle
	dark := c.dark
	c.dark = true
	c.mu.Unlock()

	if !dark {
		c.out.AllOff()
	}
	clock.Hold(c.src, c.opts.IdlePoll, func() bool {
		c.heartbeat.Add(1)
		return c.flag.Active() || ctx.Err() != nil
	})
}

func (c *Controller) set(cur Cursor, state State) {
	c.mu.Lock()
	c.cursor = cur
	c.state = state
	c.mu.Unlock()
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// Heartbeat counts cancellation checks made by the main loop: one per fade
// step, per pause slice and per idle poll. It stops moving only when the
// loop is stuck.
func (c *Controller) Heartbeat() uint64 {
	return c.heartbeat.Load()
}

// Cursor returns the current position.
func (c *Controller) Cursor() Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// State returns what the controller is doing.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns a consistent snapshot of state, cursor and pass count.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, Cursor: c.cursor, Passes: c.passes}
}

// Sequence returns the sequence being displayed.
func (c *Controller) Sequence() Sequence {
	return c.seq
}
