package button

import (
	"bufio"
	"context"
	"io"

	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/logging"
)

// Stdin treats every line read from r as one press.
type Stdin struct {
	r      io.Reader
	h      *handoff
	logger logging.Logger
	cancel context.CancelFunc
}

// NewStdin creates a line-driven source.
func NewStdin(r io.Reader, bus *events.Bus, logger logging.Logger) *Stdin {
	return &Stdin{r: r, h: newHandoff("stdin", bus, logger), logger: logger}
}

// Start begins reading. The reader goroutine exits at EOF; a blocked read
// outlives Stop.
func (s *Stdin) Start(ctx context.Context, onPress func()) error {
	ctx, s.cancel = context.WithCancel(ctx)
	s.h.run(ctx, onPress)

	go func() {
		sc := bufio.NewScanner(s.r)
		for sc.Scan() {
			if ctx.Err() != nil {
				return
			}
			s.h.offer()
		}
		if err := sc.Err(); err != nil {
			s.logger.Warn("Stdin button source failed", "error", err)
			return
		}
		s.logger.Debug("Stdin button source reached EOF")
	}()

	s.logger.Info("Reading button presses from stdin, one per line")
	return nil
}

// Stop ends delivery.
func (s *Stdin) Stop() {
	if s.cancel != nil {
		s.cancel()
		s.h.wait()
	}
}
