package led

import (
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/smazurov/blinkid/internal/logging"
	"github.com/smazurov/blinkid/internal/metrics"
)

// line is one writable sysfs attribute with precomputed on/off payloads.
type line struct {
	id      ID
	f       *os.File
	on, off []byte
	failed  atomic.Bool // first failure already logged
}

func openLine(id ID, path string, on, off []byte) (*line, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open LED %q at %s: %w", id, path, err)
	}
	return &line{id: id, f: f, on: on, off: off}, nil
}

func (l *line) write(level Level, logger logging.Logger) {
	payload := l.off
	if level {
		payload = l.on
	}
	if _, err := l.f.WriteAt(payload, 0); err != nil {
		metrics.IncLEDWriteError(string(l.id))
		if l.failed.CompareAndSwap(false, true) {
			logger.Warn("LED write failed", "led", l.id, "error", err)
		}
	}
}

// lineSet is the shared body of the sysfs drivers.
type lineSet struct {
	mu     sync.Mutex // guards Close against concurrent AllOff
	lines  map[ID]*line
	logger logging.Logger
}

func (s *lineSet) Set(id ID, level Level) {
	if l, ok := s.lines[id]; ok {
		l.write(level, s.logger)
	}
}

func (s *lineSet) AllOff() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		l.write(Off, s.logger)
	}
}

func (s *lineSet) Available() []ID {
	ids := make([]ID, 0, len(s.lines))
	for id := range s.lines {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *lineSet) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, l := range s.lines {
		l.write(Off, s.logger)
		if err := l.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
