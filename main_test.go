package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smazurov/blinkid/internal/systemd"
)

func TestServeReturnsStartupErrors(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	missing := filepath.Join(t.TempDir(), "blinkid.toml")

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "bad policy",
			opts: Options{Config: missing, PolicyDeactivate: "dim", LEDDriver: "noop"},
			want: "invalid deactivation policy",
		},
		{
			// Fails after the LED driver is open, so its Close is deferred
			name: "bad button source",
			opts: Options{Config: missing, PolicyDeactivate: "hard_off", LEDDriver: "noop", ButtonSource: "serial"},
			want: "invalid button config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := serve(t.Context(), &tt.opts, nil, systemd.NewNotifier(logger), logger)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("serve() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}
