package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/smazurov/blinkid/internal/app"
	"github.com/smazurov/blinkid/internal/button"
	"github.com/smazurov/blinkid/internal/events"
	"github.com/smazurov/blinkid/internal/led"
	"github.com/smazurov/blinkid/internal/logging"
	"github.com/spf13/cobra"
)

// CreateSimulateCmd creates the simulate command.
func CreateSimulateCmd(settings func() Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Run the blink controller without hardware",
		Long: `Runs the full controller against an in-memory LED driver. Every line read from ` +
			`stdin is one button press; press Enter twice quickly to start or stop the sequence. ` +
			`Blink progress is printed as it happens.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSimulate(ctx, c.InOrStdin(), c.OutOrStdout(), settings())
		},
	}
}

func runSimulate(ctx context.Context, in io.Reader, out io.Writer, s Settings) error {
	hw, err := loadAndValidate(s)
	if err != nil {
		return err
	}
	policy, _ := led.ParsePolicy(s.Policy)

	bus := events.New()
	rec := led.NewRecorder(false, hw.Sequence.LEDs()...)
	src := button.NewStdin(in, bus, logging.GetLogger("button"))

	core, err := app.New(app.Config{Sequence: hw.Sequence, Timing: s.Timing, Policy: policy}, rec, src, bus)
	if err != nil {
		return err
	}

	eventCh := make(chan any, 64)
	unsubscribers := []func(){
		events.SubscribeToChannel[events.ActivationChangedEvent](bus, eventCh),
		events.SubscribeToChannel[events.ClickDiscardedEvent](bus, eventCh),
		events.SubscribeToChannel[events.BlinkCompletedEvent](bus, eventCh),
		events.SubscribeToChannel[events.FadeCancelledEvent](bus, eventCh),
		events.SubscribeToChannel[events.CursorPersistedEvent](bus, eventCh),
		events.SubscribeToChannel[events.SequenceCompletedEvent](bus, eventCh),
	}
	defer func() {
		for _, unsub := range unsubscribers {
			unsub()
		}
	}()

	fmt.Fprintf(out, "simulating %s; press Enter twice to toggle, Ctrl-C to quit\n", hw.Sequence)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- core.Run(runCtx) }()

	interrupted := ctx.Done()
	for {
		select {
		case err := <-done:
			cancel()
			printSummary(out, rec, hw.Sequence.LEDs())
			return err
		case <-interrupted:
			interrupted = nil
			cancel()
		case ev := <-eventCh:
			printEvent(out, ev)
		}
	}
}

func printEvent(out io.Writer, ev any) {
	switch e := ev.(type) {
	case events.ActivationChangedEvent:
		if e.Active {
			fmt.Fprintln(out, "▶ activated")
		} else {
			fmt.Fprintln(out, "■ deactivated")
		}
	case events.ClickDiscardedEvent:
		fmt.Fprintln(out, "· single click ignored")
	case events.BlinkCompletedEvent:
		fmt.Fprintf(out, "  %s blink %d\n", e.LED, e.BlinkIndex+1)
	case events.FadeCancelledEvent:
		fmt.Fprintf(out, "  %s fade cancelled at step %d\n", e.LED, e.Step)
	case events.CursorPersistedEvent:
		fmt.Fprintf(out, "  resume at entry %d blink %d\n", e.LEDIndex, e.BlinkIndex)
	case events.SequenceCompletedEvent:
		fmt.Fprintf(out, "✓ pass %d complete\n", e.Passes)
	}
}

func printSummary(out io.Writer, rec *led.Recorder, ids []led.ID) {
	fmt.Fprintln(out, "LED on-transitions:")
	for _, id := range ids {
		fmt.Fprintf(out, "  %-8s %d\n", id, rec.OnTransitions(id))
	}
}
