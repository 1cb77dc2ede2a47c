package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/smazurov/blinkid/internal/config"
	"github.com/smazurov/blinkid/internal/led"
	"github.com/spf13/cobra"
)

// Settings are the root options the subcommands depend on.
type Settings struct {
	ConfigPath string
	LEDDriver  string
	Policy     string
	Timing     config.Timing
}

// CreateValidateCmd creates the validate command.
func CreateValidateCmd(settings func() Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and print the identifier sequence",
		Long: `Loads the configuration file, validates the identifier sequence, LED line mapping ` +
			`and timing options, and prints the sequence that would be blinked.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runValidate(c.OutOrStdout(), settings())
		},
	}
}

func runValidate(out io.Writer, s Settings) error {
	hw, err := loadAndValidate(s)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "config:   %s\n", s.ConfigPath)
	fmt.Fprintf(out, "driver:   %s\n", s.LEDDriver)
	fmt.Fprintf(out, "policy:   %s\n", s.Policy)
	fmt.Fprintf(out, "sequence: %s (%d blinks per pass)\n\n", hw.Sequence, hw.Sequence.TotalBlinks())

	mapped := make(map[string]config.LEDLine, len(hw.LEDs))
	for _, l := range hw.LEDs {
		mapped[l.ID] = l
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLED\tBLINKS\tSYSFS\tGPIO\tACTIVE_LOW")
	for i, e := range hw.Sequence {
		l := mapped[string(e.LED)]
		gpio := "-"
		if l.GPIO != nil {
			gpio = fmt.Sprint(*l.GPIO)
		}
		sysfs := l.Sysfs
		if sysfs == "" {
			sysfs = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%t\n", i, e.LED, e.Blinks, sysfs, gpio, l.ActiveLow)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, "\nconfiguration OK")
	return nil
}

func loadAndValidate(s Settings) (config.Hardware, error) {
	if _, ok := led.ParsePolicy(s.Policy); !ok {
		return config.Hardware{}, fmt.Errorf("invalid deactivation policy %q", s.Policy)
	}
	hw, err := config.LoadHardware(s.ConfigPath)
	if err != nil {
		return config.Hardware{}, err
	}
	if err := hw.Validate(s.LEDDriver); err != nil {
		return config.Hardware{}, err
	}
	if err := s.Timing.Validate(); err != nil {
		return config.Hardware{}, err
	}
	return hw, nil
}
