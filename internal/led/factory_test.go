package led

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// makeLEDClass creates a fake /sys/class/leds/<name> tree.
func makeLEDClass(t *testing.T, root, name, maxBrightness string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for file, content := range map[string]string{
		"trigger":        "none",
		"brightness":     "0",
		"max_brightness": maxBrightness,
	} {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// makeGPIO creates an already exported fake gpioN directory.
func makeGPIO(t *testing.T, root string, n string) string {
	t.Helper()
	dir := filepath.Join(root, "gpio"+n)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for file, content := range map[string]string{"direction": "in", "value": "0"} {
		if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func lineNum(n int) *int { return &n }

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestNewNoop(t *testing.T) {
	d, err := New(Config{
		Driver: DriverNoop,
		Lines:  []Line{{LED: "red"}, {LED: "blue"}},
	}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	if got := d.Available(); !slices.Equal(got, []ID{"blue", "red"}) {
		t.Errorf("Available() = %v, want [blue red]", got)
	}

	// Must not panic
	d.Set("red", On)
	d.Set("missing", On)
	d.AllOff()
}

func TestNewUnknownDriver(t *testing.T) {
	if _, err := New(Config{Driver: "pwmchip"}, testLogger()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNewAutoFallsBackToNoop(t *testing.T) {
	root := t.TempDir()
	d, err := New(Config{
		Driver:    DriverAuto,
		Lines:     []Line{{LED: "red", Name: "missing_led"}},
		LEDRoot:   root,
		GPIORoot:  root,
		ModelPath: filepath.Join(root, "model"),
	}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := d.(*noop); !ok {
		t.Errorf("auto driver = %T, want *noop", d)
	}
}

func TestNewAutoPrefersSysfs(t *testing.T) {
	root := t.TempDir()
	makeLEDClass(t, root, "red_led", "1")

	d, err := New(Config{
		Driver:    DriverAuto,
		Lines:     []Line{{LED: "red", Name: "red_led", GPIO: lineNum(17)}},
		LEDRoot:   root,
		ModelPath: filepath.Join(root, "model"),
	}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()
	if _, ok := d.(*sysfs); !ok {
		t.Errorf("auto driver = %T, want *sysfs", d)
	}
}

func TestNewExplicitSysfsMissingLED(t *testing.T) {
	_, err := New(Config{
		Driver:  DriverSysfs,
		Lines:   []Line{{LED: "red", Name: "red_led"}},
		LEDRoot: t.TempDir(),
	}, testLogger())
	if err == nil {
		t.Fatal("expected error for missing LED class device")
	}
}

func TestDetectBoard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model")
	if err := os.WriteFile(path, []byte("Raspberry Pi 4 Model B\x00"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := detectBoard(path); got != "Raspberry Pi 4 Model B" {
		t.Errorf("detectBoard() = %q", got)
	}
	if got := detectBoard(filepath.Join(dir, "absent")); got != "unknown" {
		t.Errorf("detectBoard(missing) = %q, want unknown", got)
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
		ok   bool
	}{
		{"hard_off", PolicyHardOff, true},
		{"", PolicyHardOff, true},
		{"Natural", PolicyNatural, true},
		{" natural ", PolicyNatural, true},
		{"fade_out", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePolicy(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParsePolicy(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNewGPIOLineZero(t *testing.T) {
	root := t.TempDir()
	dir := makeGPIO(t, root, "0")

	d, err := New(Config{
		Driver:   DriverGPIO,
		Lines:    []Line{{LED: "red", GPIO: lineNum(0)}},
		GPIORoot: root,
	}, testLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	d.Set("red", On)
	if got := readFile(t, filepath.Join(dir, "value")); got != "1" {
		t.Errorf("gpio0 On wrote %q, want 1", got)
	}
}

func TestGPIOLinesSkipsUnmapped(t *testing.T) {
	got := gpioLines([]Line{{LED: "red", GPIO: lineNum(0)}, {LED: "green", Name: "green_led"}})
	if len(got) != 1 || got["red"] != (GPIOLine{Number: 0}) {
		t.Errorf("gpioLines() = %v, want only red on line 0", got)
	}
}
