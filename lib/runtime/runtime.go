package runtime

import (
	"fmt"
	"io"
	"os"
	goruntime "runtime"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("haxic.runtime")

// Runtime carries the collaborators behind the side-effecting built-ins:
// the time source for clock() and the display for clear().
type Runtime struct {
	Display Display

	epoch time.Time
	now   func() time.Time
}

// Config holds runtime configuration
type Config struct {
	Display      string    // command, ansi or none (defaults to command)
	ClearCommand []string  // Overrides the platform clear command
	Stdout       io.Writer // Terminal output (defaults to os.Stdout)

	// Debug raises the commonlog level of the "haxic" loggers to debug.
	// commonlog discards all messages until a backend is registered, so this
	// only has an effect when the host program imports one, such as
	// github.com/tliron/commonlog/simple (cmd/hxrt does).
	Debug bool
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	display := os.Getenv("HAXIC_DISPLAY")
	if display == "" {
		display = DisplayCommand
	}

	var clearCmd []string
	if c := os.Getenv("HAXIC_CLEAR_COMMAND"); c != "" {
		clearCmd = strings.Fields(c)
	}

	return &Config{
		Display:      display,
		ClearCommand: clearCmd,
		Stdout:       os.Stdout,
		Debug:        os.Getenv("HAXIC_DEBUG") != "",
	}
}

// New creates a new runtime with the given configuration
func New(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	var display Display
	switch cfg.Display {
	case "", DisplayCommand:
		d := NewCommandDisplay(goruntime.GOOS, cfg.ClearCommand)
		d.Stdout = stdout
		display = d
	case DisplayANSI:
		display = &ANSIDisplay{W: stdout}
	case DisplayNone:
		display = NopDisplay{}
	default:
		return nil, fmt.Errorf("unknown display mode %q (want %s, %s or %s)",
			cfg.Display, DisplayCommand, DisplayANSI, DisplayNone)
	}

	if cfg.Debug {
		commonlog.SetMaxLevel(commonlog.Debug, "haxic")
	}

	r := NewWithDisplay(display)
	log.Debugf("runtime created (display=%s, os=%s)", cfg.Display, goruntime.GOOS)
	return r, nil
}

// NewWithDisplay creates a runtime using the given display
func NewWithDisplay(d Display) *Runtime {
	if d == nil {
		d = NopDisplay{}
	}
	return &Runtime{
		Display: d,
		epoch:   time.Now(),
		now:     time.Now,
	}
}

// SetTimeSource replaces the clock source and resets the epoch to its
// current reading.
func (r *Runtime) SetTimeSource(now func() time.Time) {
	r.now = now
	r.epoch = now()
}

// Clock returns the seconds elapsed since the runtime was created, read
// from the monotonic clock.
func (r *Runtime) Clock() Value {
	elapsed := r.now().Sub(r.epoch)
	if elapsed < 0 {
		elapsed = 0
	}
	return NumberValue(float64(elapsed.Nanoseconds()) / 1e9)
}

// Clear asks the display to clear the terminal. Failures are logged and
// otherwise ignored.
func (r *Runtime) Clear() Value {
	if err := r.Display.Clear(); err != nil {
		log.Debugf("clear failed: %v", err)
	}
	return Null()
}

// Globals returns the names the runtime exports to compiled programs
func (r *Runtime) Globals() *Map {
	g := NewMap()
	g.Set("clock", FunctionValue(NewFunction("clock", 0, func(args []Value) (Value, error) {
		return r.Clock(), nil
	})))
	g.Set("length", FunctionValue(NewFunction("length", 1, func(args []Value) (Value, error) {
		return Length(args[0])
	})))
	g.Set("typeof", FunctionValue(NewFunction("typeof", 1, func(args []Value) (Value, error) {
		return TypeOf(args[0]), nil
	})))
	g.Set("clear", FunctionValue(NewFunction("clear", 0, func(args []Value) (Value, error) {
		return r.Clear(), nil
	})))
	g.Set("map", FunctionValue(NewFunction("map", 2, func(args []Value) (Value, error) {
		return MapArray(args[0], args[1])
	})))
	g.Set("toString", FunctionValue(NewFunction("toString", 1, func(args []Value) (Value, error) {
		return ToString(args[0]), nil
	})))
	g.Set("math", Math())
	return g
}

// ============================================================================
// Global runtime instance (for generated code)
// ============================================================================

var (
	globalRuntime *Runtime
	globalMu      sync.Mutex
)

// GlobalRuntime returns the global runtime, creating it from DefaultConfig
// on first use. An invalid default configuration falls back to a runtime
// that never clears.
func GlobalRuntime() *Runtime {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalRuntime == nil {
		r, err := New(DefaultConfig())
		if err != nil {
			log.Warningf("default runtime: %v", err)
			r = NewWithDisplay(NopDisplay{})
		}
		globalRuntime = r
	}
	return globalRuntime
}

// InitGlobal initializes the global runtime
func InitGlobal(cfg *Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalRuntime != nil {
		return nil // Already initialized
	}

	r, err := New(cfg)
	if err != nil {
		return err
	}

	globalRuntime = r
	return nil
}

// ResetGlobal discards the global runtime
func ResetGlobal() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalRuntime = nil
}

// Clock returns the global runtime's clock reading
func Clock() Value {
	return GlobalRuntime().Clock()
}

// Clear clears the terminal through the global runtime
func Clear() Value {
	return GlobalRuntime().Clear()
}
