// hxrt - calls Haxic runtime built-ins from the command line
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/haxic-lang/haxic-std/lib/runtime"
	"github.com/haxic-lang/haxic-std/manifest"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hxrt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Int("v", 0, "Log verbosity (1 = info, 2 = debug)")
	dir := fs.String("C", ".", "Directory to search for haxic.toml")
	list := fs.Bool("list", false, "List the runtime globals")
	asJSON := fs.Bool("json", false, "Print the result as JSON")
	asCBOR := fs.Bool("cbor", false, "Print the result as hex-encoded CBOR")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hxrt [options] <global> [args...]\n\n")
		fmt.Fprintf(stderr, "Calls a runtime global with JSON arguments and prints the result.\n")
		fmt.Fprintf(stderr, "An argument naming a global (e.g. math.sqrt) is passed as that value.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  hxrt length '\"hello\"'        # 5\n")
		fmt.Fprintf(stderr, "  hxrt math.pow 2 10            # 1024\n")
		fmt.Fprintf(stderr, "  hxrt map '[1,4,9]' math.sqrt  # [1, 2, 3]\n")
		fmt.Fprintf(stderr, "  hxrt -list                    # Show globals\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*dir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	cfg.Stdout = stdout

	verbosity := *verbose
	if cfg.Debug && verbosity < 2 {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	rt, err := runtime.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	globals := rt.Globals()

	if *list {
		globals.Range(func(name string, v runtime.Value) bool {
			fmt.Fprintf(stdout, "%-10s %s\n", name, v.AsString())
			return true
		})
		return 0
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	result, err := call(globals, fs.Arg(0), fs.Args()[1:])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case *asCBOR:
		data, err := runtime.MarshalValue(result)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, hex.EncodeToString(data))
	case *asJSON:
		s, err := result.ToJSON()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, s)
	default:
		fmt.Fprintln(stdout, result.AsString())
	}
	return 0
}

// loadConfig uses the nearest haxic.toml, falling back to the environment
func loadConfig(dir string) (*runtime.Config, error) {
	m, err := manifest.FindAndLoad(dir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return runtime.DefaultConfig(), nil
	}
	return m.RuntimeConfig(), nil
}

// call resolves name in globals and applies it to the decoded arguments.
// A non-function global is returned as is when no arguments are given.
func call(globals *runtime.Map, name string, rawArgs []string) (runtime.Value, error) {
	target, ok := lookup(globals, name)
	if !ok {
		return runtime.Null(), fmt.Errorf("unknown global %q", name)
	}

	fn := target.Function()
	if fn == nil {
		if len(rawArgs) > 0 {
			return runtime.Null(), fmt.Errorf("%s is a %s, not a function", name, target.Tag())
		}
		return target, nil
	}

	args := make([]runtime.Value, len(rawArgs))
	for i, raw := range rawArgs {
		if v, ok := lookup(globals, raw); ok {
			args[i] = v
			continue
		}
		v, err := runtime.ValueFromJSON(raw)
		if err != nil {
			return runtime.Null(), fmt.Errorf("argument %d: %w", i+1, err)
		}
		args[i] = v
	}
	return fn.Call(args...)
}

// lookup resolves a dotted path such as math.sqrt
func lookup(globals *runtime.Map, path string) (runtime.Value, bool) {
	cur := runtime.MapValue(globals)
	for _, part := range strings.Split(path, ".") {
		m := cur.Map()
		if m == nil {
			return runtime.Null(), false
		}
		v, ok := m.Get(part)
		if !ok {
			return runtime.Null(), false
		}
		cur = v
	}
	return cur, true
}
