// Package manifest handles haxic.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/haxic-lang/haxic-std/lib/runtime"
)

// FileName is the name of the project configuration file.
const FileName = "haxic.toml"

// Manifest represents a haxic.toml project configuration.
type Manifest struct {
	Project Project        `toml:"project"`
	Runtime RuntimeSection `toml:"runtime"`

	// Dir is the directory containing the haxic.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// RuntimeSection configures the runtime support library.
type RuntimeSection struct {
	Display      string   `toml:"display"`
	ClearCommand []string `toml:"clear-command"`
	Debug        bool     `toml:"debug"`
}

// Load parses a haxic.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Runtime.Display == "" {
		m.Runtime.Display = runtime.DisplayCommand
	}
	switch m.Runtime.Display {
	case runtime.DisplayCommand, runtime.DisplayANSI, runtime.DisplayNone:
	default:
		return nil, fmt.Errorf("%s: unknown runtime.display %q", path, m.Runtime.Display)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a haxic.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// RuntimeConfig returns a runtime configuration built from the manifest,
// starting from the environment defaults.
func (m *Manifest) RuntimeConfig() *runtime.Config {
	cfg := runtime.DefaultConfig()
	cfg.Display = m.Runtime.Display
	if len(m.Runtime.ClearCommand) > 0 {
		cfg.ClearCommand = append([]string(nil), m.Runtime.ClearCommand...)
	}
	cfg.Debug = cfg.Debug || m.Runtime.Debug
	return cfg
}
