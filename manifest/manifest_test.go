package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/haxic-lang/haxic-std/lib/runtime"
)

func TestLoadManifest(t *testing.T) {
	// Create a temporary directory with a haxic.toml
	dir := t.TempDir()
	tomlContent := `
[project]
name = "test-app"
version = "0.1.0"

[runtime]
display = "ansi"
clear-command = ["tput", "clear"]
debug = true
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Project.Name != "test-app" {
		t.Errorf("project name = %q, want test-app", m.Project.Name)
	}
	if m.Project.Version != "0.1.0" {
		t.Errorf("project version = %q, want 0.1.0", m.Project.Version)
	}
	if m.Runtime.Display != runtime.DisplayANSI {
		t.Errorf("runtime display = %q, want ansi", m.Runtime.Display)
	}
	if len(m.Runtime.ClearCommand) != 2 || m.Runtime.ClearCommand[0] != "tput" {
		t.Errorf("clear command = %v, want [tput clear]", m.Runtime.ClearCommand)
	}
	if !m.Runtime.Debug {
		t.Error("runtime debug should be true")
	}

	absDir, _ := filepath.Abs(dir)
	if m.Dir != absDir {
		t.Errorf("dir = %q, want %q", m.Dir, absDir)
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	tomlContent := `
[project]
name = "minimal"
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(tomlContent), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if m.Runtime.Display != runtime.DisplayCommand {
		t.Errorf("default display = %q, want command", m.Runtime.Display)
	}
	if m.Runtime.ClearCommand != nil {
		t.Errorf("default clear command = %v, want nil", m.Runtime.ClearCommand)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for missing haxic.toml")
	}

	bad := t.TempDir()
	os.WriteFile(filepath.Join(bad, FileName), []byte("[runtime\n"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	unknown := t.TempDir()
	os.WriteFile(filepath.Join(unknown, FileName), []byte("[runtime]\ndisplay = \"hologram\"\n"), 0644)
	if _, err := Load(unknown); err == nil {
		t.Error("expected error for unknown display mode")
	}
}

func TestFindAndLoad(t *testing.T) {
	// Create nested directory structure
	root := t.TempDir()
	sub := filepath.Join(root, "src", "deep")
	os.MkdirAll(sub, 0755)

	tomlContent := `
[project]
name = "found"
`
	os.WriteFile(filepath.Join(root, FileName), []byte(tomlContent), 0644)

	// Should find manifest from subdirectory
	m, err := FindAndLoad(sub)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if m == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if m.Project.Name != "found" {
		t.Errorf("name = %q, want found", m.Project.Name)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	m, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if m != nil {
		t.Error("expected nil manifest when no haxic.toml exists")
	}
}

func TestRuntimeConfig(t *testing.T) {
	t.Setenv("HAXIC_DISPLAY", "")
	t.Setenv("HAXIC_CLEAR_COMMAND", "")
	t.Setenv("HAXIC_DEBUG", "")

	m := &Manifest{Runtime: RuntimeSection{
		Display:      runtime.DisplayNone,
		ClearCommand: []string{"printf", "\\033c"},
		Debug:        true,
	}}

	cfg := m.RuntimeConfig()
	if cfg.Display != runtime.DisplayNone {
		t.Errorf("display = %q, want none", cfg.Display)
	}
	if len(cfg.ClearCommand) != 2 || cfg.ClearCommand[0] != "printf" {
		t.Errorf("clear command = %v", cfg.ClearCommand)
	}
	if !cfg.Debug {
		t.Error("debug should carry over from the manifest")
	}

	// The config must be usable as is
	if _, err := runtime.New(cfg); err != nil {
		t.Errorf("runtime.New: %v", err)
	}

	// Environment command is kept when the manifest sets none
	t.Setenv("HAXIC_CLEAR_COMMAND", "tput clear")
	cfg = (&Manifest{Runtime: RuntimeSection{Display: runtime.DisplayCommand}}).RuntimeConfig()
	if len(cfg.ClearCommand) != 2 || cfg.ClearCommand[0] != "tput" {
		t.Errorf("clear command = %v, want env override", cfg.ClearCommand)
	}
}
