package runtime

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// Display modes accepted in Config.Display
const (
	DisplayCommand = "command"
	DisplayANSI    = "ansi"
	DisplayNone    = "none"
)

// ErrNotTerminal is returned by ANSIDisplay when its writer is not a terminal
var ErrNotTerminal = errors.New("output is not a terminal")

// Display clears the attached terminal
type Display interface {
	Clear() error
}

// ClearCommand returns the native clear-screen command for goos
func ClearCommand(goos string) []string {
	if goos == "windows" {
		return []string{"cmd", "/c", "cls"}
	}
	return []string{"clear"}
}

// CommandDisplay clears the screen by running an external command with its
// output attached to Stdout.
type CommandDisplay struct {
	Command []string
	Stdout  io.Writer
	Stderr  io.Writer

	// Run executes the prepared command. Defaults to (*exec.Cmd).Run.
	Run func(cmd *exec.Cmd) error
}

// NewCommandDisplay creates a display running the clear command for goos.
// A non-empty override replaces the platform command.
func NewCommandDisplay(goos string, override []string) *CommandDisplay {
	command := ClearCommand(goos)
	if len(override) > 0 {
		command = append([]string(nil), override...)
	}
	return &CommandDisplay{
		Command: command,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

func (d *CommandDisplay) Clear() error {
	if len(d.Command) == 0 {
		return fmt.Errorf("clear: no command configured")
	}
	cmd := exec.Command(d.Command[0], d.Command[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	run := d.Run
	if run == nil {
		run = (*exec.Cmd).Run
	}
	if err := run(cmd); err != nil {
		return fmt.Errorf("clear: %s: %w", strings.Join(d.Command, " "), err)
	}
	return nil
}

// ANSIDisplay clears the screen by writing escape sequences
type ANSIDisplay struct {
	W io.Writer
}

const ansiClear = "\x1b[H\x1b[2J"

func (d *ANSIDisplay) Clear() error {
	if f, ok := d.W.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return ErrNotTerminal
	}
	_, err := io.WriteString(d.W, ansiClear)
	return err
}

// NopDisplay ignores clear requests
type NopDisplay struct{}

func (NopDisplay) Clear() error { return nil }
