// Package editor opens a manifest for the user to edit. Opening is best
// effort: callers log a failure and carry on, because the manifest is
// already on disk and can be opened by hand.
package editor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Opener opens a file for editing.
type Opener interface {
	Open(path string) error
}

// Nop is an Opener that does nothing.
type Nop struct{}

// Open implements Opener.
func (Nop) Open(string) error { return nil }

// ErrNoEditor is returned when no editor command can be determined.
var ErrNoEditor = errors.New("no editor configured: set VISUAL, EDITOR, or the 'editor' config key")

// Command opens files by running an editor command attached to the
// current terminal and waiting for it to exit.
type Command struct {
	argv []string
	run  func(*exec.Cmd) error
}

// New returns a Command for the editor named by configured, falling back to
// $VISUAL, $EDITOR, and then the platform's default opener. configured may
// carry arguments, e.g. "code --wait".
func New(configured string) *Command {
	return &Command{
		argv: strings.Fields(Resolve(configured)),
		run:  (*exec.Cmd).Run,
	}
}

// Resolve returns the editor command line that New would use.
func Resolve(configured string) string {
	for _, candidate := range []string{configured, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return defaultOpener()
}

func defaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "notepad"
	default:
		return "xdg-open"
	}
}

// Open runs the editor on path.
func (c *Command) Open(path string) error {
	if len(c.argv) == 0 {
		return ErrNoEditor
	}

	args := append(append([]string{}, c.argv[1:]...), path)
	cmd := exec.Command(c.argv[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := c.run(cmd); err != nil {
		return fmt.Errorf("opening %s with %s: %w", path, c.argv[0], err)
	}
	return nil
}
