package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// outputStyles holds the lipgloss styles used for command output. Styles
// are only applied when the writer is a terminal and NO_COLOR is unset.
type outputStyles struct {
	colorEnabled bool

	green  lipgloss.Style
	yellow lipgloss.Style
	red    lipgloss.Style
	bold   lipgloss.Style
	dim    lipgloss.Style
}

func newOutputStyles(w io.Writer) outputStyles {
	s := outputStyles{colorEnabled: shouldUseColor(w)}
	if s.colorEnabled {
		s.green = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		s.yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		s.red = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		s.bold = lipgloss.NewStyle().Bold(true)
		s.dim = lipgloss.NewStyle().Faint(true)
	}
	return s
}

func (s outputStyles) render(style lipgloss.Style, text string) string {
	if !s.colorEnabled {
		return text
	}
	return style.Render(text)
}

func (s outputStyles) ok() string   { return s.render(s.green, "[ OK ]") }
func (s outputStyles) warn() string { return s.render(s.yellow, "[WARN]") }
func (s outputStyles) fail() string { return s.render(s.red, "[FAIL]") }

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

func isTerminal(v any) bool {
	if f, ok := v.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// printer formats counts with locale-aware digit grouping.
var printer = message.NewPrinter(language.English)

// plural returns "1 file", "2 files", "1,204 files".
func plural(n int, noun string) string {
	if n == 1 {
		return printer.Sprintf("%d %s", n, noun)
	}
	return printer.Sprintf("%d %ss", n, noun)
}
