package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Format returns the uncoloured line for m.
func Format(m Message) string {
	return fmt.Sprintf("Browser Console (%s): %s", m.Type, m.Text)
}

// Printer writes one line per console message. It is safe for concurrent use;
// backends deliver events from their own goroutines.
type Printer struct {
	mu       sync.Mutex
	w        io.Writer
	colorize bool
}

// NewPrinter returns a Printer writing to w without colour.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// NewStdoutPrinter returns a Printer on stdout, colouring severities when
// stdout is a terminal.
func NewStdoutPrinter() *Printer {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return &Printer{
		w:        colorable.NewColorable(os.Stdout),
		colorize: tty,
	}
}

// Print writes m as one line.
func (p *Printer) Print(m Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.colorize {
		m.Type = severityColor(m.Type).Sprint(m.Type)
	}
	fmt.Fprintln(p.w, Format(m))
}

func severityColor(typ string) *color.Color {
	switch typ {
	case "error", "assert":
		return color.New(color.FgRed)
	case "warning", "warn":
		return color.New(color.FgYellow)
	case "info":
		return color.New(color.FgCyan)
	case "debug", "trace":
		return color.New(color.Faint)
	default:
		return color.New(color.Reset)
	}
}
