package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const (
	// clearScreen moves the cursor home and erases the terminal.
	clearScreen = "\x1b[H\x1b[2J"
	// frameWidth keeps every screen the same size so the box does not jump.
	frameWidth = 6
	// DefaultColor is the digit color of the terminal display.
	DefaultColor = "#F59E0B"
)

// Terminal draws the clock face as a bordered box on a terminal.
// It keeps the last frame and skips writes that would not change the screen,
// so churn actions can render on every cycle without flooding the output.
type Terminal struct {
	// mu serialises writes; the display is shared by all actions.
	mu sync.Mutex
	// out receives the frames.
	out io.Writer
	// style draws the box around the digits.
	style lipgloss.Style
	// last is the most recently written frame.
	last string
	// frames counts writes, for diagnostics.
	frames int
	// raw translates line feeds for terminals in raw mode.
	raw bool
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithRawMode makes the display emit CRLF line endings, needed while the
// keyboard holds the terminal in raw mode.
func WithRawMode() TerminalOption {
	return func(t *Terminal) {
		t.raw = true
	}
}

// NewTerminal creates a terminal display writing to out in the given color.
func NewTerminal(out io.Writer, color string, opts ...TerminalOption) *Terminal {
	if color == "" {
		color = DefaultColor
	}

	renderer := lipgloss.NewRenderer(out)

	t := &Terminal{
		out: out,
		style: renderer.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Padding(0, 2),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// RenderTime implements Display. A leading zero of the hour is blanked, as on the LED matrix.
func (t *Terminal) RenderTime(hours, minutes int) {
	t.show(fmt.Sprintf("%2d:%02d", hours, minutes))
}

// RenderAlarmStatus implements Display.
func (t *Terminal) RenderAlarmStatus(enabled bool) {
	if enabled {
		t.show("AL on")
	} else {
		t.show("AL off")
	}
}

// Clear implements Display.
func (t *Terminal) Clear() {
	t.show("")
}

// Frames returns the number of frames written so far.
func (t *Terminal) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.frames
}

func (t *Terminal) show(text string) {
	frame := t.style.Render(fmt.Sprintf("%-*s", frameWidth, text))

	t.mu.Lock()
	defer t.mu.Unlock()

	if frame == t.last {
		return
	}

	t.last = frame
	t.frames++

	lineEnding := "\n"
	if t.raw {
		lineEnding = "\r\n"
		frame = strings.ReplaceAll(frame, "\n", lineEnding)
	}

	_, _ = io.WriteString(t.out, clearScreen+frame+lineEnding)
}
