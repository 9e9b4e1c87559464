package sim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/oshokin/desk-clock/internal/logger"
)

const (
	// ctrlC and ctrlD arrive as plain bytes in raw mode.
	ctrlC = 0x03
	ctrlD = 0x04

	// DefaultTap is how long a short press holds the button.
	DefaultTap = 50 * time.Millisecond
	// DefaultHold is how long the long-press key holds the button.
	DefaultHold = 1200 * time.Millisecond
)

// errNotTerminal is returned by EnterRawMode for a descriptor that is not a terminal.
var errNotTerminal = errors.New("not a terminal")

// Keyboard maps keys to board input:
//
//	space, enter  short press (held for the tap time)
//	l             long press (held for the hold time)
//	+ = k ]       rotate clockwise
//	- j [         rotate counter-clockwise
//	q, Ctrl-C     quit
type Keyboard struct {
	board *Board
	in    io.Reader
	tap   time.Duration
	hold  time.Duration

	// wg tracks pending releases.
	wg sync.WaitGroup
}

// KeyboardOption configures a Keyboard.
type KeyboardOption func(*Keyboard)

// WithTap sets how long a short press holds the button. It must exceed the debounce window.
func WithTap(d time.Duration) KeyboardOption {
	return func(k *Keyboard) {
		if d > 0 {
			k.tap = d
		}
	}
}

// WithHold sets how long the long-press key holds the button.
func WithHold(d time.Duration) KeyboardOption {
	return func(k *Keyboard) {
		if d > 0 {
			k.hold = d
		}
	}
}

// NewKeyboard creates a keyboard reading keys from in and driving board.
func NewKeyboard(board *Board, in io.Reader, opts ...KeyboardOption) *Keyboard {
	k := &Keyboard{
		board: board,
		in:    in,
		tap:   DefaultTap,
		hold:  DefaultHold,
	}

	for _, opt := range opts {
		opt(k)
	}

	return k
}

// Run handles keys until the quit key, the end of input or ctx cancellation.
// A read blocked in the background is abandoned on cancellation, and a held
// button is released before Run returns.
func (k *Keyboard) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(logger.WithName(ctx, "keyboard"))
	defer func() {
		cancel()
		k.wg.Wait()
	}()

	keys := make(chan byte)
	readErr := make(chan error, 1)

	go func() {
		buf := make([]byte, 1)

		for {
			if _, err := k.in.Read(buf); err != nil {
				readErr <- err

				return
			}

			select {
			case keys <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("read key: %w", err)
		case key := <-keys:
			if !k.Handle(ctx, key) {
				logger.Info(ctx, "Quit requested")

				return nil
			}
		}
	}
}

// Handle applies one key and reports whether input should continue.
func (k *Keyboard) Handle(ctx context.Context, key byte) bool {
	switch key {
	case ' ', '\r', '\n':
		k.press(ctx, k.tap)
	case 'l', 'L':
		k.press(ctx, k.hold)
	case '+', '=', 'k', ']':
		k.board.Rotate(1)
	case '-', '_', 'j', '[':
		k.board.Rotate(-1)
	case 'q', 'Q', ctrlC, ctrlD:
		return false
	default:
		logger.DebugKV(ctx, "Ignored key", "key", fmt.Sprintf("%q", key))
	}

	return true
}

// press holds the button for d and then releases it, early on cancellation.
// Keys arriving while the button is held are dropped.
func (k *Keyboard) press(ctx context.Context, d time.Duration) {
	if k.board.Pressed() {
		return
	}

	k.board.Press()

	k.wg.Go(func() {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
		}

		k.board.Release()
	})
}

// Wait blocks until pending releases are done.
func (k *Keyboard) Wait() {
	k.wg.Wait()
}

// EnterRawMode puts the terminal behind fd into raw mode and returns the function restoring it.
func EnterRawMode(fd uintptr) (func() error, error) {
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("enter raw mode: %w", errNotTerminal)
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}

	return func() error {
		return term.Restore(fd, state)
	}, nil
}

// CRLFWriter turns line feeds into CRLF, for writers sharing a terminal in raw mode.
type CRLFWriter struct {
	w io.Writer
}

// NewCRLFWriter wraps w.
func NewCRLFWriter(w io.Writer) *CRLFWriter {
	return &CRLFWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success.
func (c *CRLFWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}

	return len(p), nil
}
