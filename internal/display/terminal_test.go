package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTerminal_RendersScreens checks the content of each screen.
func TestTerminal_RendersScreens(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	d := NewTerminal(&buf, "")

	d.RenderTime(7, 5)
	require.Contains(t, buf.String(), " 7:05")

	d.RenderTime(23, 59)
	require.Contains(t, buf.String(), "23:59")

	d.RenderAlarmStatus(true)
	require.Contains(t, buf.String(), "AL on")

	d.RenderAlarmStatus(false)
	require.Contains(t, buf.String(), "AL off")
}

// TestTerminal_SkipsUnchangedFrames ensures repeated renders of the same screen write once.
func TestTerminal_SkipsUnchangedFrames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	d := NewTerminal(&buf, "")

	for range 100 {
		d.RenderTime(12, 30)
	}

	require.Equal(t, 1, d.Frames())

	written := buf.Len()

	d.Clear()
	d.Clear()
	require.Equal(t, 2, d.Frames())
	require.Greater(t, buf.Len(), written)
}

// TestTerminal_RawMode verifies CRLF line endings in raw mode.
func TestTerminal_RawMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	d := NewTerminal(&buf, "#FFFFFF", WithRawMode())
	d.RenderTime(1, 2)

	require.Contains(t, buf.String(), "\r\n")
	require.NotContains(t, buf.String(), "\r\r")
}
