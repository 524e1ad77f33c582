// Package localcommand spawns a local process attached to a
// pseudo-terminal and bridges its raw byte streams through channels.
// The POSIX build uses a real pty; on Windows a ConPTY is used when the
// OS provides one, with a plain-pipe fallback otherwise.
package localcommand

// Size is the terminal geometry in character cells.
type Size struct {
	Cols uint16
	Rows uint16
}

// DefaultSize is used when the client reports zero dimensions.
var DefaultSize = Size{Cols: 80, Rows: 24}

func (s Size) orDefault() Size {
	if s.Cols == 0 {
		s.Cols = DefaultSize.Cols
	}
	if s.Rows == 0 {
		s.Rows = DefaultSize.Rows
	}
	return s
}

const (
	// Terminal output is forwarded in chunks of at most this many bytes.
	readBufferSize = 8192

	// Both bridge channels are bounded. A full output channel
	// backpressures the terminal reader; a full input channel makes
	// Write shed instead of blocking the session loop.
	channelDepth = 64
)
