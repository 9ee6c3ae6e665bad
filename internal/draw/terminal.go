package draw

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// maxChunkSize bounds a single write so frames flow smoothly over SSH.
const maxChunkSize = 4096

// ChunkWriter accumulates a frame and writes it to the underlying writer in
// chunks on Flush.
type ChunkWriter struct {
	buf  strings.Builder
	bufw *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
}

// NewChunkWriter creates a ChunkWriter that writes to w.
func NewChunkWriter(w io.Writer) *ChunkWriter {
	return &ChunkWriter{bufw: bufio.NewWriterSize(w, 8192)}
}

// Write implements io.Writer for use with Canvas.Render.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) (int, error) {
	return cw.buf.WriteString(s)
}

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ANSIPresenter pushes canvases to a byte stream as ANSI escape sequences.
// Used for the local raw-mode terminal and for SSH sessions.
type ANSIPresenter struct {
	cw   *ChunkWriter
	size TermSizeFunc
}

// NewANSIPresenter creates a presenter writing to w and asking size for the
// terminal dimensions.
func NewANSIPresenter(w io.Writer, size TermSizeFunc) *ANSIPresenter {
	return &ANSIPresenter{cw: NewChunkWriter(w), size: size}
}

// Begin prepares the terminal: hidden cursor, cleared screen.
func (p *ANSIPresenter) Begin() error {
	HideCursor(p.cw)
	ClearScreen(p.cw)
	return p.cw.Flush()
}

// Size returns the current terminal dimensions.
func (p *ANSIPresenter) Size() (int, int, error) {
	return p.size()
}

// Clear wipes the whole terminal, e.g. after a resize left stale cells
// outside the render area.
func (p *ANSIPresenter) Clear() error {
	ResetStyle(p.cw)
	ClearScreen(p.cw)
	return p.cw.Flush()
}

// Present writes the cells of c that changed since the last frame.
func (p *ANSIPresenter) Present(c *Canvas) error {
	if err := c.Render(p.cw); err != nil {
		return err
	}
	return p.cw.Flush()
}

// End restores the terminal.
func (p *ANSIPresenter) End() error {
	ResetStyle(p.cw)
	ClearScreen(p.cw)
	ShowCursor(p.cw)
	return p.cw.Flush()
}
