package input

import (
	"bufio"
	"time"
)

// escapeWait is how long a bare ESC waits for the rest of an escape
// sequence before it counts as the escape key. Sequences can arrive split
// across reads on slow links.
const escapeWait = 25 * time.Millisecond

// Stream reads raw terminal bytes on its own goroutine and presses the
// bound actions on a Keys set.
type Stream struct {
	keys *Keys
	done chan struct{}
	err  error
	wait time.Duration // escape continuation window
}

// StartStream spawns a goroutine that decodes r until it fails or hits EOF.
func StartStream(r *bufio.Reader, keys *Keys) *Stream {
	return startStream(r, keys, escapeWait)
}

func startStream(r *bufio.Reader, keys *Keys, wait time.Duration) *Stream {
	s := &Stream{
		keys: keys,
		done: make(chan struct{}),
		wait: wait,
	}
	go s.run(r)
	return s
}

// Done is closed once the reader has stopped.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that stopped the reader. Only valid after Done.
func (s *Stream) Err() error {
	return s.err
}

// pump copies bytes from r into out and closes out when r fails.
func (s *Stream) pump(r *bufio.Reader, out chan<- byte) {
	defer close(out)
	for {
		b, err := r.ReadByte()
		if err != nil {
			s.err = err
			return
		}
		out <- b
	}
}

func (s *Stream) run(r *bufio.Reader) {
	defer close(s.done)

	in := make(chan byte, 64)
	go s.pump(r, in)
	d := decoder{in: in, wait: s.wait}

	for {
		b, ok := d.next()
		if !ok {
			return
		}

		if b != '\x1b' {
			if a, ok := ByteAction(b); ok {
				s.keys.Press(a)
			}
			continue
		}

		a, ok, more := d.escape()
		if ok {
			s.keys.Press(a)
		}
		if !more {
			return
		}
	}
}

// decoder pulls bytes from the pump, with an optional one-byte pushback.
type decoder struct {
	in      <-chan byte
	wait    time.Duration
	pending []byte
}

// next blocks for the next byte. It reports false once the input is closed.
func (d *decoder) next() (byte, bool) {
	if n := len(d.pending); n > 0 {
		b := d.pending[n-1]
		d.pending = d.pending[:n-1]
		return b, true
	}
	b, ok := <-d.in
	return b, ok
}

// nextWithin waits up to d.wait for a byte. timedOut is set when nothing
// arrived in time; ok is false when the input closed.
func (d *decoder) nextWithin() (b byte, ok, timedOut bool) {
	if n := len(d.pending); n > 0 {
		b, ok = d.next()
		return b, ok, false
	}
	timer := time.NewTimer(d.wait)
	defer timer.Stop()
	select {
	case b, ok = <-d.in:
		return b, ok, false
	case <-timer.C:
		return 0, true, true
	}
}

// escape decodes what follows an ESC that was already read. It returns the
// action (if any) and whether more input may follow.
func (d *decoder) escape() (a Action, ok, more bool) {
	intro, open, timedOut := d.nextWithin()
	switch {
	case timedOut:
		// A lone ESC is the escape key itself.
		return Quit, true, true
	case !open:
		return Quit, true, false
	case intro == '\x1b':
		// ESC ESC: the first one is the escape key.
		d.pending = append(d.pending, intro)
		return Quit, true, true
	case intro != '[' && intro != 'O':
		// Alt+key: ESC prefix followed by the key itself.
		a, ok = ByteAction(intro)
		return a, ok, true
	}

	// CSI/SS3: parameters until a final byte in 0x40-0x7E. A sequence cut
	// short is dropped, never decoded as letters.
	for {
		b, open, timedOut := d.nextWithin()
		switch {
		case timedOut:
			return 0, false, true
		case !open:
			return 0, false, false
		case b == '\x1b':
			d.pending = append(d.pending, b)
			return 0, false, true
		case b >= 0x40 && b <= 0x7e:
			a, ok = arrowAction(b)
			return a, ok, true
		}
	}
}

func arrowAction(final byte) (Action, bool) {
	switch final {
	case 'A': // Up
		return Fire, true
	case 'C': // Right
		return MoveRight, true
	case 'D': // Left
		return MoveLeft, true
	}
	return 0, false
}

// ByteAction returns the action bound to a single key byte.
func ByteAction(b byte) (Action, bool) {
	switch b {
	case 'a', 'A':
		return MoveLeft, true
	case 'd', 'D':
		return MoveRight, true
	case ' ', 'w', 'W':
		return Fire, true
	case 'z', 'Z', 'j', 'J':
		return RotateLeft, true
	case 'x', 'X', 'l', 'L':
		return RotateRight, true
	case '\r', '\n':
		return Start, true
	case 'q', 'Q', '\x03':
		return Quit, true
	}
	return 0, false
}
