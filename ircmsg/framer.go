package ircmsg

import "github.com/pkg/errors"

// ErrPendingOverflow is returned by Feed when the read buffer accumulates
// more than maxPending bytes without seeing a line terminator.
var ErrPendingOverflow = errors.New("pending read buffer overflow")

// Framer turns an appended byte stream into complete protocol lines. It is
// restartable: bytes that don't yet form a complete line stay buffered
// across calls, which is what lets a single read syscall's worth of bytes
// span multiple Feed calls from a non-blocking socket.
//
// A line terminates on CRLF; a bare LF is tolerated per RFC leniency. Lines
// longer than MaxLineLength (including terminator) are truncated to
// MaxLineLength-2 bytes before being handed to ParseLine, matching the RFC
// 1459 512 byte cap.
type Framer struct {
	buf        []byte
	maxPending int
}

// NewFramer creates a Framer. maxPending bounds how many bytes may
// accumulate without a line terminator before Feed reports overflow (the
// per-connection "recv-q exceeded" condition).
func NewFramer(maxPending int) *Framer {
	return &Framer{maxPending: maxPending}
}

// Feed appends bytes read from the connection to the internal buffer.
func (f *Framer) Feed(b []byte) error {
	f.buf = append(f.buf, b...)
	if len(f.buf) > f.maxPending && !containsTerminator(f.buf) {
		return ErrPendingOverflow
	}
	return nil
}

// Next extracts the next complete line from the buffer, if any. The
// returned line does not include the terminator. Call Next repeatedly until
// ok is false to drain every complete line currently buffered.
func (f *Framer) Next() (line []byte, ok bool) {
	idx := -1
	for i, c := range f.buf {
		if c == '\n' {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}

	end := idx
	if end > 0 && f.buf[end-1] == '\r' {
		end--
	}

	raw := f.buf[:end]
	f.buf = f.buf[idx+1:]

	if len(raw) > MaxLineLength-2 {
		raw = raw[:MaxLineLength-2]
	}

	return raw, true
}

func containsTerminator(b []byte) bool {
	for _, c := range b {
		if c == '\n' {
			return true
		}
	}
	return false
}
