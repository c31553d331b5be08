package ircmsg

import (
	"strings"

	"github.com/pkg/errors"
)

// Encode renders the message as a wire-format line, including the trailing
// CRLF. It does not enforce command-specific semantics, only the generic
// framing rules (RFC 1459 section 2.3.1).
func (m Message) Encode() (string, error) {
	if m.Command == "" {
		return "", errors.New("message has no command")
	}
	if len(m.Params) > MaxParams {
		return "", errors.New("too many parameters")
	}
	for _, p := range m.Params {
		if p == "" || strings.ContainsAny(p, " \x00\r\n") {
			return "", errors.Errorf("middle parameter %q cannot be empty or contain a space", p)
		}
		if p[0] == ':' {
			return "", errors.Errorf("middle parameter %q cannot start with ':'", p)
		}
	}

	var b strings.Builder
	if m.Prefix != "" {
		b.WriteByte(':')
		b.WriteString(m.Prefix)
		b.WriteByte(' ')
	}
	b.WriteString(m.Command)
	for _, p := range m.Params {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	if m.HasTrailing {
		b.WriteString(" :")
		b.WriteString(m.Trailing)
	}
	b.WriteString("\r\n")

	line := b.String()
	if len(line) > MaxLineLength {
		return line[:MaxLineLength-2] + "\r\n", ErrTruncated
	}
	return line, nil
}

// ErrTruncated is returned alongside a usable, truncated line when encoding
// would otherwise exceed MaxLineLength.
var ErrTruncated = errors.New("message truncated to fit maximum line length")
