// Package ircmsg parses and serializes RFC 1459 IRC protocol lines.
package ircmsg

import "fmt"

// MaxLineLength is the maximum protocol message length, including the
// trailing CRLF.
const MaxLineLength = 512

// MaxParams is the maximum number of parameters a message may carry
// (RFC 1459 section 2.3.1), not counting the trailing parameter.
const MaxParams = 15

// Message holds a single parsed protocol line. See RFC 1459 section 2.3.1.
type Message struct {
	// Prefix is the optional source of the message. Client-sourced messages
	// SHOULD NOT carry one; server-sourced messages always do.
	Prefix string

	// Command is the command token or three digit numeric, uppercased.
	Command string

	// Params holds the middle parameters, in order. It does not include
	// Trailing.
	Params []string

	// Trailing is the final parameter, introduced on the wire by a leading
	// ':'. It may contain spaces. HasTrailing distinguishes an explicit empty
	// trailing parameter ("... :\r\n") from no trailing parameter at all.
	Trailing    string
	HasTrailing bool
}

func (m Message) String() string {
	return fmt.Sprintf("Prefix[%s] Command[%s] Params%q Trailing[%s]",
		m.Prefix, m.Command, m.Params, m.Trailing)
}

// SourceNick returns the nickname portion of the prefix, if any.
func (m Message) SourceNick() string {
	for i, c := range m.Prefix {
		if c == '!' || c == '@' {
			return m.Prefix[:i]
		}
	}
	return m.Prefix
}

// AllParams returns Params with Trailing appended, if present. This is the
// form most command handlers want to index into.
func (m Message) AllParams() []string {
	if !m.HasTrailing {
		return m.Params
	}
	out := make([]string, 0, len(m.Params)+1)
	out = append(out, m.Params...)
	return append(out, m.Trailing)
}
