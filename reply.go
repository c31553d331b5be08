package main

import (
	"fmt"

	"github.com/relaycore/ircd/ircerr"
	"github.com/relaycore/ircd/ircmsg"
)

// The Reply Stream (spec section 4.9): every numeric line this server
// sends is built by one of these helpers and handed to Server.queueLine,
// which is the only place that actually appends bytes to a user's output
// buffer.

func (s *Server) numeric(code int, u *User, params []string, trailing string, hasTrailing bool) {
	m := ircmsg.Message{
		Prefix:      s.config.ServerName,
		Command:     fmt.Sprintf("%03d", code),
		Params:      append([]string{u.DisplayNick()}, params...),
		Trailing:    trailing,
		HasTrailing: hasTrailing,
	}
	s.queueLine(u, m)
}

// numericText sends a numeric whose final parameter is a trailing
// human-readable string (the common case: 001, 372, 332, and so on).
func (s *Server) numericText(u *User, code int, params []string, text string) {
	s.numeric(code, u, params, text, true)
}

// numericParams sends a numeric with no trailing parameter, only a
// positional param list (e.g. 221 RPL_UMODEIS, 329 RPL_CREATIONTIME).
func (s *Server) numericParams(u *User, code int, params []string) {
	s.numeric(code, u, params, "", false)
}

// sendProtocolError renders a closed-taxonomy protocol error to the
// offending user only, per spec section 4.9. The dispatcher is the only
// caller in the common case, but handlers that need to emit one error and
// keep going (e.g. per-target loops in PRIVMSG/JOIN) call it directly.
func (s *Server) sendProtocolError(u *User, e *ircerr.ProtocolError) {
	s.numericText(u, e.Numeric(), e.Params(), e.Text())
}

// send relays an arbitrary message verbatim to u, used for client-sourced
// traffic (JOIN/PART/PRIVMSG/QUIT broadcasts, and so on) rather than
// server numerics.
func (s *Server) send(u *User, m ircmsg.Message) {
	s.queueLine(u, m)
}

// sendToChannel relays m to every member of c in deterministic order,
// optionally skipping one user (the sender of a channel PRIVMSG/NOTICE,
// which is never echoed back). JOIN, PART, KICK, TOPIC and channel MODE go
// through sendToChannelAll, so their originator sees the line too; QUIT
// does not use either helper (see Server.broadcastQuit).
func (s *Server) sendToChannel(c *Channel, m ircmsg.Message, skip *User) {
	for _, mem := range c.MembersInOrder() {
		if skip != nil && mem.User.ID == skip.ID {
			continue
		}
		s.send(mem.User, m)
	}
}

// sendToChannelAll relays m to every member of c, including the
// originator, matching JOIN's broadcast rule (spec section 4.4: "broadcast
// JOIN to all members (including the joiner)").
func (s *Server) sendToChannelAll(c *Channel, m ircmsg.Message) {
	s.sendToChannel(c, m, nil)
}
