package main

import (
	"strings"

	"github.com/relaycore/ircd/ircerr"
	"github.com/relaycore/ircd/ircmsg"
)

// privmsgCommand implements PRIVMSG (spec section 4.5).
func privmsgCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	return relayMessage(s, u, msg, "PRIVMSG")
}

// noticeCommand implements NOTICE (spec section 4.5). NOTICE never
// generates a numeric reply, even on error, per RFC 1459 - that's the one
// rule that distinguishes it from PRIVMSG at this layer.
func noticeCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	return relayMessage(s, u, msg, "NOTICE")
}

func relayMessage(s *Server, u *User, msg ircmsg.Message, cmd string) *ircerr.ProtocolError {
	silent := cmd == "NOTICE"
	params := msg.AllParams()
	targetList := params[0]

	if len(params) < 2 {
		if silent {
			return nil
		}
		return ircerr.New(ircerr.NoTextToSend, cmd)
	}
	text := params[len(params)-1]

	targets := strings.Split(targetList, ",")
	relayed := ircmsg.Message{Prefix: u.Hostmask(), Command: cmd, Trailing: text, HasTrailing: true}

	for _, target := range targets {
		if target == "" {
			continue
		}
		if isValidChannelName(target) {
			c := s.registry.FindChannel(target)
			if c == nil {
				if !silent {
					s.sendProtocolError(u, ircerr.New(ircerr.NoSuchChannel, target))
				}
				continue
			}
			if !c.IsMember(u) {
				if !silent {
					s.sendProtocolError(u, ircerr.New(ircerr.CannotSendToChan, target))
				}
				continue
			}
			if c.MatchesBan(u.Hostmask()) {
				if !silent {
					s.sendProtocolError(u, ircerr.New(ircerr.CannotSendToChan, target))
				}
				continue
			}
			if c.Moderated && !c.IsOp(u) && !c.IsVoice(u) {
				if !silent {
					s.sendProtocolError(u, ircerr.New(ircerr.CannotSendToChan, target))
				}
				continue
			}
			out := relayed
			out.Params = []string{c.Name}
			s.sendToChannel(c, out, u)
			continue
		}

		targetUser := s.registry.FindUser(target)
		if targetUser == nil {
			if !silent {
				s.sendProtocolError(u, ircerr.New(ircerr.NoSuchNick, target))
			}
			continue
		}
		out := relayed
		out.Params = []string{targetUser.Nick}
		s.send(targetUser, out)
		if !silent && targetUser.Away {
			s.numericText(u, rplAway, []string{targetUser.Nick}, targetUser.AwayMessage)
		}
	}

	return nil
}
