package main

import (
	"strings"

	"github.com/relaycore/ircd/ircerr"
	"github.com/relaycore/ircd/ircmsg"
)

// passCommand implements PASS (spec section 4.7): only valid before
// registration completes. A mismatched password is fatal (464); a missing
// one is a plain arity error the dispatcher already caught.
func passCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	if u.State == Registered {
		return ircerr.New(ircerr.AlreadyRegistered, "PASS")
	}
	given := msg.AllParams()[0]
	if s.config.Password != "" && given != s.config.Password {
		s.sendProtocolError(u, ircerr.New(ircerr.PasswdMismatch, "*"))
		s.disconnectUser(u, "Bad password")
		return nil
	}
	u.PassAccepted = true
	if u.State == AwaitingPass {
		u.State = AwaitingNickUser
	}
	return nil
}

// nickCommand implements NICK (spec section 4.7).
func nickCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	if s.config.Password != "" && !u.PassAccepted && u.State == AwaitingPass {
		return ircerr.New(ircerr.PasswdMismatch, "*")
	}

	nick := msg.AllParams()[0]
	if !isValidNick(nick) {
		return ircerr.New(ircerr.ErroneousNickname, nick)
	}
	if existing := s.registry.FindUser(nick); existing != nil && existing.ID != u.ID {
		return ircerr.New(ircerr.NicknameInUse, nick)
	}

	oldNick := u.Nick
	wasRegistered := u.State == Registered

	if oldNick != "" {
		s.registry.UnbindNick(oldNick)
	}
	u.Nick = nick
	s.registry.BindNick(u, nick)

	switch {
	case wasRegistered:
		m := ircmsg.Message{Prefix: oldNick + "!" + u.Username + "@" + u.RemoteHost, Command: "NICK", Trailing: nick, HasTrailing: true}
		s.send(u, m)
		notified := map[int64]bool{u.ID: true}
		for _, c := range u.Memberships {
			for _, mem := range c.MembersInOrder() {
				if notified[mem.User.ID] {
					continue
				}
				notified[mem.User.ID] = true
				s.send(mem.User, m)
			}
		}
	case u.State == AwaitingNickUser && u.Username != "":
		s.completeRegistration(u)
	}

	return nil
}

// userCommand implements USER (spec section 4.7): `<user> <mode> <unused> :<realname>`.
func userCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	if u.State == Registered {
		return ircerr.New(ircerr.AlreadyRegistered, "USER")
	}
	params := msg.AllParams()
	username := params[0]
	if len(username) > 12 {
		username = username[:12]
	}
	u.Username = username
	u.Realname = params[3]

	if u.State == AwaitingNickUser && u.Nick != "" {
		s.completeRegistration(u)
	}
	return nil
}

// capCommand implements the no-op CAP handshake (spec section 4.8):
// only LS and END are recognized; LS replies with an empty capability
// list so standard clients proceed straight to registration.
func capCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	sub := strings.ToUpper(msg.AllParams()[0])
	switch sub {
	case "LS":
		m := ircmsg.Message{
			Prefix:      s.config.ServerName,
			Command:     "CAP",
			Params:      []string{u.DisplayNick(), "LS"},
			Trailing:    "",
			HasTrailing: true,
		}
		s.send(u, m)
	case "END":
		// no-op: capability negotiation never actually gated anything.
	}
	return nil
}

// quitCommand implements QUIT (spec section 4.7).
func quitCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	reason := "Client Quit"
	if params := msg.AllParams(); len(params) > 0 {
		reason = params[len(params)-1]
	}
	s.disconnectUser(u, reason)
	return nil
}

// pingCommand implements client-originated PING (spec section 4.8):
// replies with a server-prefixed PONG carrying the same token.
func pingCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	token := msg.AllParams()[0]
	s.send(u, ircmsg.Message{
		Prefix:      s.config.ServerName,
		Command:     "PONG",
		Params:      []string{s.config.ServerName},
		Trailing:    token,
		HasTrailing: true,
	})
	return nil
}

// pongCommand handles a client's reply to our idle-timeout PING (spec
// section 5): any PONG clears the outstanding cookie regardless of
// whether it echoes the cookie we sent, matching spec section 5's
// "if no PONG (matching or otherwise)" wording.
func pongCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	u.PingCookie = ""
	return nil
}

// completeRegistration transitions a user to Registered once NICK and
// USER have both been observed (spec section 4.2), sending the welcome
// numerics, ISUPPORT, LUSERS, and MOTD, in that order.
func (s *Server) completeRegistration(u *User) {
	u.State = Registered

	s.numericText(u, rplWelcome, nil, "Welcome to the Internet Relay Network "+u.Hostmask())
	s.numericText(u, rplYourHost, nil, "Your host is "+s.config.ServerName+", running version "+s.config.Version)
	s.numericText(u, rplCreated, nil, "This server was created "+s.config.CreatedDate)
	s.numericParams(u, rplMyInfo, []string{s.config.ServerName, s.config.Version, "iows", "itkol"})
	s.sendISupport(u)

	s.sendLusers(u)
	s.sendMOTD(u)
}

// sendISupport emits 005 RPL_ISUPPORT (spec section 9, Open Question (b)):
// the spec-minimum token set plus the domain-expansion additions from
// SPEC_FULL section 4.10.
func (s *Server) sendISupport(u *User) {
	tokens := []string{
		"CHANTYPES=#&",
		"PREFIX=(ov)@+",
		"CHANMODES=b,k,l,imnst",
		"MODES=3",
		"NICKLEN=" + itoaSimple(maxNickLength),
		"TOPICLEN=" + itoaSimple(maxTopicLength),
		"KICKLEN=" + itoaSimple(maxTopicLength),
		"AWAYLEN=" + itoaSimple(maxTopicLength),
		"MAXCHANNELS=20",
	}
	s.numericText(u, rplISupport, tokens, "are supported by this server")
}

// sendLusers emits the LUSERS family (251-255), a domain-expansion
// feature sent both at registration and on explicit LUSERS (spec section
// 4.10).
func (s *Server) sendLusers(u *User) {
	users := s.registry.AllUsers()
	opers := 0
	for _, other := range users {
		if other.Oper {
			opers++
		}
	}
	s.numericText(u, rplLUserClient, nil, itoaSimple(len(users))+" users and 0 invisible on 1 server")
	s.numericParams(u, rplLUserOp, []string{itoaSimple(opers)})
	s.numericParams(u, rplLUserUnknown, []string{"0"})
	s.numericParams(u, rplLUserChannels, []string{itoaSimple(s.registry.ChannelCount())})
	s.numericText(u, rplLUserMe, nil, "I have "+itoaSimple(len(users))+" clients and 1 server")
}

// sendMOTD emits the MOTD family (375/372/376), or 422 if none is
// configured (spec section 4.2).
func (s *Server) sendMOTD(u *User) {
	if s.config.MOTD == "" {
		s.numericText(u, errNoMotd, nil, "MOTD File is missing")
		return
	}
	s.numericText(u, rplMotdStart, nil, "- "+s.config.ServerName+" Message of the day - ")
	for _, line := range strings.Split(s.config.MOTD, "\n") {
		s.numericText(u, rplMotd, nil, "- "+line)
	}
	s.numericText(u, rplEndOfMotd, nil, "End of MOTD command")
}
