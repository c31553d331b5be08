package main

import (
	"strings"

	"github.com/relaycore/ircd/ircerr"
	"github.com/relaycore/ircd/ircmsg"
)

// handlerFunc implements one command. It mutates Registry/Channel/User
// state directly and enqueues its own replies; a non-nil return is a
// protocol error the dispatcher renders to the caller, per the
// early-return-result redesign note in spec section 9 (replacing a
// throw/catch-per-command control flow).
type handlerFunc func(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError

// commandSpec is what the dispatcher needs to know about a command before
// it invokes the handler: how many parameters it requires (spec section
// 4.3's arity check) and whether the connection must already be
// Registered.
type commandSpec struct {
	minParams          int
	requiresRegistered bool
	handler            handlerFunc
}

// commandTable is the command token -> spec map the dispatcher looks up
// case-insensitively. PASS/NICK/USER/CAP/QUIT/PING are the only commands
// usable before registration (spec section 4.2); every other command
// requires requiresRegistered.
var commandTable = map[string]commandSpec{
	"PASS": {minParams: 1, handler: passCommand},
	"NICK": {minParams: 1, handler: nickCommand},
	"USER": {minParams: 4, handler: userCommand},
	"CAP":  {minParams: 1, handler: capCommand},
	"QUIT": {minParams: 0, handler: quitCommand},
	"PING": {minParams: 1, handler: pingCommand},

	"PONG": {minParams: 1, requiresRegistered: true, handler: pongCommand},

	"JOIN":   {minParams: 1, requiresRegistered: true, handler: joinCommand},
	"PART":   {minParams: 1, requiresRegistered: true, handler: partCommand},
	"KICK":   {minParams: 2, requiresRegistered: true, handler: kickCommand},
	"INVITE": {minParams: 2, requiresRegistered: true, handler: inviteCommand},

	"PRIVMSG": {minParams: 1, requiresRegistered: true, handler: privmsgCommand},
	"NOTICE":  {minParams: 1, requiresRegistered: true, handler: noticeCommand},

	"TOPIC": {minParams: 1, requiresRegistered: true, handler: topicCommand},
	"MODE":  {minParams: 1, requiresRegistered: true, handler: modeCommand},

	"WHO":    {minParams: 0, requiresRegistered: true, handler: whoCommand},
	"WHOIS":  {minParams: 1, requiresRegistered: true, handler: whoisCommand},
	"LIST":   {minParams: 0, requiresRegistered: true, handler: listCommand},
	"NAMES":  {minParams: 0, requiresRegistered: true, handler: namesCommand},
	"MOTD":   {minParams: 0, requiresRegistered: true, handler: motdCommand},
	"INFO":   {minParams: 0, requiresRegistered: true, handler: infoCommand},
	"VERSION": {minParams: 0, requiresRegistered: true, handler: versionCommand},
	"LUSERS": {minParams: 0, requiresRegistered: true, handler: lusersCommand},
	"OPER":   {minParams: 2, requiresRegistered: true, handler: operCommand},
	"KILL":   {minParams: 1, requiresRegistered: true, handler: killCommand},
	"AWAY":   {minParams: 0, requiresRegistered: true, handler: awayCommand},
}

// dispatch is the Command Dispatcher (spec section 4.3): case-insensitive
// lookup, registration-gate and arity checks, then invoke.
func (s *Server) dispatch(u *User, msg ircmsg.Message) {
	cmd := strings.ToUpper(msg.Command)

	spec, ok := commandTable[cmd]
	if !ok {
		if u.State != Registered {
			s.sendProtocolError(u, ircerr.New(ircerr.NotRegistered, "*"))
			return
		}
		s.sendProtocolError(u, ircerr.New(ircerr.UnknownCommand, msg.Command))
		return
	}

	if spec.requiresRegistered && u.State != Registered {
		s.sendProtocolError(u, ircerr.New(ircerr.NotRegistered, "*"))
		return
	}

	if len(msg.AllParams()) < spec.minParams {
		s.sendProtocolError(u, ircerr.New(ircerr.NeedMoreParams, cmd))
		return
	}

	if err := spec.handler(s, u, msg); err != nil {
		s.sendProtocolError(u, err)
	}
}
