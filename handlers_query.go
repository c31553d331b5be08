package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/relaycore/ircd/ircerr"
	"github.com/relaycore/ircd/ircmsg"
)

// whoCommand implements WHO (spec section 4.8): with a channel argument,
// lists that channel's members; with none, lists every registered user.
func whoCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()

	var users []*User
	mask := "*"
	if len(params) > 0 && params[0] != "" {
		mask = params[0]
		if c := s.registry.FindChannel(params[0]); c != nil {
			for _, mem := range c.MembersInOrder() {
				users = append(users, mem.User)
			}
		}
	}
	if users == nil {
		users = s.registry.AllUsers()
	}

	for _, other := range users {
		flag := "H"
		if other.Away {
			flag = "G"
		}
		if other.Oper {
			flag += "*"
		}
		s.numericText(u, rplWhoReply,
			[]string{mask, other.Username, other.RemoteHost, s.config.ServerName, other.Nick, flag},
			"0 "+other.Realname)
	}
	s.numericText(u, rplEndOfWho, []string{mask}, "End of WHO list")
	return nil
}

// whoisCommand implements WHOIS (spec section 4.8), a domain-expansion
// feature filling in detail the distilled spec left implicit.
func whoisCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	nick := msg.AllParams()[0]
	target := s.registry.FindUser(nick)
	if target == nil {
		return ircerr.New(ircerr.NoSuchNick, nick)
	}

	s.numericText(u, rplWhoisUser,
		[]string{target.Nick, target.Username, target.RemoteHost, "*"}, target.Realname)
	s.numericText(u, rplWhoisServer, []string{target.Nick, s.config.ServerName}, s.config.ServerInfo)

	if target.Oper {
		s.numericText(u, rplWhoisOperator, []string{target.Nick}, "is an IRC operator")
	}

	var channels []string
	for _, c := range target.Memberships {
		if c.Secret && !c.IsMember(u) {
			continue
		}
		prefix := ""
		if c.IsOp(target) {
			prefix = "@"
		} else if c.IsVoice(target) {
			prefix = "+"
		}
		channels = append(channels, prefix+c.Name)
	}
	if len(channels) > 0 {
		s.numericText(u, rplWhoisChannels, []string{target.Nick}, strings.Join(channels, " "))
	}

	idle := int(time.Since(target.LastActivity).Seconds())
	s.numericText(u, rplWhoisIdle, []string{target.Nick, strconv.Itoa(idle)}, "seconds idle")
	s.numericText(u, rplEndOfWhois, []string{target.Nick}, "End of WHOIS list")
	return nil
}

// listCommand implements LIST (spec section 4.8). Secret channels are
// omitted from the listing unless the requester is a member.
func listCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	s.numericText(u, rplListStart, nil, "Channel Users Name")
	for _, c := range s.registry.AllChannels() {
		if c.Secret && !c.IsMember(u) {
			continue
		}
		s.numericText(u, rplList, []string{c.Name, strconv.Itoa(len(c.Members))}, c.Topic)
	}
	s.numericText(u, rplListEnd, nil, "End of LIST")
	return nil
}

// namesCommand implements NAMES (spec section 4.8).
func namesCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	if len(params) > 0 && params[0] != "" {
		for _, name := range strings.Split(params[0], ",") {
			if c := s.registry.FindChannel(name); c != nil {
				s.sendNames(u, c)
			}
		}
		return nil
	}
	for _, c := range s.registry.AllChannels() {
		if c.Secret && !c.IsMember(u) {
			continue
		}
		s.sendNames(u, c)
	}
	return nil
}

// motdCommand implements the explicit MOTD command (spec section 4.8).
func motdCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	s.sendMOTD(u)
	return nil
}

// infoCommand implements INFO (spec section 4.8).
func infoCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	s.numericText(u, rplInfo, nil, s.config.ServerInfo)
	s.numericText(u, rplInfo, nil, "Running "+s.config.Version)
	s.numericText(u, rplEndOfInfo, nil, "End of INFO list")
	return nil
}

// versionCommand implements VERSION (spec section 4.8).
func versionCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	s.numericParams(u, rplVersion, []string{s.config.Version, s.config.ServerName})
	return nil
}

// lusersCommand implements the explicit LUSERS command (spec section 4.8
// and domain expansion 4.10; the same reply set is sent automatically at
// registration).
func lusersCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	s.sendLusers(u)
	return nil
}

// operCommand implements OPER (domain expansion section 4.10): grants the
// server-only `o` user mode against a configured oper credential map.
func operCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	name, password := params[0], params[1]

	want, ok := s.config.Opers[name]
	if !ok || want != password {
		return ircerr.New(ircerr.PasswdMismatch, name)
	}

	u.Oper = true
	s.numericText(u, rplYoureOper, nil, "You are now an IRC operator")
	return nil
}

// killCommand implements the oper-only KILL command (domain expansion
// section 4.10): forcibly disconnects a nick.
func killCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	if !u.Oper {
		return ircerr.New(ircerr.NoPrivileges, "KILL")
	}
	params := msg.AllParams()
	nick := params[0]
	reason := "Killed"
	if len(params) > 1 {
		reason = params[len(params)-1]
	}

	target := s.registry.FindUser(nick)
	if target == nil {
		return ircerr.New(ircerr.NoSuchNick, nick)
	}
	s.disconnectUser(target, "Killed by "+u.Nick+" ("+reason+")")
	return nil
}

// awayCommand implements AWAY/unaway (domain expansion section 4.10,
// filling in the teacher's unimplemented RPL_AWAY TODO).
func awayCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	if len(params) == 0 || params[len(params)-1] == "" {
		u.Away = false
		u.AwayMessage = ""
		s.numericText(u, rplUnaway, nil, "You are no longer marked as being away")
		return nil
	}
	u.Away = true
	u.AwayMessage = params[len(params)-1]
	s.numericText(u, rplNowAway, nil, "You have been marked as being away")
	return nil
}

// userModeCommand implements the user MODE form (spec section 4.6).
func userModeCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	nick := params[0]
	if casefold(nick) != casefold(u.Nick) {
		return ircerr.New(ircerr.UsersDontMatch, nick)
	}

	if len(params) > 1 {
		modestring := params[1]
		adding := true
		for i := 0; i < len(modestring); i++ {
			letter := modestring[i]
			switch letter {
			case '+':
				adding = true
			case '-':
				adding = false
			case 'i':
				u.Invisible = adding
			case 'w':
				u.Wallops = adding
			case 's':
				u.Notices = adding
			case 'o':
				if !adding {
					u.Oper = false
				}
				// +o from a user is silently dropped: operator status is
				// server-grant-only, via OPER.
			default:
				s.sendProtocolError(u, ircerr.New(ircerr.UModeUnknownFlag, string(letter)))
			}
		}
	}

	s.numericParams(u, rplUModeIs, []string{u.UserModeString()})
	return nil
}
