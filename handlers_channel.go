package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/relaycore/ircd/ircerr"
	"github.com/relaycore/ircd/ircmsg"
)

// joinCommand implements JOIN (spec section 4.4).
func joinCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	chans := strings.Split(params[0], ",")
	var keys []string
	if len(params) > 1 {
		keys = strings.Split(params[1], ",")
	}

	for i, name := range chans {
		key := ""
		if i < len(keys) {
			key = keys[i]
		}
		s.joinOne(u, name, key)
	}
	return nil
}

func (s *Server) joinOne(u *User, name, key string) {
	if !isValidChannelName(name) {
		s.sendProtocolError(u, ircerr.New(ircerr.BadChanMask, name))
		return
	}

	c, created := s.registry.GetOrCreateChannel(name)
	if c.IsMember(u) {
		return // idempotent: already a member, no state change, no broadcast
	}

	if !created {
		if c.MatchesBan(u.Hostmask()) {
			s.sendProtocolError(u, ircerr.New(ircerr.BannedFromChan, name))
			return
		}
		if c.Keyed && c.Key != key {
			s.sendProtocolError(u, ircerr.New(ircerr.BadChannelKey, name))
			return
		}
		if c.Limited && len(c.Members) >= c.Limit {
			s.sendProtocolError(u, ircerr.New(ircerr.ChannelIsFull, name))
			return
		}
		if c.InviteOnly && !c.Invited[casefold(u.Nick)] {
			s.sendProtocolError(u, ircerr.New(ircerr.InviteOnlyChan, name))
			return
		}
	}

	delete(c.Invited, casefold(u.Nick))
	c.AddMember(u, created)

	joinMsg := ircmsg.Message{Prefix: u.Hostmask(), Command: "JOIN", Trailing: c.Name, HasTrailing: true}
	s.sendToChannelAll(c, joinMsg)

	if c.Topic == "" {
		s.numericText(u, rplNoTopic, []string{c.Name}, "No topic is set")
	} else {
		s.numericText(u, rplTopic, []string{c.Name}, c.Topic)
	}
	s.sendNames(u, c)
}

// sendNames emits RPL_NAMREPLY (353) and RPL_ENDOFNAMES (366) for c to u,
// used by JOIN and the standalone NAMES command.
func (s *Server) sendNames(u *User, c *Channel) {
	var names []string
	for _, mem := range c.MembersInOrder() {
		prefix := ""
		switch {
		case mem.Op:
			prefix = "@"
		case mem.Voice:
			prefix = "+"
		}
		names = append(names, prefix+mem.User.Nick)
	}
	sym := "="
	if c.Secret {
		sym = "@"
	}
	s.numericText(u, rplNamReply, []string{sym, c.Name}, strings.Join(names, " "))
	s.numericText(u, rplEndOfNames, []string{c.Name}, "End of NAMES list")
}

// partCommand implements PART (spec section 4.4).
func partCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	chans := strings.Split(params[0], ",")
	reason := u.Nick
	if len(params) > 1 {
		reason = params[len(params)-1]
	}

	for _, name := range chans {
		if !isValidChannelName(name) {
			s.sendProtocolError(u, ircerr.New(ircerr.BadChanMask, name))
			continue
		}
		c := s.registry.FindChannel(name)
		if c == nil {
			s.sendProtocolError(u, ircerr.New(ircerr.NoSuchChannel, name))
			continue
		}
		if !c.IsMember(u) {
			s.sendProtocolError(u, ircerr.New(ircerr.NotOnChannel, name))
			continue
		}
		partMsg := ircmsg.Message{Prefix: u.Hostmask(), Command: "PART", Params: []string{c.Name}, Trailing: reason, HasTrailing: true}
		s.sendToChannelAll(c, partMsg)
		c.RemoveMember(u)
		s.registry.DestroyIfEmpty(c)
	}
	return nil
}

// kickCommand implements KICK (spec section 4.4).
func kickCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	name, targetNick := params[0], params[1]
	reason := u.Nick
	if len(params) > 2 {
		reason = params[len(params)-1]
	}

	if !isValidChannelName(name) {
		return ircerr.New(ircerr.BadChanMask, name)
	}
	c := s.registry.FindChannel(name)
	if c == nil {
		return ircerr.New(ircerr.NoSuchChannel, name)
	}
	if !c.IsMember(u) {
		return ircerr.New(ircerr.NotOnChannel, name)
	}
	if !c.IsOp(u) {
		return ircerr.New(ircerr.ChanOPrivsNeeded, name)
	}
	target := s.registry.FindUser(targetNick)
	if target == nil || !c.IsMember(target) {
		return ircerr.NewWithExtra(ircerr.UserNotInChannel, targetNick, name)
	}

	kickMsg := ircmsg.Message{Prefix: u.Hostmask(), Command: "KICK", Params: []string{c.Name, target.Nick}, Trailing: reason, HasTrailing: true}
	s.sendToChannelAll(c, kickMsg)
	c.RemoveMember(target)
	s.registry.DestroyIfEmpty(c)
	return nil
}

// inviteCommand implements INVITE (spec section 4.4).
func inviteCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	targetNick, name := params[0], params[1]

	target := s.registry.FindUser(targetNick)
	if target == nil {
		return ircerr.New(ircerr.NoSuchNick, targetNick)
	}
	c := s.registry.FindChannel(name)
	if c == nil || !c.IsMember(u) {
		return ircerr.New(ircerr.NotOnChannel, name)
	}
	if c.InviteOnly && !c.IsOp(u) {
		return ircerr.New(ircerr.ChanOPrivsNeeded, name)
	}

	c.Invited[casefold(target.Nick)] = true
	s.send(target, ircmsg.Message{Prefix: u.Hostmask(), Command: "INVITE", Params: []string{target.Nick}, Trailing: c.Name, HasTrailing: true})
	s.numericParams(u, rplInviting, []string{target.Nick, c.Name})
	return nil
}

// topicCommand implements TOPIC (spec section 4.6).
func topicCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	name := params[0]

	if !isValidChannelName(name) {
		return ircerr.New(ircerr.BadChanMask, name)
	}
	c := s.registry.FindChannel(name)
	if c == nil {
		return ircerr.New(ircerr.NoSuchChannel, name)
	}
	if !c.IsMember(u) {
		return ircerr.New(ircerr.NotOnChannel, name)
	}

	if len(params) == 1 {
		if c.Topic == "" {
			s.numericText(u, rplNoTopic, []string{c.Name}, "No topic is set")
		} else {
			s.numericText(u, rplTopic, []string{c.Name}, c.Topic)
		}
		return nil
	}

	if c.TopicLocked && !c.IsOp(u) {
		return ircerr.New(ircerr.ChanOPrivsNeeded, name)
	}

	topic := params[len(params)-1]
	if len(topic) > maxTopicLength {
		topic = topic[:maxTopicLength]
	}
	c.Topic = topic
	c.TopicSetter = u.Hostmask()
	c.TopicTime = time.Now()

	s.sendToChannelAll(c, ircmsg.Message{Prefix: u.Hostmask(), Command: "TOPIC", Params: []string{c.Name}, Trailing: topic, HasTrailing: true})
	return nil
}

// modeCommand dispatches to the channel or user MODE form, per spec
// section 4.6's "two disjoint forms by target type".
func modeCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	target := msg.AllParams()[0]
	if isValidChannelName(target) {
		return channelModeCommand(s, u, msg)
	}
	return userModeCommand(s, u, msg)
}

func channelModeCommand(s *Server, u *User, msg ircmsg.Message) *ircerr.ProtocolError {
	params := msg.AllParams()
	name := params[0]

	if !isValidChannelName(name) {
		return ircerr.New(ircerr.BadChanMask, name)
	}
	c := s.registry.FindChannel(name)
	if c == nil {
		return ircerr.New(ircerr.NoSuchChannel, name)
	}

	if len(params) == 1 {
		modes, args := c.ModeString()
		s.numericParams(u, rplChannelModeIs, append([]string{c.Name, modes}, args...))
		s.numericParams(u, rplCreationTime, []string{c.Name, strconv.FormatInt(c.CreatedTime.Unix(), 10)})
		return nil
	}

	modestring := params[1]
	extraArgs := params[2:]

	if modestring == "b" && len(extraArgs) == 0 {
		for _, mask := range c.Bans {
			s.numericParams(u, rplBanList, []string{c.Name, mask})
		}
		s.numericText(u, rplEndOfBanList, []string{c.Name}, "End of channel ban list")
		return nil
	}

	if !c.IsOp(u) {
		return ircerr.New(ircerr.ChanOPrivsNeeded, name)
	}

	argIdx := 0
	nextArg := func() (string, bool) {
		if argIdx >= len(extraArgs) {
			return "", false
		}
		v := extraArgs[argIdx]
		argIdx++
		return v, true
	}

	var applied strings.Builder
	var appliedArgs []string
	adding := true

	for i := 0; i < len(modestring); i++ {
		letter := modestring[i]
		switch letter {
		case '+':
			adding = true
			continue
		case '-':
			adding = false
			continue
		}

		usedArg := ""
		hadArg := false

		switch letter {
		case 'i':
			c.InviteOnly = adding
		case 't':
			c.TopicLocked = adding
		case 's':
			c.Secret = adding
		case 'm':
			c.Moderated = adding
		case 'k':
			arg, ok := nextArg()
			if !ok {
				continue
			}
			usedArg, hadArg = arg, true
			if adding {
				c.Keyed = true
				c.Key = arg
			} else {
				c.Keyed = false
				c.Key = ""
			}
		case 'l':
			if adding {
				arg, ok := nextArg()
				if !ok {
					continue
				}
				n, err := strconv.Atoi(arg)
				if err != nil || n < 1 {
					continue
				}
				c.Limited = true
				c.Limit = n
				usedArg, hadArg = arg, true
			} else {
				c.Limited = false
				c.Limit = 0
			}
		case 'o', 'v':
			nick, ok := nextArg()
			if !ok {
				continue
			}
			target := s.registry.FindUser(nick)
			if target == nil || !c.IsMember(target) {
				s.sendProtocolError(u, ircerr.NewWithExtra(ircerr.UserNotInChannel, nick, c.Name))
				continue
			}
			mem := c.Members[target.ID]
			if letter == 'o' {
				mem.Op = adding
			} else {
				mem.Voice = adding
			}
			usedArg, hadArg = target.Nick, true
		case 'b':
			mask, ok := nextArg()
			if !ok {
				continue
			}
			if adding {
				c.Bans = append(c.Bans, mask)
			} else {
				for idx, existing := range c.Bans {
					if existing == mask {
						c.Bans = append(c.Bans[:idx], c.Bans[idx+1:]...)
						break
					}
				}
			}
			usedArg, hadArg = mask, true
		default:
			s.sendProtocolError(u, ircerr.New(ircerr.UnknownMode, string(letter)))
			continue
		}

		sign := byte('+')
		if !adding {
			sign = '-'
		}
		applied.WriteByte(sign)
		applied.WriteByte(letter)
		if hadArg {
			appliedArgs = append(appliedArgs, usedArg)
		}
	}

	if applied.Len() == 0 {
		return nil
	}

	broadcastParams := []string{c.Name, applied.String()}
	broadcastParams = append(broadcastParams, appliedArgs...)
	s.sendToChannelAll(c, ircmsg.Message{Prefix: u.Hostmask(), Command: "MODE", Params: broadcastParams})
	return nil
}
