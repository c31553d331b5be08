package main

import (
	"strconv"
	"strings"
	"time"
)

// maxChannelNameLength is the spec's channel name cap (section 3).
const maxChannelNameLength = 50

// maxTopicLength bounds TOPIC text, a domain-expansion ISUPPORT TOPICLEN
// value grounded on the teacher's util.go constant of the same name.
const maxTopicLength = 300

// Member is one user's membership record in a Channel: their flags on that
// channel specifically, since operator/voice status is per-channel, not
// per-user.
type Member struct {
	User  *User
	Op    bool
	Voice bool
}

// Channel is a named group of users, per spec section 3. A Channel's member
// set and each member's backing User.Memberships entry are always updated
// together by AddMember/RemoveMember, which is what keeps the two-sided
// invariant (`c in u.memberships <=> u in c.members`) from drifting.
type Channel struct {
	Name string

	Topic       string
	TopicSetter string
	TopicTime   time.Time
	CreatedTime time.Time

	// Members indexes by user id. MemberOrder fixes a stable iteration
	// order over Members so that broadcasts observe peers in a single
	// deterministic order, per spec section 5's ordering guarantee.
	Members     map[int64]*Member
	MemberOrder []int64

	InviteOnly bool // mode i
	TopicLocked bool // mode t
	Keyed      bool // mode k
	Limited    bool // mode l
	Secret     bool // mode s
	Moderated  bool // mode m, domain expansion

	Key   string
	Limit int

	// Invited holds casefolded nicknames currently permitted to bypass
	// invite-only, consumed on JOIN or dropped on channel destruction.
	Invited map[string]bool

	// Bans holds nick!user@host glob masks, the domain-expansion real
	// implementation of mode b (spec Open Question (a)).
	Bans []string
}

// NewChannel creates an empty channel. Mode n (no-external-messages) is
// always on per spec section 3 and is not tracked as a flag since it never
// varies.
func NewChannel(name string) *Channel {
	return &Channel{
		Name:        name,
		CreatedTime: time.Now(),
		Members:     map[int64]*Member{},
		Invited:     map[string]bool{},
	}
}

// IsMember reports whether u currently belongs to c.
func (c *Channel) IsMember(u *User) bool {
	_, ok := c.Members[u.ID]
	return ok
}

// IsOp reports whether u is a channel operator on c.
func (c *Channel) IsOp(u *User) bool {
	m, ok := c.Members[u.ID]
	return ok && m.Op
}

// IsVoice reports whether u holds voice on c.
func (c *Channel) IsVoice(u *User) bool {
	m, ok := c.Members[u.ID]
	return ok && m.Voice
}

// AddMember adds u to c with the given initial operator flag (true for the
// first joiner per spec section 4.4) and records the symmetric membership
// on u.
func (c *Channel) AddMember(u *User, op bool) {
	if c.IsMember(u) {
		return
	}
	c.Members[u.ID] = &Member{User: u, Op: op}
	c.MemberOrder = append(c.MemberOrder, u.ID)
	u.Memberships[casefold(c.Name)] = c
}

// RemoveMember removes u from c and the symmetric entry on u. It does not
// destroy an emptied channel; callers do that via Registry.DestroyIfEmpty
// once all per-command bookkeeping (broadcasts) has happened.
func (c *Channel) RemoveMember(u *User) {
	if !c.IsMember(u) {
		return
	}
	delete(c.Members, u.ID)
	for i, id := range c.MemberOrder {
		if id == u.ID {
			c.MemberOrder = append(c.MemberOrder[:i], c.MemberOrder[i+1:]...)
			break
		}
	}
	delete(u.Memberships, casefold(c.Name))
}

// MembersInOrder returns the member list in the deterministic join order
// MemberOrder tracks.
func (c *Channel) MembersInOrder() []*Member {
	out := make([]*Member, 0, len(c.MemberOrder))
	for _, id := range c.MemberOrder {
		if m, ok := c.Members[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// ModeString renders the channel's current modes in the +xyz form RPL_CHANNELMODEIS
// (324) and MODE broadcasts use. k and l append their argument.
func (c *Channel) ModeString() (modes string, args []string) {
	var b strings.Builder
	b.WriteByte('+')
	if c.InviteOnly {
		b.WriteByte('i')
	}
	b.WriteByte('n') // always on
	if c.TopicLocked {
		b.WriteByte('t')
	}
	if c.Secret {
		b.WriteByte('s')
	}
	if c.Moderated {
		b.WriteByte('m')
	}
	if c.Keyed {
		b.WriteByte('k')
		args = append(args, c.Key)
	}
	if c.Limited {
		b.WriteByte('l')
		args = append(args, strconv.Itoa(c.Limit))
	}
	return b.String(), args
}

// MatchesBan reports whether hostmask (nick!user@host form) matches any
// ban mask on the channel.
func (c *Channel) MatchesBan(hostmask string) bool {
	for _, mask := range c.Bans {
		if ircGlobMatch(mask, hostmask) {
			return true
		}
	}
	return false
}

// ircGlobMatch matches an IRC ban mask (using '*' and '?' wildcards, as
// RFC 2812 section 3.3 defines for extended bans) against a hostmask,
// case-insensitively per RFC 1459 casemapping.
func ircGlobMatch(pattern, s string) bool {
	pattern = casefold(pattern)
	s = casefold(s)
	return globMatch(pattern, s)
}

// globMatch is a small recursive '*'/'?' matcher; IRC masks never carry
// character classes, so this is simpler than path/filepath's Match and
// doesn't reject on a stray '\' the way that one does.
func globMatch(pattern, s string) bool {
	if pattern == "" {
		return s == ""
	}
	switch pattern[0] {
	case '*':
		if globMatch(pattern[1:], s) {
			return true
		}
		for i := 0; i < len(s); i++ {
			if globMatch(pattern[1:], s[i+1:]) {
				return true
			}
		}
		return false
	case '?':
		if s == "" {
			return false
		}
		return globMatch(pattern[1:], s[1:])
	default:
		if s == "" || s[0] != pattern[0] {
			return false
		}
		return globMatch(pattern[1:], s[1:])
	}
}
