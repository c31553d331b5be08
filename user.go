package main

import "time"

// RegState is a User's position in the registration lifecycle (spec
// section 3).
type RegState int

// The registration states a connection passes through, in order, on the
// way to full registration (with QuittingSoon reachable from any state).
const (
	AwaitingPass RegState = iota
	AwaitingNickUser
	Registered
	QuittingSoon
)

// maxNickLength is the spec's nickname length cap (section 8, boundary
// behaviors: 9 accepted, 10 rejected).
const maxNickLength = 9

// User is the per-connection session the spec describes: identity,
// registration state, channel memberships, and a pending output buffer.
// It carries a stable integer id, which Channel uses as the key of its
// Members map; each Member still holds a pointer back to the User, and
// Memberships holds pointers to the Channels.
type User struct {
	ID int64

	RemoteHost string
	State      RegState

	Nick         string
	Username     string
	Realname     string
	PassAccepted bool

	LastActivity time.Time
	PingCookie   string    // non-empty while a PING is outstanding
	PingSentAt   time.Time // when PingCookie was sent

	Invisible bool // user mode i
	Wallops   bool // user mode w
	Notices   bool // user mode s
	Oper      bool // user mode o, server-grant-only

	Away        bool
	AwayMessage string

	// SendQBytes tracks this user's current output-buffer depth in bytes
	// against the server's SendQueueLimit (spec section 5's backpressure
	// rule). SendQExceeded latches once the cap is hit so a connection
	// already scheduled for teardown isn't re-queued onto.
	SendQBytes    int
	SendQExceeded bool

	// Memberships indexes the channels u belongs to by casefolded name.
	// Kept symmetric with each Channel's Members map by
	// Channel.AddMember/RemoveMember.
	Memberships map[string]*Channel
}

// NewUser creates a User in the initial AwaitingPass state.
func NewUser(id int64, remoteHost string) *User {
	return &User{
		ID:           id,
		RemoteHost:   remoteHost,
		State:        AwaitingPass,
		LastActivity: time.Now(),
		Memberships:  map[string]*Channel{},
	}
}

// Hostmask renders the nick!user@host prefix used as the source of
// relayed client messages.
func (u *User) Hostmask() string {
	return u.Nick + "!" + u.Username + "@" + u.RemoteHost
}

// DisplayNick returns the user's nick, or "*" for the pre-registration
// placeholder numerics use as a recipient before a nick is chosen.
func (u *User) DisplayNick() string {
	if u.Nick == "" {
		return "*"
	}
	return u.Nick
}

// UserModeString renders the set of user modes currently in effect, for
// RPL_UMODEIS (221).
func (u *User) UserModeString() string {
	s := "+"
	if u.Invisible {
		s += "i"
	}
	if u.Wallops {
		s += "w"
	}
	if u.Notices {
		s += "s"
	}
	if u.Oper {
		s += "o"
	}
	return s
}

// IsOpOn reports whether u is a channel operator on c.
func (u *User) IsOpOn(c *Channel) bool {
	return c.IsOp(u)
}
