package main

// Registry holds the two process-wide indices the spec describes: nickname
// to User and channel name to Channel, both keyed by casefold(name) so
// lookup and uniqueness are case-insensitive per RFC 1459 casemapping.
//
// A Channel's Members map is keyed by user id and each *Member holds a
// pointer to its User; a User's Memberships map is keyed by casefolded
// channel name and holds pointers to its Channels. Users and Channels
// therefore refer to each other directly, not through this Registry. Both
// sides are updated together by Channel.AddMember/RemoveMember so they can
// never drift out of sync.
type Registry struct {
	nicks    map[string]*User
	channels map[string]*Channel
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		nicks:    map[string]*User{},
		channels: map[string]*Channel{},
	}
}

// FindUser looks up a User by nickname, case-insensitively. It returns nil
// if no such user is registered.
func (r *Registry) FindUser(nick string) *User {
	return r.nicks[casefold(nick)]
}

// FindChannel looks up a Channel by name, case-insensitively. It returns
// nil if the channel does not currently exist.
func (r *Registry) FindChannel(name string) *Channel {
	return r.channels[casefold(name)]
}

// BindNick claims a nickname for u, replacing any prior binding for that
// exact casefolded form. Callers must have already checked for collision.
func (r *Registry) BindNick(u *User, nick string) {
	r.nicks[casefold(nick)] = u
}

// UnbindNick releases a nickname, if held.
func (r *Registry) UnbindNick(nick string) {
	delete(r.nicks, casefold(nick))
}

// GetOrCreateChannel returns the channel with the given name, creating it
// if it does not exist. created is true iff a new Channel was allocated.
func (r *Registry) GetOrCreateChannel(name string) (c *Channel, created bool) {
	cf := casefold(name)
	if existing, ok := r.channels[cf]; ok {
		return existing, false
	}
	c = NewChannel(name)
	r.channels[cf] = c
	return c, true
}

// DestroyIfEmpty removes c from the registry if it has no members left,
// enforcing the invariant that no channel with an empty member set exists
// in the registry.
func (r *Registry) DestroyIfEmpty(c *Channel) {
	if len(c.Members) == 0 {
		delete(r.channels, casefold(c.Name))
	}
}

// AllUsers returns every registered user, in no particular order. Used by
// LUSERS/WHO-style aggregate queries.
func (r *Registry) AllUsers() []*User {
	out := make([]*User, 0, len(r.nicks))
	for _, u := range r.nicks {
		out = append(out, u)
	}
	return out
}

// AllChannels returns every channel currently tracked by the registry.
func (r *Registry) AllChannels() []*Channel {
	out := make([]*Channel, 0, len(r.channels))
	for _, c := range r.channels {
		out = append(out, c)
	}
	return out
}

// ChannelCount reports how many channels currently exist.
func (r *Registry) ChannelCount() int {
	return len(r.channels)
}
