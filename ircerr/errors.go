// Package ircerr implements the closed set of RFC 1459 protocol errors a
// command handler can raise. Handlers return one of these instead of an
// ordinary error; the dispatcher renders whichever variant it gets back
// without needing to know anything about the handler that produced it.
//
// This replaces a dynamic-dispatch exception hierarchy (one subclass per
// numeric, each overriding a render method) with a single sum type and one
// render function that switches on Kind. The set of Kinds is closed: adding
// a new protocol error means adding a case to each switch here. The switches
// have default branches, so a Kind missing from one of them renders as 400
// with "Unknown error" (or no params) rather than failing to compile.
package ircerr

import "fmt"

// Kind identifies which RFC numeric a ProtocolError renders as.
type Kind int

// The closed set of protocol errors this server can raise. Names follow the
// RFC 1459 ERR_* mnemonics.
const (
	NoSuchNick Kind = iota
	NoSuchChannel
	CannotSendToChan
	NoRecipient
	NoTextToSend
	UnknownCommand
	ErroneousNickname
	NicknameInUse
	UserNotInChannel
	NotOnChannel
	NotRegistered
	NeedMoreParams
	AlreadyRegistered
	PasswdMismatch
	ChannelIsFull
	InviteOnlyChan
	BadChannelKey
	BannedFromChan
	BadChanMask
	NoOrigin
	NoNicknameGiven
	UserOnChannel
	ChanOPrivsNeeded
	UModeUnknownFlag
	UsersDontMatch
	UnknownMode
	NoPrivileges
)

// ProtocolError is the closed tagged variant. Each Kind uses only the
// fields it needs; the zero value of unused fields is never rendered.
type ProtocolError struct {
	Kind Kind

	// Target is whatever the offending command referred to: a nick, a
	// channel name, or (for UnknownCommand/NeedMoreParams) the command
	// token itself.
	Target string

	// Extra carries a second positional argument a few numerics need (e.g.
	// the channel name alongside a nick for ERR_USERONCHANNEL).
	Extra string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error %d for %q", e.Numeric(), e.Target)
}

// Numeric returns the three digit RFC 1459 code for this error.
func (e *ProtocolError) Numeric() int {
	switch e.Kind {
	case NoSuchNick:
		return 401
	case NoSuchChannel:
		return 403
	case CannotSendToChan:
		return 404
	case NoRecipient:
		return 411
	case NoTextToSend:
		return 412
	case UnknownCommand:
		return 421
	case NoNicknameGiven:
		return 431
	case ErroneousNickname:
		return 432
	case NicknameInUse:
		return 433
	case UserOnChannel:
		return 443
	case UserNotInChannel:
		return 441
	case NotOnChannel:
		return 442
	case NotRegistered:
		return 451
	case NeedMoreParams:
		return 461
	case AlreadyRegistered:
		return 462
	case PasswdMismatch:
		return 464
	case BadChannelKey:
		return 475
	case ChannelIsFull:
		return 471
	case InviteOnlyChan:
		return 473
	case BannedFromChan:
		return 474
	case BadChanMask:
		return 476
	case NoOrigin:
		return 409
	case ChanOPrivsNeeded:
		return 482
	case UModeUnknownFlag:
		return 501
	case UsersDontMatch:
		return 502
	case UnknownMode:
		return 472
	case NoPrivileges:
		return 481
	default:
		return 400
	}
}

// Params returns the numeric's parameters, not counting the leading nick
// that the reply writer always prepends and not counting the trailing
// human-readable text (returned separately by Text).
func (e *ProtocolError) Params() []string {
	switch e.Kind {
	case NoSuchNick, NoSuchChannel, CannotSendToChan, ErroneousNickname,
		NicknameInUse, NotOnChannel, BadChannelKey, ChannelIsFull,
		InviteOnlyChan, BannedFromChan, BadChanMask, ChanOPrivsNeeded, UnknownMode:
		return []string{e.Target}
	case UserNotInChannel, UserOnChannel:
		return []string{e.Target, e.Extra}
	case UnknownCommand, NeedMoreParams:
		return []string{e.Target}
	default:
		return nil
	}
}

// Text returns the trailing human readable text for this numeric.
func (e *ProtocolError) Text() string {
	switch e.Kind {
	case NoSuchNick:
		return "No such nick/channel"
	case NoSuchChannel:
		return "No such channel"
	case CannotSendToChan:
		return "Cannot send to channel"
	case NoRecipient:
		return "No recipient given"
	case NoTextToSend:
		return "No text to send"
	case UnknownCommand:
		return "Unknown command"
	case NoNicknameGiven:
		return "No nickname given"
	case ErroneousNickname:
		return "Erroneous nickname"
	case NicknameInUse:
		return "Nickname is already in use"
	case UserNotInChannel:
		return "They aren't on that channel"
	case UserOnChannel:
		return "is already on channel"
	case NotOnChannel:
		return "You're not on that channel"
	case NotRegistered:
		return "You have not registered"
	case NeedMoreParams:
		return "Not enough parameters"
	case AlreadyRegistered:
		return "Unauthorized command (already registered)"
	case PasswdMismatch:
		return "Password incorrect"
	case BadChannelKey:
		return "Cannot join channel (+k)"
	case ChannelIsFull:
		return "Cannot join channel (+l)"
	case InviteOnlyChan:
		return "Cannot join channel (+i)"
	case BannedFromChan:
		return "Cannot join channel (+b)"
	case BadChanMask:
		return "Bad Channel Mask"
	case NoOrigin:
		return "No origin specified"
	case ChanOPrivsNeeded:
		return "You're not channel operator"
	case UModeUnknownFlag:
		return "Unknown MODE flag"
	case UsersDontMatch:
		return "Cannot change mode for other users"
	case UnknownMode:
		return "is unknown mode char to me"
	case NoPrivileges:
		return "Permission Denied- You're not an IRC operator"
	default:
		return "Unknown error"
	}
}

// New constructs a ProtocolError of the given kind with a single target
// (the common case).
func New(kind Kind, target string) *ProtocolError {
	return &ProtocolError{Kind: kind, Target: target}
}

// NewWithExtra constructs a ProtocolError carrying a second positional
// argument, for the handful of numerics that need one.
func NewWithExtra(kind Kind, target, extra string) *ProtocolError {
	return &ProtocolError{Kind: kind, Target: target, Extra: extra}
}
