package ircerr

import "testing"

func TestNumeric(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{NoSuchNick, 401},
		{NoSuchChannel, 403},
		{CannotSendToChan, 404},
		{NoRecipient, 411},
		{NoTextToSend, 412},
		{UnknownCommand, 421},
		{ErroneousNickname, 432},
		{NicknameInUse, 433},
		{UserNotInChannel, 441},
		{NotOnChannel, 442},
		{NotRegistered, 451},
		{NeedMoreParams, 461},
		{AlreadyRegistered, 462},
		{PasswdMismatch, 464},
		{ChannelIsFull, 471},
		{UnknownMode, 472},
		{InviteOnlyChan, 473},
		{BannedFromChan, 474},
		{BadChannelKey, 475},
		{BadChanMask, 476},
		{ChanOPrivsNeeded, 482},
		{UModeUnknownFlag, 501},
		{UsersDontMatch, 502},
	}

	for _, test := range tests {
		e := New(test.kind, "x")
		if got := e.Numeric(); got != test.want {
			t.Errorf("Kind %d Numeric() = %d, wanted %d", test.kind, got, test.want)
		}
	}
}

func TestParamsIncludesExtra(t *testing.T) {
	e := NewWithExtra(UserOnChannel, "bob", "#chat")
	params := e.Params()
	if len(params) != 2 || params[0] != "bob" || params[1] != "#chat" {
		t.Errorf("Params() = %v, wanted [bob #chat]", params)
	}
}
