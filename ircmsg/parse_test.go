package ircmsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		prefix      string
		command     string
		params      []string
		trailing    string
		hasTrailing bool
		success     bool
	}{
		{"prefix and bare command", ":irc PRIVMSG", "irc", "PRIVMSG", nil, "", false, true},
		{"no prefix", "PRIVMSG", "", "PRIVMSG", nil, "", false, true},
		{"trailing only", "PRIVMSG :hi there", "", "PRIVMSG", nil, "hi there", true, true},
		{"empty prefix", ": PRIVMSG", "", "", nil, "", false, false},
		{"no command after prefix", ":irc", "", "", nil, "", false, false},
		{"middle and trailing", ":irc PRIVMSG #chat :hi there", "irc", "PRIVMSG", []string{"#chat"}, "hi there", true, true},
		{"numeric command", ":irc 001 nick :Welcome", "irc", "001", []string{"nick"}, "Welcome", true, true},
		{"no params", ":irc 001", "irc", "001", nil, "", false, true},
		{"empty trailing is preserved", "PRIVMSG #chat :", "", "PRIVMSG", []string{"#chat"}, "", true, true},
		{"invalid command char", ":irc @01", "", "", nil, "", false, false},
		{"empty command", "", "", "", nil, "", false, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := ParseLine([]byte(test.input))
			if !test.success {
				require.Error(t, err, "input %q", test.input)
				return
			}
			require.NoError(t, err, "input %q", test.input)
			require.Equal(t, test.prefix, m.Prefix)
			require.Equal(t, test.command, m.Command)
			require.Equal(t, test.params, m.Params)
			require.Equal(t, test.trailing, m.Trailing)
			require.Equal(t, test.hasTrailing, m.HasTrailing)
		})
	}
}

// A line with more than 14 middle parameters is not rejected: per the
// grammar ParseLine documents, the 15th parameter and everything after it
// become Trailing.
func TestParseLineTooManyParams(t *testing.T) {
	m, err := ParseLine([]byte("CMD 1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16"))
	require.NoError(t, err)
	require.Len(t, m.Params, MaxParams-1)
	require.Equal(t, "15 16", m.Trailing)
	require.True(t, m.HasTrailing)
}

func TestParseSerializeRoundTrip(t *testing.T) {
	m := Message{
		Prefix:      "alice!alice@host",
		Command:     "PRIVMSG",
		Params:      []string{"#chat"},
		Trailing:    "hello world",
		HasTrailing: true,
	}

	encoded, err := m.Encode()
	require.NoError(t, err)

	parsed, err := ParseLine([]byte(encoded[:len(encoded)-2]))
	require.NoError(t, err)
	require.Equal(t, m, parsed)
}

func TestFramer(t *testing.T) {
	f := NewFramer(4096)
	require.NoError(t, f.Feed([]byte("NICK alice\r\nUSER a 0 *")))

	line, ok := f.Next()
	require.True(t, ok)
	require.Equal(t, "NICK alice", string(line))

	_, ok = f.Next()
	require.False(t, ok, "partial line without terminator should not yield")

	require.NoError(t, f.Feed([]byte(" :Alice\r\n")))
	line, ok = f.Next()
	require.True(t, ok)
	require.Equal(t, "USER a 0 * :Alice", string(line))
}

func TestFramerBareLF(t *testing.T) {
	f := NewFramer(4096)
	require.NoError(t, f.Feed([]byte("PING hi\n")))
	line, ok := f.Next()
	require.True(t, ok)
	require.Equal(t, "PING hi", string(line))
}

func TestFramerOverflow(t *testing.T) {
	f := NewFramer(8)
	err := f.Feed([]byte("123456789"))
	require.ErrorIs(t, err, ErrPendingOverflow)
}

func TestFramerTruncatesOversizedLine(t *testing.T) {
	f := NewFramer(4096)
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'a'
	}
	require.NoError(t, f.Feed(long))
	require.NoError(t, f.Feed([]byte("\r\n")))
	line, ok := f.Next()
	require.True(t, ok)
	require.Len(t, line, MaxLineLength-2)
}
