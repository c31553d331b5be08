package ircmsg

import "testing"

func TestSourceNick(t *testing.T) {
	tests := []struct {
		input  Message
		output string
	}{
		{Message{}, ""},
		{Message{Prefix: "blah"}, "blah"},
		{Message{Prefix: "!"}, ""},
		{Message{Prefix: "hi!"}, "hi"},
		{Message{Prefix: "hi!~hello@hey"}, "hi"},
		{Message{Prefix: "hi@hey"}, "hi"},
	}

	for _, test := range tests {
		got := test.input.SourceNick()
		if got != test.output {
			t.Errorf("%+v.SourceNick() = %s, wanted %s", test.input, got, test.output)
		}
	}
}

func TestAllParams(t *testing.T) {
	m := Message{Params: []string{"#chat"}, Trailing: "hi there", HasTrailing: true}
	got := m.AllParams()
	want := []string{"#chat", "hi there"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("AllParams() = %v, wanted %v", got, want)
	}

	m2 := Message{Params: []string{"#chat"}}
	got2 := m2.AllParams()
	if len(got2) != 1 || got2[0] != "#chat" {
		t.Errorf("AllParams() = %v, wanted [#chat]", got2)
	}
}
