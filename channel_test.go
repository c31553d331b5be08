package main

import "testing"

func TestChannelMembershipInvariant(t *testing.T) {
	c := NewChannel("#dev")
	u := NewUser(1, "host")

	c.AddMember(u, true)
	if !c.IsMember(u) {
		t.Fatal("AddMember should make IsMember true")
	}
	if _, ok := u.Memberships["#dev"]; !ok {
		t.Fatal("AddMember should record the symmetric membership on User")
	}
	if !c.IsOp(u) {
		t.Fatal("first joiner should be granted operator")
	}

	c.RemoveMember(u)
	if c.IsMember(u) {
		t.Fatal("RemoveMember should make IsMember false")
	}
	if _, ok := u.Memberships["#dev"]; ok {
		t.Fatal("RemoveMember should clear the symmetric membership on User")
	}
}

func TestChannelMemberOrderIsDeterministic(t *testing.T) {
	c := NewChannel("#dev")
	a, b, d := NewUser(1, "h"), NewUser(2, "h"), NewUser(3, "h")
	c.AddMember(a, true)
	c.AddMember(b, false)
	c.AddMember(d, false)

	order := c.MembersInOrder()
	if len(order) != 3 || order[0].User != a || order[1].User != b || order[2].User != d {
		t.Fatalf("expected join order a,b,d; got %v", order)
	}

	c.RemoveMember(b)
	order = c.MembersInOrder()
	if len(order) != 2 || order[0].User != a || order[1].User != d {
		t.Fatalf("expected order a,d after removing b; got %v", order)
	}
}

func TestBanMaskMatching(t *testing.T) {
	c := NewChannel("#dev")
	c.Bans = []string{"*!*@banned.example.com"}

	if !c.MatchesBan("alice!alice@banned.example.com") {
		t.Fatal("expected hostmask to match ban")
	}
	if c.MatchesBan("alice!alice@ok.example.com") {
		t.Fatal("expected hostmask not to match unrelated host")
	}
}

func TestModeStringReflectsFlags(t *testing.T) {
	c := NewChannel("#dev")
	c.InviteOnly = true
	c.Keyed = true
	c.Key = "secret"
	c.Limited = true
	c.Limit = 10

	modes, args := c.ModeString()
	if modes != "+inkl" {
		t.Fatalf("ModeString() = %q, wanted +inkl", modes)
	}
	if len(args) != 2 || args[0] != "secret" || args[1] != "10" {
		t.Fatalf("ModeString() args = %v, wanted [secret 10]", args)
	}
}
