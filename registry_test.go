package main

import "testing"

func TestRegistryNickCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	u := NewUser(1, "host")
	u.Nick = "Alice"
	r.BindNick(u, "Alice")

	if got := r.FindUser("ALICE"); got != u {
		t.Fatalf("FindUser(ALICE) = %v, wanted %v", got, u)
	}
	if got := r.FindUser("alice"); got != u {
		t.Fatalf("FindUser(alice) = %v, wanted %v", got, u)
	}
}

func TestRegistryUnbindNick(t *testing.T) {
	r := NewRegistry()
	u := NewUser(1, "host")
	r.BindNick(u, "bob")
	r.UnbindNick("BOB")
	if got := r.FindUser("bob"); got != nil {
		t.Fatalf("FindUser(bob) after unbind = %v, wanted nil", got)
	}
}

func TestGetOrCreateChannelReusesExisting(t *testing.T) {
	r := NewRegistry()
	c1, created1 := r.GetOrCreateChannel("#dev")
	if !created1 {
		t.Fatal("expected first GetOrCreateChannel to create")
	}
	c2, created2 := r.GetOrCreateChannel("#DEV")
	if created2 {
		t.Fatal("expected second GetOrCreateChannel to find existing")
	}
	if c1 != c2 {
		t.Fatal("GetOrCreateChannel should be case-insensitive")
	}
}

func TestDestroyIfEmptyRemovesChannel(t *testing.T) {
	r := NewRegistry()
	c, _ := r.GetOrCreateChannel("#dev")
	u := NewUser(1, "host")
	c.AddMember(u, true)

	r.DestroyIfEmpty(c)
	if r.FindChannel("#dev") == nil {
		t.Fatal("channel with a member should not be destroyed")
	}

	c.RemoveMember(u)
	r.DestroyIfEmpty(c)
	if r.FindChannel("#dev") != nil {
		t.Fatal("empty channel should be removed from the registry")
	}
}
