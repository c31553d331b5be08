package main

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relaycore/ircd/ircconfig"
)

// startTestServer boots a real, listening Server on an OS-assigned port,
// mirroring the teacher's tests/mode_test.go approach of dialing a real
// TCP server rather than calling internals directly. t.Cleanup shuts it
// down once the test finishes.
func startTestServer(t *testing.T, password string) string {
	t.Helper()
	cfg := ircconfig.Defaults()
	cfg.Port = 0
	cfg.Password = password
	cfg.PingTime = time.Hour
	cfg.DeadTime = time.Hour

	srv := NewServer(cfg)
	require.NoError(t, srv.Listen())
	addr := srv.Addr().String()

	go srv.Serve()
	t.Cleanup(func() { srv.Shutdown("test complete") })

	return addr
}

type testClient struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
}

func dialTestClient(t *testing.T, addr string) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &testClient{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *testClient) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\r\n"))
	require.NoError(c.t, err)
}

func (c *testClient) expectLine() string {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := c.r.ReadString('\n')
	require.NoError(c.t, err)
	return line
}

func (c *testClient) expectContains(substr string) string {
	c.t.Helper()
	for i := 0; i < 50; i++ {
		line := c.expectLine()
		if strings.Contains(line, substr) {
			return line
		}
	}
	c.t.Fatalf("never saw a line containing %q", substr)
	return ""
}

// TestRegistrationHappyPath is spec scenario 1: PASS/NICK/USER yields the
// welcome numeric block.
func TestRegistrationHappyPath(t *testing.T) {
	addr := startTestServer(t, "secret")
	c := dialTestClient(t, addr)

	c.send("PASS secret")
	c.send("NICK alice")
	c.send("USER alice 0 * :Alice")

	c.expectContains(" 001 alice")
}

// TestNickCollision is spec scenario 2: a second connection claiming an
// in-use nick is rejected with a 433 line naming that nick.
func TestNickCollision(t *testing.T) {
	addr := startTestServer(t, "secret")

	first := dialTestClient(t, addr)
	first.send("PASS secret")
	first.send("NICK bob")
	first.send("USER bob 0 * :Bob")
	first.expectContains(" 001 bob")

	second := dialTestClient(t, addr)
	second.send("PASS secret")
	second.send("NICK bob")
	line := second.expectContains(" 433 ")
	require.Contains(t, line, "bob")
}

// TestChannelMessageFanOut is spec scenario 4: alice's PRIVMSG to #chat is
// relayed to bob, the other member.
func TestChannelMessageFanOut(t *testing.T) {
	addr := startTestServer(t, "secret")

	alice := dialTestClient(t, addr)
	alice.send("PASS secret")
	alice.send("NICK alice")
	alice.send("USER alice 0 * :Alice")
	alice.expectContains(" 001 alice")
	alice.send("JOIN #chat")
	alice.expectContains("366")

	bob := dialTestClient(t, addr)
	bob.send("PASS secret")
	bob.send("NICK bob")
	bob.send("USER bob 0 * :Bob")
	bob.expectContains(" 001 bob")
	bob.send("JOIN #chat")
	bob.expectContains("366")
	alice.expectContains("JOIN") // alice sees bob's join broadcast

	alice.send("PRIVMSG #chat :hi")
	line := bob.expectContains("PRIVMSG #chat")
	require.Contains(t, line, "hi")
}
