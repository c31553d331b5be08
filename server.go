package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/relaycore/ircd/ircconfig"
	"github.com/relaycore/ircd/ircmsg"
)

// alarmInterval is how often the alarm goroutine wakes the event loop to
// run the idle/ping sweep (spec section 5). It is independent of the
// configured ping/dead times, which set the per-connection thresholds the
// sweep checks against.
const alarmInterval = 5 * time.Second

// Server is the single-threaded event loop's owning context: the
// Registry, every connection's User and connHandle, and the listener.
// This is the "context value threaded through the event loop" the spec's
// redesign notes call for in place of process-wide singletons (spec
// section 9) - one Server is constructed in main and nothing reaches into
// ambient global state to find it.
type Server struct {
	config   *ircconfig.Config
	registry *Registry

	usersByID map[int64]*User
	conns     map[int64]*connHandle
	nextID    int64

	events   chan event
	listener net.Listener

	shuttingDown bool
}

// NewServer constructs a Server. It does not yet listen; call Listen and
// then Serve for that.
func NewServer(cfg *ircconfig.Config) *Server {
	return &Server{
		config:    cfg,
		registry:  NewRegistry(),
		usersByID: map[int64]*User{},
		conns:     map[int64]*connHandle{},
		events:    make(chan event, 256),
	}
}

// Shutdown requests an orderly shutdown (spec section 6): every user is
// disconnected with reason as the QUIT reason, and each connection's output
// is flushed before it closes (see beginShutdown for who receives the QUIT
// lines). Safe to call from outside the event loop goroutine (main's signal
// handler does), since it only enqueues an event.
func (s *Server) Shutdown(reason string) {
	s.events <- evShutdown{reason: reason}
}

// Listen binds the TCP listener. Callers distinguish a bind failure (spec
// section 6 exit code 2) from other runtime failures by calling this
// before Serve.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	s.listener = ln
	log.Printf("listening on %s", ln.Addr())
	return nil
}

// Addr returns the bound listener address. Valid only after Listen
// succeeds; used by tests that bind to port 0 and need the actual port.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve drives the event loop until shutdown completes or an
// unrecoverable accept error occurs. Listen must have succeeded first.
func (s *Server) Serve() error {
	go acceptLoop(s.listener, s.events)
	go alarmLoop(s.events)

	for ev := range s.events {
		if s.handleEvent(ev) {
			break
		}
	}
	return nil
}

// alarmLoop sends a tick into events on a fixed interval until the channel
// closes out from under it (os-level process exit), driving the idle/ping
// sweep spec section 5 describes.
func alarmLoop(events chan<- event) {
	ticker := time.NewTicker(alarmInterval)
	defer ticker.Stop()
	for range ticker.C {
		events <- evAlarmTick{}
	}
}

// handleEvent applies one event to server state. It returns true when the
// event loop should stop (shutdown complete).
func (s *Server) handleEvent(ev event) bool {
	switch e := ev.(type) {
	case evNewConn:
		s.acceptConn(e.conn)

	case evAcceptError:
		if !s.shuttingDown {
			log.Printf("accept error, shutting down: %v", e.err)
			return true
		}

	case evInboundMessage:
		u, ok := s.usersByID[e.id]
		if !ok {
			return false
		}
		u.LastActivity = time.Now()
		s.dispatch(u, e.msg)

	case evReadClosed:
		u, ok := s.usersByID[e.id]
		if !ok {
			return false
		}
		reason := "Connection closed"
		if errors.Is(e.err, ircmsg.ErrPendingOverflow) {
			reason = "RecvQ Exceeded"
		}
		s.disconnectUser(u, reason)

	case evWriteFlushed:
		if u, ok := s.usersByID[e.id]; ok {
			u.SendQBytes -= e.n
			if u.SendQBytes < 0 {
				u.SendQBytes = 0
			}
		}

	case evWriteClosed:
		if conn, ok := s.conns[e.id]; ok {
			conn.conn.Close()
			delete(s.conns, e.id)
		}
		if s.shuttingDown && len(s.conns) == 0 {
			return true
		}

	case evAlarmTick:
		s.sweepTimeouts()

	case evShutdown:
		s.beginShutdown(e.reason)
		if len(s.conns) == 0 {
			return true
		}
	}
	return false
}

func (s *Server) acceptConn(conn net.Conn) {
	s.nextID++
	id := s.nextID

	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}

	state := AwaitingPass
	if s.config.Password == "" {
		state = AwaitingNickUser
	}

	u := NewUser(id, host)
	u.State = state
	s.usersByID[id] = u
	s.conns[id] = newConnHandle(id, conn, s.config.RecvQueueLimit, s.events)

	log.Printf("new connection %d from %s", id, host)
}

// queueLine encodes m and appends it to u's output buffer, enforcing the
// send-q cap (spec section 5's backpressure rule).
func (s *Server) queueLine(u *User, m ircmsg.Message) {
	line, err := m.Encode()
	if err != nil && !errors.Is(err, ircmsg.ErrTruncated) {
		log.Printf("dropping malformed outbound message to user %d: %v", u.ID, err)
		return
	}
	s.enqueueRaw(u, []byte(line))
}

func (s *Server) enqueueRaw(u *User, b []byte) {
	if u.SendQExceeded {
		return
	}
	conn, ok := s.conns[u.ID]
	if !ok {
		return
	}
	if u.SendQBytes+len(b) > s.config.SendQueueLimit {
		u.SendQExceeded = true
		s.disconnectUser(u, "SendQ exceeded")
		return
	}
	select {
	case conn.sendCh <- b:
		u.SendQBytes += len(b)
	default:
		u.SendQExceeded = true
		s.disconnectUser(u, "SendQ exceeded")
	}
}

// disconnectUser tears a user down (spec section 7's session-fatal
// category): broadcast QUIT to every peer sharing a channel (once each,
// even if shared across multiple channels), remove membership everywhere,
// release the nickname, and close the connection after flushing.
func (s *Server) disconnectUser(u *User, reason string) {
	if u.State == QuittingSoon {
		return
	}
	u.State = QuittingSoon

	s.broadcastQuit(u, reason)

	for _, c := range copyMemberships(u) {
		c.RemoveMember(u)
		s.registry.DestroyIfEmpty(c)
	}

	if u.Nick != "" {
		s.registry.UnbindNick(u.Nick)
	}

	delete(s.usersByID, u.ID)

	if conn, ok := s.conns[u.ID]; ok {
		close(conn.sendCh)
	}
}

func copyMemberships(u *User) []*Channel {
	out := make([]*Channel, 0, len(u.Memberships))
	for _, c := range u.Memberships {
		out = append(out, c)
	}
	return out
}

// broadcastQuit sends one QUIT line to every distinct peer u shares a
// channel with, satisfying the scenario 6 dedup requirement (spec section
// 8): a peer in two shared channels with u still sees exactly one QUIT.
func (s *Server) broadcastQuit(u *User, reason string) {
	quitMsg := ircmsg.Message{Prefix: u.Hostmask(), Command: "QUIT", Trailing: reason, HasTrailing: true}
	notified := map[int64]bool{u.ID: true}
	for _, c := range u.Memberships {
		for _, mem := range c.MembersInOrder() {
			if notified[mem.User.ID] {
				continue
			}
			notified[mem.User.ID] = true
			s.send(mem.User, quitMsg)
		}
	}
}

// sweepTimeouts implements spec section 5's idle/ping timer: send a PING
// after PingTime of silence, tear down after DeadTime without a PONG.
func (s *Server) sweepTimeouts() {
	now := time.Now()
	for _, u := range s.usersByID {
		if u.State != Registered {
			continue
		}
		if u.PingCookie != "" {
			if now.Sub(u.PingSentAt) > s.config.DeadTime {
				s.disconnectUser(u, "Ping timeout")
			}
			continue
		}
		if now.Sub(u.LastActivity) > s.config.PingTime {
			u.PingCookie = randomCookie()
			u.PingSentAt = now
			s.send(u, ircmsg.Message{
				Prefix:      s.config.ServerName,
				Command:     "PING",
				Trailing:    u.PingCookie,
				HasTrailing: true,
			})
		}
	}
}

func randomCookie() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("0", 16)
	}
	return hex.EncodeToString(buf)
}

// beginShutdown stops accepting new connections and disconnects every user
// in turn through disconnectUser, with reason as the QUIT reason. Each QUIT
// line goes only to the peers that still share a channel with that user at
// that moment; no user is sent its own QUIT, so a user disconnected before
// all of its peers, or one in no channel, receives no QUIT line. Each
// connection's write queue drains before the event loop exits
// (handleEvent's evWriteClosed case notices when the last connection is
// gone).
func (s *Server) beginShutdown(reason string) {
	if s.shuttingDown {
		return
	}
	s.shuttingDown = true
	log.Printf("shutting down: %s", reason)

	if s.listener != nil {
		s.listener.Close()
	}

	for _, u := range s.allUsersSnapshot() {
		s.disconnectUser(u, reason)
	}
}

func (s *Server) allUsersSnapshot() []*User {
	out := make([]*User, 0, len(s.usersByID))
	for _, u := range s.usersByID {
		out = append(out, u)
	}
	return out
}
