package main

import (
	"io"
	"net"

	"github.com/relaycore/ircd/ircmsg"
)

// connHandle is the I/O side of one connection. Its socket is driven by a
// readLoop/writeLoop goroutine pair; the event-loop goroutine is the only
// one that decides what gets written or how a parsed message is acted on,
// matching the teacher's local_client.go split between "move bytes" and
// "interpret bytes" responsibilities.
type connHandle struct {
	id   int64
	conn net.Conn

	// sendCh is drained by writeLoop. The event loop pushes onto it with a
	// non-blocking select; a full channel means the connection's send-q is
	// already as deep as this implementation lets it get and the event
	// loop tracks the overflow itself (see Server.queueLine).
	sendCh chan []byte
}

// newConnHandle wires up a connHandle and starts its reader/writer
// goroutines, both of which report everything they observe back to events
// so that all state mutation still happens on the single event-loop
// goroutine.
func newConnHandle(id int64, conn net.Conn, recvQueueLimit int, events chan<- event) *connHandle {
	h := &connHandle{
		id:     id,
		conn:   conn,
		sendCh: make(chan []byte, 256),
	}
	go readLoop(id, conn, recvQueueLimit, events)
	go writeLoop(id, conn, h.sendCh, events)
	return h
}

// readLoop reads off the socket, frames complete lines, parses each into a
// Message, and hands successfully parsed messages to the event loop.
// Malformed individual lines are discarded silently, matching the parser's
// leniency for empty/unparseable input (spec section 4.1); a framing
// overflow or socket error ends the loop and reports it once.
func readLoop(id int64, conn net.Conn, recvQueueLimit int, events chan<- event) {
	framer := ircmsg.NewFramer(recvQueueLimit)
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if ferr := framer.Feed(buf[:n]); ferr != nil {
				events <- evReadClosed{id: id, err: ferr}
				return
			}
			for {
				line, ok := framer.Next()
				if !ok {
					break
				}
				if len(line) == 0 {
					continue
				}
				msg, perr := ircmsg.ParseLine(line)
				if perr != nil {
					continue
				}
				events <- evInboundMessage{id: id, msg: msg}
			}
		}
		if err != nil {
			events <- evReadClosed{id: id, err: err}
			return
		}
	}
}

// writeLoop drains sendCh and writes each chunk to the socket in order,
// reporting how many bytes it flushed so the event loop can keep its
// send-q accounting current.
func writeLoop(id int64, conn net.Conn, sendCh <-chan []byte, events chan<- event) {
	for chunk := range sendCh {
		n, err := conn.Write(chunk)
		events <- evWriteFlushed{id: id, n: n}
		if err != nil {
			events <- evWriteClosed{id: id, err: err}
			return
		}
	}
	events <- evWriteClosed{id: id, err: io.EOF}
}

// acceptLoop accepts connections until the listener is closed, handing
// each one to the event loop as an evNewConn.
func acceptLoop(ln net.Listener, events chan<- event) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			events <- evAcceptError{err: err}
			return
		}
		events <- evNewConn{conn: conn}
	}
}
