package main

import (
	"net"

	"github.com/relaycore/ircd/ircmsg"
)

// event is the sum type the single event-loop goroutine consumes in its
// select loop. Everything that can happen to a connection - a new socket,
// a parsed line, a read or write error, a tick of the idle/ping sweep, or
// a shutdown signal - arrives as one of these, so the loop is the only
// place that ever reads or writes registry/channel/user state (spec
// section 5).
type event interface{}

type evNewConn struct {
	conn net.Conn
}

type evAcceptError struct {
	err error
}

type evInboundMessage struct {
	id  int64
	msg ircmsg.Message
}

type evReadClosed struct {
	id  int64
	err error
}

type evWriteFlushed struct {
	id int64
	n  int
}

type evWriteClosed struct {
	id  int64
	err error
}

type evAlarmTick struct{}

type evShutdown struct {
	reason string
}
