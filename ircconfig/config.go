// Package ircconfig resolves the server's runtime configuration from CLI
// arguments, environment variables, and an optional extended config file.
package ircconfig

import (
	"strconv"
	"time"

	"github.com/horgh/config"
	"github.com/pkg/errors"
)

// Config holds everything the server needs to run. ServerName through
// Opers come from the optional -conf file (or defaults); Port and
// Password come from the CLI/environment contract in spec section 6.
type Config struct {
	Port     int
	Password string

	ServerName  string
	ServerInfo  string
	Version     string
	CreatedDate string
	MOTD        string

	MaxNickLength int
	MaxChannelLen int
	MaxTopicLen   int

	// PingTime is how long a registered connection may be idle before the
	// server sends it a PING (T1 in spec section 5).
	PingTime time.Duration

	// DeadTime is how long after a PING goes unanswered before the
	// connection is torn down with "Ping timeout" (T2 in spec section 5).
	DeadTime time.Duration

	// SendQueueLimit bounds a user's pending output buffer in bytes.
	SendQueueLimit int

	// RecvQueueLimit bounds a user's pending, unterminated input in bytes.
	RecvQueueLimit int

	// Opers maps oper name to password, for the OPER command.
	Opers map[string]string
}

// Defaults returns a Config with every non-identity field set to the value
// this server ships with when no -conf file is given.
func Defaults() *Config {
	return &Config{
		ServerName:     "irc.relaycore.local",
		ServerInfo:     "relaycore ircd",
		Version:        "relaycore-0.1",
		CreatedDate:    "unknown",
		MOTD:           "Welcome to relaycore.",
		MaxNickLength:  9,
		MaxChannelLen:  50,
		MaxTopicLen:    300,
		PingTime:       90 * time.Second,
		DeadTime:       30 * time.Second,
		SendQueueLimit: 64 * 1024,
		RecvQueueLimit: 4 * 1024,
		Opers:          map[string]string{},
	}
}

// ResolvePort determines the listening port from (in priority order) the
// CLI argument, then the PORT environment variable, per spec section 6.
func ResolvePort(cliArg, envVal string) (int, error) {
	raw := cliArg
	if raw == "" {
		raw = envVal
	}
	if raw == "" {
		return 0, errors.New("no port given on the command line or in PORT")
	}

	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "port %q is not a number", raw)
	}
	if port < 1 || port > 65535 {
		return 0, errors.Errorf("port %d is out of range 1-65535", port)
	}
	return port, nil
}

// ResolvePassword determines the connection password from the CLI argument
// or the PASSWORD environment variable. cliGiven distinguishes "the flag
// was passed, possibly as an empty string" from "the flag was omitted
// entirely", since an explicit empty password is valid per spec section 6.
func ResolvePassword(cliArg string, cliGiven bool, envVal string, envGiven bool) (string, error) {
	if cliGiven {
		return cliArg, nil
	}
	if envGiven {
		return envVal, nil
	}
	return "", errors.New("no password given on the command line or in PASSWORD")
}

// LoadFile reads extended settings (server identity, MOTD, timeouts, opers)
// from a key=value config file, in the same format the teacher's config
// loader uses, copying each recognized key into cfg by hand. max-nick-length
// is stored in MaxNickLength, but nick validation and the NICKLEN token do
// not read that field. Any key not present in the file keeps its Defaults()
// value, since callers start from a Defaults()-initialized Config before
// calling LoadFile.
func LoadFile(path string, cfg *Config) error {
	raw, err := config.ReadStringMap(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}

	if v, ok := raw["server-name"]; ok && v != "" {
		cfg.ServerName = v
	}
	if v, ok := raw["server-info"]; ok && v != "" {
		cfg.ServerInfo = v
	}
	if v, ok := raw["version"]; ok && v != "" {
		cfg.Version = v
	}
	if v, ok := raw["created-date"]; ok && v != "" {
		cfg.CreatedDate = v
	}
	if v, ok := raw["motd"]; ok && v != "" {
		cfg.MOTD = v
	}
	if v, ok := raw["max-nick-length"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "max-nick-length")
		}
		cfg.MaxNickLength = n
	}
	if v, ok := raw["ping-time"]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "ping-time")
		}
		cfg.PingTime = d
	}
	if v, ok := raw["dead-time"]; ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "dead-time")
		}
		cfg.DeadTime = d
	}
	if v, ok := raw["opers-config"]; ok && v != "" {
		opers, err := config.ReadStringMap(v)
		if err != nil {
			return errors.Wrap(err, "reading opers-config")
		}
		cfg.Opers = opers
	}

	return nil
}
