// Command ircd runs the relaycore IRC server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"github.com/relaycore/ircd/ircconfig"
)

// Exit codes per spec section 6.
const (
	exitOK          = 0
	exitBadArgs     = 1
	exitBindFailure = 2
	exitFatalError  = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	confPath := flag.String("conf", "", "optional extended config file (MOTD, timeouts, opers)")
	flag.Usage = printUsage
	flag.Parse()

	cfg := ircconfig.Defaults()
	if *confPath != "" {
		if err := ircconfig.LoadFile(*confPath, cfg); err != nil {
			log.Printf("loading -conf %s: %v", *confPath, err)
			return exitBadArgs
		}
	}

	args := flag.Args()
	portArg, passwordArg, passwordGiven := "", "", false
	if len(args) >= 1 {
		portArg = args[0]
	}
	if len(args) >= 2 {
		passwordArg, passwordGiven = args[1], true
	}

	envPassword, envPasswordGiven := os.LookupEnv("PASSWORD")

	port, err := ircconfig.ResolvePort(portArg, os.Getenv("PORT"))
	if err != nil {
		log.Printf("bad arguments: %v", err)
		printUsage()
		return exitBadArgs
	}
	password, err := ircconfig.ResolvePassword(passwordArg, passwordGiven, envPassword, envPasswordGiven)
	if err != nil {
		log.Printf("bad arguments: %v", err)
		printUsage()
		return exitBadArgs
	}

	cfg.Port = port
	cfg.Password = password

	srv := NewServer(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGINT, unix.SIGTERM)
	go func() {
		sig := <-sigCh
		srv.Shutdown(fmt.Sprintf("Server shutting down (signal %v)", sig))
	}()

	if err := srv.Listen(); err != nil {
		log.Printf("bind failure: %v", err)
		return exitBindFailure
	}
	if err := srv.Serve(); err != nil {
		log.Printf("fatal: %v", err)
		return exitFatalError
	}
	return exitOK
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-conf file] <port> <password>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  port and password may also come from the PORT and PASSWORD environment variables\n")
}
