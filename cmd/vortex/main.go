// Package main runs the vortex particle field in a window or a terminal.
package main

import (
	"flag"
	"io"
	"log"
	"os"

	"vortex/internal/config"
	"vortex/internal/desktop"
	"vortex/internal/term"
)

func main() {
	s, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	flag.StringVar(&s.Host, "host", s.Host, "where to draw: desktop or terminal (default: VORTEX_HOST)")
	flag.Uint64Var(&s.Seed, "seed", s.Seed, "field seed, 0 for the clock (default: VORTEX_SEED)")
	flag.BoolVar(&s.Audio, "audio", s.Audio, "play the ambient hum (default: VORTEX_AUDIO)")
	flag.Parse()
	if err := s.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	out, closeLog, err := logOutput(s)
	if err != nil {
		log.Fatalf("log file: %v", err)
	}
	defer closeLog()
	logger := log.New(out, "vortex: ", log.LstdFlags)

	switch s.Host {
	case config.HostTerminal:
		err = term.Run(s, logger)
	default:
		err = desktop.Run(s, logger)
	}
	if err != nil {
		closeLog()
		log.Fatalf("%s: %v", s.Host, err)
	}
}

func logOutput(s config.Settings) (io.Writer, func(), error) {
	if s.LogFile != "" {
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { f.Close() }, nil
	}
	if s.Host == config.HostTerminal {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}
