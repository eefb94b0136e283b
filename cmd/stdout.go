package main

import (
	"os"

	"github.com/maddsua/consolelog"
	"github.com/mattn/go-isatty"
)

//	newHostLogger picks where browser lines end up. JSON logging routes them through slog,
//	otherwise they are printed as is so that colors survive
func newHostLogger(jsonLogs bool) consolelog.HostLogger {
	if jsonLogs {
		return &consolelog.SlogLogger{}
	}
	return consolelog.NewWriterLogger(os.Stderr)
}

func colorsSupported(jsonLogs bool) bool {

	if jsonLogs {
		return false
	}

	if val := os.Getenv("FORCE_COLOR"); val != "" && val != "0" {
		return true
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
