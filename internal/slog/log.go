// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package slog wires up this module's btclog-backed logging, rotating
// the on-disk log file with jrick/logrotate the way btcd-family daemons
// in this codebase's lineage do.
package slog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"

	"github.com/blockrelay/blockparse/blockchain"
	"github.com/blockrelay/blockparse/pipeline"
)

// logRotator is the rotating file writer backing every subsystem logger.
// It is nil until InitLogRotator is called, matching the reference
// daemons' habit of logging to stdout only until a log file is set up.
var logRotator *rotator.Rotator

// backendLog is the logging backend used to create all subsystem
// loggers. It always logs to stdout, and additionally to the rotator
// once InitLogRotator has been called.
var backendLog = btclog.NewBackend(logWriter{})

// subsystemLoggers tracks every logger created by Logger so SetLogLevels
// can update them all at once.
var subsystemLoggers = make(map[string]btclog.Logger)

// logWriter implements io.Writer and plumbs through both stdout and, if
// initialized, the rotator.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// InitLogRotator opens (creating if necessary) the log file at logFile
// and begins rotating it once it exceeds 10 MiB, keeping the most
// recent 3 rolled files.
func InitLogRotator(logFile string) error {
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("slog: failed to create log directory: %w", err)
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("slog: failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

// Logger returns (creating if necessary) the subsystem logger registered
// under subsystemTag, e.g. "PIPE" or "VLDT".
func Logger(subsystemTag string) btclog.Logger {
	if l, ok := subsystemLoggers[subsystemTag]; ok {
		return l
	}
	l := backendLog.Logger(subsystemTag)
	subsystemLoggers[subsystemTag] = l
	return l
}

// SetLogLevels sets every registered subsystem logger to the given
// level ("trace", "debug", "info", "warn", "error", "critical").
func SetLogLevels(levelName string) error {
	level, ok := btclog.LevelFromString(levelName)
	if !ok {
		return fmt.Errorf("slog: unknown log level %q", levelName)
	}
	for _, l := range subsystemLoggers {
		l.SetLevel(level)
	}
	return nil
}

// WireAll registers this package's loggers with every subsystem package
// that exposes a btclog.Logger seam (§7: "the only external side
// effects are ... emitting log lines at trace/info/warn").
func WireAll() {
	pipeline.UseLogger(Logger("PIPE"))
	blockchain.UseLogger(Logger("VLDT"))
}
