// Copyright (c) 2024 The unit-e developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ulog wires up the per-subsystem loggers ued's components pull
// their Logger from, following the exccd/dcrd convention: one rotating
// backend, one slog.Logger per subsystem tag, and a SetLogLevels helper the
// CLI's -debuglevel flag drives.
package ulog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// Subsystem tags, one per package that logs. Kept short to match the
// family's convention of three-to-four letter tags in log output.
const (
	TagFinalization = "FNL"
	TagStaking      = "STK"
	TagProposer     = "PRP"
	TagChainParams  = "CFG"
	TagRepository   = "RPD"
)

var (
	backendLog = slog.NewBackend(os.Stdout)

	subsystemLoggers = map[string]slog.Logger{
		TagFinalization: backendLog.Logger(TagFinalization),
		TagStaking:      backendLog.Logger(TagStaking),
		TagProposer:     backendLog.Logger(TagProposer),
		TagChainParams:  backendLog.Logger(TagChainParams),
		TagRepository:   backendLog.Logger(TagRepository),
	}

	logRotator *rotator.Rotator
)

// Logger returns the Logger for the named subsystem, or a disabled logger
// if tag is not recognized so a typo never panics a caller.
func Logger(tag string) slog.Logger {
	if l, ok := subsystemLoggers[tag]; ok {
		return l
	}
	return slog.Disabled
}

// InitLogRotator creates a rolling log file at logFile (creating its parent
// directory if needed) and redirects backendLog's output to both it and
// stdout. Subsequent Logger calls are unaffected; only the backend's
// destination changes.
func InitLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("ulog: creating log directory: %w", err)
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("ulog: creating log rotator: %w", err)
	}
	logRotator = r

	backendLog = slog.NewBackend(logWriter{})
	for tag := range subsystemLoggers {
		l := backendLog.Logger(tag)
		l.SetLevel(subsystemLoggers[tag].Level())
		subsystemLoggers[tag] = l
	}
	return nil
}

// logWriter sends output to both stdout and the rotator, mirroring exccd's
// logWriter so operators see output on the console as well as on disk.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	os.Stdout.Write(p)
	if logRotator != nil {
		return logRotator.Write(p)
	}
	return len(p), nil
}

// SetLogLevel sets the log level for a single subsystem tag. An unrecognized
// level string is silently ignored, matching loadConfig's tolerant parsing
// of a malformed -debuglevel value for one subsystem among several.
func SetLogLevel(tag, levelStr string) {
	l, ok := subsystemLoggers[tag]
	if !ok {
		return
	}
	level, ok := slog.LevelFromString(levelStr)
	if !ok {
		return
	}
	l.SetLevel(level)
}

// SetLogLevels parses a -debuglevel value of either a single level applied
// to every subsystem ("info") or a comma-separated list of tag=level pairs
// ("FNL=debug,STK=trace"), matching exccd's setLogLevels.
func SetLogLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, "=") {
		level, ok := slog.LevelFromString(debugLevel)
		if !ok {
			return fmt.Errorf("ulog: unknown log level %q", debugLevel)
		}
		for tag := range subsystemLoggers {
			SetLogLevel(tag, level.String())
		}
		return nil
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(pair, "=")
		if len(fields) != 2 {
			return fmt.Errorf("ulog: malformed debug level pair %q", pair)
		}
		tag, level := fields[0], fields[1]
		if _, ok := subsystemLoggers[tag]; !ok {
			return fmt.Errorf("ulog: unknown subsystem %q", tag)
		}
		if _, ok := slog.LevelFromString(level); !ok {
			return fmt.Errorf("ulog: unknown log level %q for subsystem %q", level, tag)
		}
		SetLogLevel(tag, level)
	}
	return nil
}
