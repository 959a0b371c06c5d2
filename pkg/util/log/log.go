// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2020 Datadog, Inc.

// Package log is the package-level logger used across the repository. It
// wraps a seelog logger and buffers log lines emitted before it is set up.
package log

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cihub/seelog"
	"go.uber.org/atomic"
)

const (
	// extra frames between the caller and the seelog call
	additionalStackDepth = 2

	// maximum number of lines kept while the logger is not set up
	maxBufferedLines = 1000
)

var (
	logger atomic.Pointer[DatadogLogger]

	// This buffer holds log lines sent to the logger before its
	// initialization. It should be very short lived.
	logsBuffer  []func()
	bufferMutex sync.Mutex
)

// DatadogLogger wraps a seelog logger and filters on its own level, so the
// level can be changed without rebuilding the inner logger
type DatadogLogger struct {
	inner seelog.LoggerInterface
	level *atomic.Int32
}

// SetupLogger configures the logger singleton with a seelog logger, and
// flushes the lines logged before this call
func SetupLogger(l seelog.LoggerInterface, level string) {
	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		lvl = seelog.InfoLvl
	}
	_ = l.SetAdditionalStackDepth(additionalStackDepth)

	logger.Store(&DatadogLogger{
		inner: l,
		level: atomic.NewInt32(int32(lvl)),
	})

	bufferMutex.Lock()
	buffered := logsBuffer
	logsBuffer = nil
	bufferMutex.Unlock()

	for _, logLine := range buffered {
		logLine()
	}
}

// SetupConsoleLogger sets up the logger singleton to write to stderr
func SetupConsoleLogger(level string) error {
	l, err := seelog.LoggerFromWriterWithMinLevelAndFormat(os.Stderr, seelog.TraceLvl,
		"%Date(2006-01-02 15:04:05 MST) | CONNTAGS | %LEVEL | (%File:%Line in %FuncShort) | %Msg%n")
	if err != nil {
		return fmt.Errorf("unable to create console logger: %w", err)
	}
	SetupLogger(l, level)
	return nil
}

// ShouldLog returns whether a given log level should be logged by the logger.
// Before setup only info and above are kept.
func ShouldLog(lvl seelog.LogLevel) bool {
	l := logger.Load()
	if l == nil {
		return lvl >= seelog.InfoLvl
	}
	return lvl >= seelog.LogLevel(l.level.Load())
}

// ChangeLogLevel changes the current log level. Valid levels are trace,
// debug, info, warn, error, critical and off.
func ChangeLogLevel(level string) error {
	l := logger.Load()
	if l == nil {
		return errors.New("cannot change loglevel: logger not initialized")
	}
	lvl, ok := seelog.LogLevelFromString(strings.ToLower(level))
	if !ok {
		return fmt.Errorf("bad log level %q", level)
	}
	l.level.Store(int32(lvl))
	return nil
}

// GetLogLevel returns the current log level
func GetLogLevel() (seelog.LogLevel, error) {
	l := logger.Load()
	if l == nil {
		return seelog.InfoLvl, errors.New("cannot get loglevel: logger not initialized")
	}
	return seelog.LogLevel(l.level.Load()), nil
}

// Flush flushes the underlying inner log
func Flush() {
	if l := logger.Load(); l != nil {
		l.inner.Flush()
	}
}

func addLogToBuffer(logLine func()) {
	bufferMutex.Lock()
	defer bufferMutex.Unlock()

	if len(logsBuffer) < maxBufferedLines {
		logsBuffer = append(logsBuffer, logLine)
	}
}

func logf(lvl seelog.LogLevel, bufferFunc func(), logFunc func(l seelog.LoggerInterface)) {
	l := logger.Load()
	if l == nil {
		if lvl >= seelog.InfoLvl {
			addLogToBuffer(bufferFunc)
		}
		return
	}
	if lvl >= seelog.LogLevel(l.level.Load()) {
		logFunc(l.inner)
	}
}

// Tracef logs with format at the trace level
func Tracef(format string, params ...interface{}) {
	logf(seelog.TraceLvl, func() { Tracef(format, params...) }, func(l seelog.LoggerInterface) {
		l.Tracef(format, params...)
	})
}

// Debugf logs with format at the debug level
func Debugf(format string, params ...interface{}) {
	logf(seelog.DebugLvl, func() { Debugf(format, params...) }, func(l seelog.LoggerInterface) {
		l.Debugf(format, params...)
	})
}

// Infof logs with format at the info level
func Infof(format string, params ...interface{}) {
	logf(seelog.InfoLvl, func() { Infof(format, params...) }, func(l seelog.LoggerInterface) {
		l.Infof(format, params...)
	})
}

// Warnf logs with format at the warn level and returns the message as an error
func Warnf(format string, params ...interface{}) error {
	logf(seelog.WarnLvl, func() { _ = Warnf(format, params...) }, func(l seelog.LoggerInterface) {
		_ = l.Warnf(format, params...)
	})
	return fmt.Errorf(format, params...)
}

// Errorf logs with format at the error level and returns the message as an error
func Errorf(format string, params ...interface{}) error {
	logf(seelog.ErrorLvl, func() { _ = Errorf(format, params...) }, func(l seelog.LoggerInterface) {
		_ = l.Errorf(format, params...)
	})
	return fmt.Errorf(format, params...)
}

// Criticalf logs with format at the critical level and returns the message as an error
func Criticalf(format string, params ...interface{}) error {
	logf(seelog.CriticalLvl, func() { _ = Criticalf(format, params...) }, func(l seelog.LoggerInterface) {
		_ = l.Criticalf(format, params...)
	})
	return fmt.Errorf(format, params...)
}
