// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

type logSpinner struct {
	logger  *log.Logger
	started time.Time
}

// Start logs the start of the step.
// A log-based UI cannot animate, so only start and completion are reported.
func (l *logSpinner) Start(format string, args ...any) {
	l.started = time.Now()
	l.logger.Info(StripANSIEscapeCodes(fmt.Sprintf(format, args...)))
}

// Stop logs how long the step took, or its error.
func (l *logSpinner) Stop(err error) {
	if err != nil {
		l.logger.Warn("-> failed", "duration", FormatDuration(time.Since(l.started)), "err", err)
		return
	}
	l.logger.Info("-> done", "duration", FormatDuration(time.Since(l.started)))
}

// Done finishes the spinner with message.
func (l *logSpinner) Done(format string, args ...any) {
	l.logger.Info("-> "+StripANSIEscapeCodes(fmt.Sprintf(format, args...)), "duration", FormatDuration(time.Since(l.started)))
}

// LogUI is a log-based UI.
type LogUI struct {
	// Logger is the logger to use. If nil, the default logger of
	// github.com/charmbracelet/log is used.
	Logger *log.Logger
}

func (l *LogUI) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

// NewSpinner returns a log-based spinner.
func (l *LogUI) NewSpinner() Spinner {
	return &logSpinner{logger: l.logger()}
}

// Warningf reports a warning, stripping ansi escape sequence.
func (l *LogUI) Warningf(format string, args ...any) {
	l.logger().Warn(StripANSIEscapeCodes(fmt.Sprintf(format, args...)))
}
