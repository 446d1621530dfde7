// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package clog provides context aware logging.
// It stores a trace, span ID and labels in the context so that every log
// entry of a subcommand invocation carries them automatically.
//
// Entries are built as Cloud Logging entries, but are written locally with glog.
package clog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/logging"
	log "github.com/golang/glog"
)

type contextKeyType int

var contextKey contextKeyType

// DefaultFormatter prefixes the payload with the entry's labels, if any.
func DefaultFormatter(e logging.Entry) string {
	if len(e.Labels) == 0 {
		return fmt.Sprintf("%v", e.Payload)
	}
	keys := make([]string, 0, len(e.Labels))
	for k := range e.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%s", k, e.Labels[k])
	}
	sb.WriteString("] ")
	fmt.Fprintf(&sb, "%v", e.Payload)
	return sb.String()
}

var defaultLogger = &Logger{Formatter: DefaultFormatter}

// New creates a new Logger.
func New() *Logger {
	return &Logger{
		Formatter: DefaultFormatter,
	}
}

// NewContext sets the given logger to the context.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey, logger)
}

// NewSpan sets a new logger span with the given labels to the context.
// Labels of the parent logger are inherited unless overridden.
func NewSpan(ctx context.Context, trace, spanID string, labels map[string]string) context.Context {
	return NewContext(ctx, FromContext(ctx).Span(trace, spanID, labels))
}

// FromContext returns a logger in the context, or the default logger if
// it's not set.
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey).(*Logger)
	if !ok || logger == nil {
		return defaultLogger
	}
	return logger
}

// Logger holds the trace, spanID, labels of the context.
type Logger struct {
	// Formatter formats the entry for glog.
	// Default to DefaultFormatter.
	Formatter func(e logging.Entry) string

	trace  string
	spanID string
	labels map[string]string
}

// Span returns a sub logger for the trace span.
func (l *Logger) Span(trace, spanID string, labels map[string]string) *Logger {
	merged := make(map[string]string, len(l.labels)+len(labels))
	for k, v := range l.labels {
		merged[k] = v
	}
	for k, v := range labels {
		merged[k] = v
	}
	return &Logger{
		Formatter: l.Formatter,
		trace:     trace,
		spanID:    spanID,
		labels:    merged,
	}
}

// Trace returns the trace of the logger.
func (l *Logger) Trace() string {
	return l.trace
}

// Entry creates a new log entry for the given severity.
func (l *Logger) Entry(severity logging.Severity, payload any) logging.Entry {
	return logging.Entry{
		Timestamp: time.Now(),
		Severity:  severity,
		Payload:   payload,
		Labels:    l.labels,
		Trace:     l.trace,
		SpanID:    l.spanID,
	}
}

func (l *Logger) log(e logging.Entry) {
	format := l.Formatter
	if format == nil {
		format = DefaultFormatter
	}
	msg := format(e)
	switch e.Severity {
	case logging.Info:
		log.InfoDepth(2, msg)
	case logging.Warning:
		log.WarningDepth(2, msg)
	case logging.Error:
		log.ErrorDepth(2, msg)
	default:
		log.InfoDepth(2, fmt.Sprintf("%s %s", e.Severity, msg))
	}
}

// Infof logs at info log level in the manner of fmt.Printf.
func (l *Logger) Infof(format string, args ...any) {
	l.log(l.Entry(logging.Info, fmt.Sprintf(format, args...)))
}

// Warningf logs at warning log level in the manner of fmt.Printf.
func (l *Logger) Warningf(format string, args ...any) {
	l.log(l.Entry(logging.Warning, fmt.Sprintf(format, args...)))
}

// Errorf logs at error log level in the manner of fmt.Printf.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(l.Entry(logging.Error, fmt.Sprintf(format, args...)))
}

// Infof logs at info log level in the manner of fmt.Printf.
func Infof(ctx context.Context, format string, args ...any) {
	logger := FromContext(ctx)
	logger.log(logger.Entry(logging.Info, fmt.Sprintf(format, args...)))
}

// Warningf logs at warning log level in the manner of fmt.Printf.
func Warningf(ctx context.Context, format string, args ...any) {
	logger := FromContext(ctx)
	logger.log(logger.Entry(logging.Warning, fmt.Sprintf(format, args...)))
}

// Errorf logs at error log level in the manner of fmt.Printf.
func Errorf(ctx context.Context, format string, args ...any) {
	logger := FromContext(ctx)
	logger.log(logger.Entry(logging.Error, fmt.Sprintf(format, args...)))
}

// V checks at verbose log level.
func (l *Logger) V(level int) bool {
	return bool(log.V(log.Level(level)))
}

// Close flushes log entries.
func (l *Logger) Close() {
	log.Flush()
}
