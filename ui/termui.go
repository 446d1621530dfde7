// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// DurationThreshold is the duration under which a successful step is not
// reported by the terminal spinner.
var DurationThreshold = 1 * time.Second

type termSpinner struct {
	w     io.Writer
	width int

	quit, done chan struct{}
	started    time.Time
	n          int
	msg        string
}

// Start starts the spinner.
func (s *termSpinner) Start(format string, args ...any) {
	s.started = time.Now()
	s.msg = fmt.Sprintf(format, args...)
	if s.width > 20 {
		// room for "<duration> " prefix and spinner char.
		s.msg = elideMiddle(s.msg, s.width-10)
	}
	fmt.Fprintf(s.w, "%s... ", s.msg)
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		for {
			select {
			case <-s.quit:
				return
			case <-time.After(1 * time.Second):
				const chars = `/-\|`
				fmt.Fprintf(s.w, "\b%c", chars[s.n])
				s.n = (s.n + 1) % len(chars)
			}
		}
	}()
}

func (s *termSpinner) finish() time.Duration {
	close(s.quit)
	<-s.done
	return time.Since(s.started)
}

// Stop stops the spinner.
func (s *termSpinner) Stop(err error) {
	d := s.finish()
	if err != nil {
		fmt.Fprintf(s.w, "\r\033[K%6s %s %s %v\n", FormatDuration(d), s.msg, SGR(Red, "failed"), err)
		return
	}
	if d < DurationThreshold {
		fmt.Fprintf(s.w, "\r\033[K")
		return
	}
	fmt.Fprintf(s.w, "\r\033[K%6s %s\n", FormatDuration(d), s.msg)
}

// Done finishes the spinner with message in green.
func (s *termSpinner) Done(format string, args ...any) {
	d := s.finish()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(s.w, "\r\033[K%6s %s %s\n", FormatDuration(d), s.msg, SGR(Green, msg))
}

// TermUI is a terminal-based UI.
type TermUI struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewTermUI returns a terminal-based UI writing to w of the given width.
func NewTermUI(w io.Writer, width int) *TermUI {
	return &TermUI{w: w, width: width}
}

// NewSpinner returns a terminal-based spinner.
func (t *TermUI) NewSpinner() Spinner {
	return &termSpinner{w: t.w, width: t.width}
}

// Warningf reports a warning in yellow.
func (t *TermUI) Warningf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s %s\n", SGR(Yellow, "warning:"), fmt.Sprintf(format, args...))
}
