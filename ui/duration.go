// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration formats d as "X.XXs", "XmXX.XXs" or "XhXmXX.XXs",
// rounded to 10ms. Negative durations are formatted as zero.
func FormatDuration(d time.Duration) string {
	d = max(d.Round(10*time.Millisecond), 0)
	mins := d.Truncate(time.Minute)
	secs := (d - mins).Seconds()
	if mins == 0 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%s%05.2fs", strings.TrimSuffix(mins.String(), "0s"), secs)
}
