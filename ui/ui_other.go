// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !windows

package ui

// Init initializes the console settings. It is no-op on non-Windows.
func Init() {}

// Restore restores the console settings. It is no-op on non-Windows.
func Restore() {}
