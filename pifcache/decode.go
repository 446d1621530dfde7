// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pifcache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// decodeObject decodes a JSON object in data into v after checking that
// all required keys are present and not null.
// v must not be a type whose UnmarshalJSON calls decodeObject for itself.
func decodeObject(data []byte, v any, kind string, required ...string) error {
	var fields map[string]json.RawMessage
	err := json.Unmarshal(data, &fields)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if fields == nil {
		return fmt.Errorf("%s: null object", kind)
	}
	var missing []string
	for _, key := range required {
		raw, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing required key %s", kind, strings.Join(missing, ", "))
	}
	return json.Unmarshal(data, v)
}
