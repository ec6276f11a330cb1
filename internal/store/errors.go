// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// Package store contains shared persistence errors and helpers.
package store

import "errors"

// ErrNotFound is returned when a requested record or file does not exist.
// Callers operating on batches should treat it as absence, not failure.
var ErrNotFound = errors.New("record not found")
