// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package logging_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/infrakeep/infrakeep/internal/logging"
)

func TestLoggerWritesFormattedMessages(t *testing.T) {
	var buf bytes.Buffer
	logging.L.SetOutput(&buf)
	defer logging.L.SetOutput(os.Stderr)

	logging.SetVerbose(false)
	logging.Infof("loaded %d providers", 3)
	if !strings.Contains(buf.String(), "loaded 3 providers") {
		t.Errorf("info output = %q", buf.String())
	}

	buf.Reset()
	logging.Debugf("should be suppressed")
	if strings.Contains(buf.String(), "suppressed") {
		t.Error("debug message emitted at info level")
	}

	logging.SetVerbose(true)
	buf.Reset()
	logging.Debugf("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug output = %q", buf.String())
	}
	logging.SetVerbose(false)
}

func TestWarnAndErrorLevels(t *testing.T) {
	var buf bytes.Buffer
	logging.L.SetOutput(&buf)
	defer logging.L.SetOutput(os.Stderr)

	logging.Warnf("skipping %s", "bad.json")
	logging.Errorf("save failed: %v", "disk full")
	out := buf.String()
	if !strings.Contains(out, "skipping bad.json") || !strings.Contains(out, "disk full") {
		t.Errorf("output = %q", out)
	}
}
