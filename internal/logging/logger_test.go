package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", &buf, true)

	log.Info("quiet", "lane", "lane1")
	log.Warn("loud", "lane", "lane1")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "lane=lane1") {
		t.Errorf("expected warn line with attrs, got %q", out)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("dropped")
}
