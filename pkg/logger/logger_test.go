package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewWithWriter(level, &buf)
	l.now = func() time.Time { return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC) }
	return l, &buf
}

func TestLevelFiltering(t *testing.T) {
	l, buf := fixedLogger("warn")
	l.Info("hidden")
	l.Debug("hidden")
	l.Warn("shown")

	assert.Equal(t, "[2025-04-01 12:00:00] [WARN] shown\n", buf.String())
}

func TestWithAppendsFields(t *testing.T) {
	l, buf := fixedLogger("debug")
	l.With("team", "BOS").With("seed", 42).Debugf("offers %d", 3)

	assert.Equal(t, "[2025-04-01 12:00:00] [DEBUG] offers 3 team=BOS seed=42\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DebugLevel,
		"WARNING": WarnLevel,
		"error":   ErrorLevel,
		"":        InfoLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	assert.False(t, l.Enabled(ErrorLevel))
	l.Error("nothing")
}
