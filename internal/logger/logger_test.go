package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func(string, ...any)
		want string
	}{
		{"debug", Debug, "[DEBUG] fetched 3 of 4\n"},
		{"info", Info, "[INFO] fetched 3 of 4\n"},
		{"warn", Warn, "[WARN] fetched 3 of 4\n"},
		{"error", Error, "[ERROR] fetched 3 of 4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log("fetched %d of %d", 3, 4)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestError_AlwaysWritten(t *testing.T) {
	buf := capture(t, false)

	Error("run %s failed", "abc")

	assert.Equal(t, "[ERROR] run abc failed\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Extract")

	assert.Equal(t, "\n=== Extract ===\n", buf.String())
}

func TestElapsed(t *testing.T) {
	buf := capture(t, true)

	Elapsed("list files", time.Now().Add(-1500*time.Millisecond))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[DEBUG] list files took 1.5"), out)
}
