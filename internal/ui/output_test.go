package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, l Level) *bytes.Buffer {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true

	var buf bytes.Buffer
	prev := SetOutput(&buf)
	prevLevel := CurrentLevel()
	SetLevel(l)

	t.Cleanup(func() {
		SetOutput(prev)
		SetLevel(prevLevel)
		color.NoColor = noColor
	})
	return &buf
}

func TestSeverityMarkers(t *testing.T) {
	buf := captureOutput(t, LevelDebug)

	Debug("walking %s", "/srv")
	Info("rendered %d file(s)", 1)
	Success("wrote %s", "nginx.conf")
	Warn("skipping %s", "Dockerfile")
	Error("missing key %q", "services")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "[DEBUG] walking /srv", lines[0])
	assert.Equal(t, "[INFO] rendered 1 file(s)", lines[1])
	assert.Equal(t, "[OK] wrote nginx.conf", lines[2])
	assert.Equal(t, "[WARN] skipping Dockerfile", lines[3])
	assert.Equal(t, `[ERROR] missing key "services"`, lines[4])
}

func TestLevelFiltering(t *testing.T) {
	buf := captureOutput(t, LevelWarn)

	Debug("hidden")
	Info("hidden")
	Success("hidden")
	Warn("shown")
	Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Equal(t, 2, strings.Count(buf.String(), "shown"))
}

func TestErrorAlwaysPrinted(t *testing.T) {
	buf := captureOutput(t, LevelError+1)

	Warn("hidden")
	Error("fatal")

	assert.Equal(t, "[ERROR] fatal\n", buf.String())
}

func TestDiagnosticsAreSingleLine(t *testing.T) {
	buf := captureOutput(t, LevelInfo)

	Warn("read failed:\nline two\r\nline three\n")

	assert.Equal(t, "[WARN] read failed: line two line three\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: " warn ", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "loud", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	err := PrintTable(&buf, []string{"NAME", "KIND"}, [][]string{
		{"GOLANG_VERSION", "ARG"},
		{"ubuntu:22.04"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[0], "KIND")
	assert.True(t, strings.HasPrefix(lines[1], "GOLANG_VERSION"))
	assert.True(t, strings.HasPrefix(lines[2], "ubuntu:22.04"))
}
