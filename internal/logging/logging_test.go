package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	for level, want := range map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"":      zerolog.InfoLevel,
		"loud":  zerolog.InfoLevel,
	} {
		var buf bytes.Buffer
		l, err := New(level, "", &buf)
		require.NoError(t, err)
		require.Equal(t, want, l.GetLevel(), level)
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("info", "", &buf)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("bundle", "abc").Msg("bundle accepted")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "bundle accepted")
	require.Contains(t, out, "abc")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verify.log")
	var buf bytes.Buffer
	l, err := New("debug", path, &buf)
	require.NoError(t, err)

	timer := l.Start("load keys")
	require.GreaterOrEqual(t, timer.Stop().Nanoseconds(), int64(0))
	l.Warn().Msg("bundle rejected")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), `"message":"bundle rejected"`)
	require.Contains(t, string(content), `"step":"load keys"`)
}

func TestFileOpenFailure(t *testing.T) {
	_, err := New("info", filepath.Join(t.TempDir(), "missing", "verify.log"), &bytes.Buffer{})
	require.Error(t, err)
}

func TestSetupInstallsGnarkLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := Setup("info", "", &buf)
	require.NoError(t, err)
	defer l.Close()

	gl := gnarklogger.Logger()
	gl.Info().Msg("constraint system compiled")
	require.Contains(t, buf.String(), "constraint system compiled")
	require.Contains(t, buf.String(), "gnark")
}
