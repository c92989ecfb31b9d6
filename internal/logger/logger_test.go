package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	sugar, err := NewLogger("debug", "")
	require.NoError(t, err)
	require.NotNil(t, sugar)
}

func TestNewLoggerBadLevel(t *testing.T) {
	_, err := NewLogger("loud", "")
	require.Error(t, err)
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	sugar, err := NewLogger("info", path)
	require.NoError(t, err)

	sugar.Infow("file not found", "model", "churn")
	_ = sugar.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"model":"churn"`)
}
