package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"tokopos/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerCreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := logging.NewLogger("tokopos", "test", path)
	require.NoError(t, err)
	logger.Info("order_created")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"order_created"`)
	assert.Contains(t, string(content), `"service":"tokopos"`)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logging.OrNop(nil))
}
