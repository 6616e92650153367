package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	assert := assert.New(t)
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "INFO"} {
		log, err := New(level, "text", "stderr")
		assert.True(err == nil, level)
		assert.True(log != nil)
	}
	{
		_, err := New("verbose", "text", "stderr")
		assert.True(err != nil)
	}
}

func TestParseLevel(t *testing.T) {
	assert := assert.New(t)
	l, err := ParseLevel("Warn")
	assert.True(err == nil)
	assert.Equal(zapcore.WarnLevel, l)
}

func TestLogToFile(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	{
		path := filepath.Join(dir, "esql.log")
		log, err := New("info", "text", path)
		assert.True(err == nil)
		log.Info("scan done")
		log.Debug("hidden")
		_ = log.Sync()

		content, err := os.ReadFile(path)
		assert.True(err == nil)
		assert.True(strings.Contains(string(content), "scan done"))
		assert.False(strings.Contains(string(content), "hidden"))
	}
	{
		path := filepath.Join(dir, "esql.json")
		log, err := New("warn", "json", path)
		assert.True(err == nil)
		log.Warn("row skipped")
		_ = log.Sync()

		content, err := os.ReadFile(path)
		assert.True(err == nil)
		assert.True(strings.Contains(string(content), `"msg":"row skipped"`))
		assert.True(strings.Contains(string(content), `"logger":"esql"`))
	}
}
