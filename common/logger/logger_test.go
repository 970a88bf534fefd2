package logger

import (
	"os"
	"path/filepath"
	"testing"

	conf "github.com/abcfe/avax-types/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersJoinArgs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	Info("key ", 7, " loaded")
	Warn("slow")
	Debug("d")
	HandleErr(nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "key 7 loaded", entries[0].ContextMap()["Info"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestNopBeforeInit(t *testing.T) {
	SetLogger(nil)
	assert.NotPanics(t, func() { Error("nothing configured") })
}

func TestInitLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := &conf.Config{}
	cfg.Common.Level = "prod"
	cfg.Common.ServiceName = "test"
	cfg.LogInfo.Path = filepath.Join(dir, "node")
	cfg.LogInfo.MaxAgeHour = 1
	cfg.LogInfo.RotateHour = 1

	require.NoError(t, InitLogger(cfg))
	defer SetLogger(nil)
	Info("hello")
	Sync()

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, files)
}

func TestNewCoreLevels(t *testing.T) {
	var file, console zaptest.Buffer

	prod := newCore("prod", &file, &console)
	assert.False(t, prod.Enabled(zapcore.DebugLevel))
	assert.True(t, prod.Enabled(zapcore.InfoLevel))

	local := zap.New(newCore("local", &file, &console))
	local.Debug("debug", zap.String("Debug", "tee"))
	assert.Contains(t, file.String(), `"Debug":"tee"`)
	assert.Contains(t, console.String(), "tee")
}
