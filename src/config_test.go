package src

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()

	v := viper.New()
	SetDefaults(v)
	v.Set("server.location", t.TempDir())
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	v := newTestViper(t)

	cfg, err := LoadConfig(v, "")
	require.NoError(t, err)

	require.Equal(t, DEFAULT_HOST, cfg.Host)
	require.Equal(t, DEFAULT_PORT, cfg.Port)
	require.Equal(t, int64(MAX_FILE_SEND_SIZE), cfg.MaxFileSize)
	require.Equal(t, READ_TIMEOUT, cfg.ReadTimeout)
	require.Equal(t, &LoggerConfig{Level: "info", Format: "text"}, cfg.Logger)
	require.True(t, filepath.IsAbs(cfg.Location))
	require.Equal(t, "127.0.0.1:10101", cfg.Address())
}

func TestLoadConfig_File(t *testing.T) {
	v := newTestViper(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: 2000\n  read_timeout: 3s\nlogger:\n  format: json\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := LoadConfig(v, configPath)
	require.NoError(t, err)
	require.Equal(t, 2000, cfg.Port)
	require.Equal(t, 3*time.Second, cfg.ReadTimeout)
	require.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("GOHTTP_SERVER_PORT", "3000")
	v := newTestViper(t)

	cfg, err := LoadConfig(v, "")
	require.NoError(t, err)
	require.Equal(t, 3000, cfg.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := map[string]func(v *viper.Viper){
		"port too low":       func(v *viper.Viper) { v.Set("server.port", 80) },
		"port too high":      func(v *viper.Viper) { v.Set("server.port", 50000) },
		"missing location":   func(v *viper.Viper) { v.Set("server.location", filepath.Join(os.TempDir(), "does-not-exist-go-http")) },
		"zero max file size": func(v *viper.Viper) { v.Set("server.max_file_size", 0) },
		"zero read timeout":  func(v *viper.Viper) { v.Set("server.read_timeout", 0) },
	}

	for name, mutate := range testCases {
		t.Run(name, func(t *testing.T) {
			v := newTestViper(t)
			mutate(v)

			_, err := LoadConfig(v, "")
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	v := newTestViper(t)

	_, err := LoadConfig(v, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
