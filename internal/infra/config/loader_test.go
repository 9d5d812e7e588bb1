package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	infraconfig "github.com/ybathula707/flaskr/internal/infra/config"
)

type sample struct {
	Server struct {
		Port    int           `env:"SAMPLE_PORT"    yaml:"port"`
		Timeout time.Duration `env:"SAMPLE_TIMEOUT" yaml:"timeout"`
	} `yaml:"server"`
	Name    string   `env:"SAMPLE_NAME"    yaml:"name"`
	Debug   bool     `env:"SAMPLE_DEBUG"   yaml:"debug"`
	Origins []string `env:"SAMPLE_ORIGINS" yaml:"origins"`
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ReadsYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "name: from-file\nserver:\n  port: 7000\n")

	cfg, err := infraconfig.Load[sample](path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_MissingFileYieldsZeroValue(t *testing.T) {
	cfg, err := infraconfig.Load[sample](filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.Name)
	assert.Zero(t, cfg.Server.Port)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "name: [unterminated\n")

	_, err := infraconfig.Load[sample](path)
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-env")
	t.Setenv("SAMPLE_PORT", "9001")
	t.Setenv("SAMPLE_TIMEOUT", "3s")
	t.Setenv("SAMPLE_DEBUG", "yes")
	t.Setenv("SAMPLE_ORIGINS", "a.example, b.example")

	path := writeFile(t, t.TempDir(), "config.yml", "name: from-file\nserver:\n  port: 7000\n")

	cfg, err := infraconfig.Load[sample](path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.Timeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.Origins)
}

func TestLoad_UnparseableEnvIsIgnored(t *testing.T) {
	t.Setenv("SAMPLE_PORT", "not-a-number")

	path := writeFile(t, t.TempDir(), "config.yml", "server:\n  port: 7000\n")

	cfg, err := infraconfig.Load[sample](path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoadWithDefaults_EnvBeatsDefaults(t *testing.T) {
	t.Setenv("SAMPLE_PORT", "8088")

	cfg, err := infraconfig.LoadWithDefaults[sample](filepath.Join(t.TempDir(), "absent.yml"), func(s *sample) {
		if s.Server.Port == 0 {
			s.Server.Port = 5000
		}
		if s.Name == "" {
			s.Name = "default"
		}
	})
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "default", cfg.Name)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, "custom.env", "SAMPLE_NAME=from-dotenv\n")
	t.Setenv("ENV_FILE", envFile)
	t.Cleanup(func() { _ = os.Unsetenv("SAMPLE_NAME") })

	cfg, err := infraconfig.Load[sample](filepath.Join(dir, "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Name)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.yml", infraconfig.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/flaskr/config.yml")
	assert.Equal(t, "/etc/flaskr/config.yml", infraconfig.GetConfigPath("config.yml"))
}

func TestValidationHelpers(t *testing.T) {
	t.Parallel()

	require.NoError(t, infraconfig.ValidatePort("service.port", 5000))

	err := infraconfig.ValidatePort("service.port", 70000)
	require.Error(t, err)
	assert.Equal(t, "service.port: must be between 1 and 65535", err.Error())

	var vErr *infraconfig.ValidationError
	require.ErrorAs(t, infraconfig.ValidateLogLevel("logging.level", "loud"), &vErr)
	assert.Equal(t, "logging.level", vErr.Field)

	require.NoError(t, infraconfig.ValidateLogFormat("logging.format", "console"))
	require.Error(t, infraconfig.ValidateLogFormat("logging.format", "xml"))
}
