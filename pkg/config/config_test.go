package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `yaml:"name"`
	Limit int    `yaml:"limit"`
}

func (s *sample) Validate() error {
	if s.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "from-env")
	path := writeFile(t, "name: ${SAMPLE_NAME}\n")

	cfg := sample{Limit: 7}
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 7, cfg.Limit)
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg sample
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, "limit: -1\n")

	var cfg sample
	err := Load(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, "name: [unterminated\n")

	var cfg sample
	assert.Error(t, Load(path, &cfg))
}

func TestLoadOptional(t *testing.T) {
	cfg := sample{Name: "default"}
	require.NoError(t, LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg))
	assert.Equal(t, "default", cfg.Name)

	require.NoError(t, LoadOptional("", &cfg))

	bad := sample{Limit: -1}
	assert.Error(t, LoadOptional("", &bad))

	path := writeFile(t, "name: loaded\n")
	require.NoError(t, LoadOptional(path, &cfg))
	assert.Equal(t, "loaded", cfg.Name)
}
