package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botica.yaml")

	cfg := Default("Corner Pharmacy", "branch-a")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Corner Pharmacy", loaded.Pharmacy.Name)
	assert.Equal(t, "branch-a", loaded.Pharmacy.OrganizationID)
	assert.Equal(t, "botica.db", loaded.Database.Path)
	assert.Equal(t, "info", loaded.Logging.Level)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botica.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pharmacy: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ValidationRejectsBadLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botica.yaml")
	cfg := Default("Corner Pharmacy", "")
	cfg.Logging.Level = "verbose"
	require.NoError(t, Save(path, cfg))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad_MissingName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botica.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: x.db\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "botica.yaml")
	require.NoError(t, Save(path, Default("Corner Pharmacy", "")))

	t.Setenv("BOTICA_DATABASE_PATH", "/tmp/override.db")
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", loaded.Database.Path)
}
