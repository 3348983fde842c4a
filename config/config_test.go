package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "default", cfg.Map.Profile)
	assert.Equal(t, 300.0, cfg.Map.Speed)
	assert.Equal(t, 33, cfg.Map.Grid.GridsWide)
	assert.Equal(t, 22, cfg.Map.Grid.GridsTall)
	assert.Equal(t, 37, cfg.Map.Grid.GridOffset)
	assert.Equal(t, 3, cfg.Map.Grid.RowPadding)
	assert.Equal(t, 10.0, cfg.Map.Grid.CellRealLength)
	assert.Equal(t, 1.964286, cfg.Map.Grid.MaxLat)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NAVOVERLAY_MAP_SPEED", "450")
	t.Setenv("NAVOVERLAY_SERVER_ADDR", ":9090")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 450.0, cfg.Map.Speed)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nav.yaml")
	content := `
map:
  profile: tiny
  speed: 120
  grid:
    min_lat: 0
    max_lat: 2
    min_lng: 0
    max_lng: 2
    grids_wide: 2
    grids_tall: 2
    grid_offset: 0
    row_padding: 0
    cell_real_length: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", cfg.Map.Profile)
	assert.Equal(t, 1.0, cfg.Map.Grid.SideLength())
	assert.Equal(t, 5.0, cfg.Map.Grid.CellRealLength)
}

func TestLoad_InvalidGridIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := `
map:
  speed: 0
  grid:
    grids_wide: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "map.speed must be positive")
	assert.Contains(t, err.Error(), "grids_wide")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", d.DSN())
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
