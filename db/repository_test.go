package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nav-overlay/model"
)

func TestLoadProfiles(t *testing.T) {
	profiles, err := LoadProfiles(filepath.Join("..", "map_profiles.json"))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	assert.Equal(t, "default", profiles[0].Name)
	assert.Equal(t, 33, profiles[0].Grid.GridsWide)
	assert.Equal(t, 37, profiles[0].Grid.GridOffset)
	assert.Equal(t, 300.0, profiles[0].DefaultSpeed)
	assert.Equal(t, 1.0, profiles[1].Grid.SideLength())
}

func TestLoadProfiles_Invalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"profiles":[{"name":"x","grid":{"grids_wide":0}}]}`), 0o600))
	_, err := LoadProfiles(bad)
	assert.ErrorIs(t, err, model.ErrInvalidGridConfig)

	noName := filepath.Join(dir, "noname.json")
	require.NoError(t, os.WriteFile(noName, []byte(`{"profiles":[{}]}`), 0o600))
	_, err = LoadProfiles(noName)
	assert.Error(t, err)

	_, err = LoadProfiles(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemoryUserStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	_, err := s.FindByUsername(ctx, "admin")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u := &model.User{Username: "admin", Password: "hash"}
	require.NoError(t, s.Create(ctx, u))
	assert.Equal(t, uint(1), u.ID)

	assert.ErrorIs(t, s.Create(ctx, &model.User{Username: "admin"}), ErrUserExists)

	got, err := s.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.Password)
}

func TestMemoryProfileStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryProfileStore(model.MapProfile{Name: "default"}, model.MapProfile{Name: "other"})

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	p, err := s.GetByName(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "other", p.Name)

	_, err = s.GetByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
