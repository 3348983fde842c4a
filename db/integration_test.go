//go:build integration

package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nav-overlay/model"
)

// setupPostgres 启动 PostgreSQL 容器并返回已迁移的连接
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_nav",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_nav sslmode=disable", host, port.Port())

	var conn *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		conn, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return false
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, Migrate(conn))
	return conn
}

func TestIntegration_SeedAndProfiles(t *testing.T) {
	conn := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, SeedProfiles(conn, filepath.Join("..", "map_profiles.json"), model.MapProfile{}, zap.NewNop()))
	// 第二次不会重复导入
	require.NoError(t, SeedProfiles(conn, filepath.Join("..", "map_profiles.json"), model.MapProfile{}, zap.NewNop()))

	store := NewGormProfileStore(conn)
	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	p, err := store.GetByName(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, 33, p.Grid.GridsWide)
	assert.Equal(t, 3, p.Grid.RowPadding)

	_, err = store.GetByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestIntegration_Users(t *testing.T) {
	conn := setupPostgres(t)
	ctx := context.Background()
	store := NewGormUserStore(conn)

	require.NoError(t, store.Create(ctx, &model.User{Username: "pilot", Password: "hash"}))
	assert.ErrorIs(t, store.Create(ctx, &model.User{Username: "pilot", Password: "hash"}), ErrUserExists)

	u, err := store.FindByUsername(ctx, "pilot")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.Password)

	_, err = store.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
