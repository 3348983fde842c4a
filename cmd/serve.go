package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nav-overlay/algo"
	"nav-overlay/config"
	"nav-overlay/db"
	"nav-overlay/handler"
	"nav-overlay/model"
)

// NewServeCmd 启动 HTTP 服务
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "start the map annotation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

// stores 数据库或内存存储
type stores struct {
	users    db.UserStore
	profiles db.ProfileStore
	close    func()
}

// openStores 启用数据库时连接、迁移并导入初始数据，否则使用内存存储
func openStores(cfg *config.Config, log *zap.Logger) (*stores, error) {
	if !cfg.Database.Enabled {
		log.Info("未启用数据库，使用内存存储")
		return &stores{
			users:    db.NewMemoryUserStore(),
			profiles: db.NewMemoryProfileStore(cfg.Map.AsProfile()),
			close:    func() {},
		}, nil
	}

	conn, err := db.Connect(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(conn); err != nil {
		return nil, err
	}
	if err := db.SeedProfiles(conn, cfg.Database.SeedFile, cfg.Map.AsProfile(), log); err != nil {
		log.Warn("导入地图配置失败", zap.Error(err))
	}
	log.Info("数据库连接并初始化成功")

	return &stores{
		users:    db.NewGormUserStore(conn),
		profiles: db.NewGormProfileStore(conn),
		close: func() {
			if sqlDB, err := conn.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

// activeProfile 加载当前地图，网格配置无效时直接报错退出
func activeProfile(ctx context.Context, cfg *config.Config, profiles db.ProfileStore) (model.MapProfile, error) {
	profile, err := profiles.GetByName(ctx, cfg.Map.Profile)
	if err != nil {
		return model.MapProfile{}, fmt.Errorf("加载地图 %q 失败: %w", cfg.Map.Profile, err)
	}
	if err := profile.Grid.Validate(); err != nil {
		return model.MapProfile{}, fmt.Errorf("地图 %q: %w", profile.Name, err)
	}
	if algo.ValidateSpeed(profile.DefaultSpeed) != nil {
		profile.DefaultSpeed = cfg.Map.Speed
	}
	return *profile, nil
}

// loadProfile 按 map.profile 解析当前地图，供命令行工具使用
// 与 serve 使用同一份地图，启用数据库时读取数据库里的网格配置
func loadProfile(ctx context.Context, cfg *config.Config, log *zap.Logger) (model.MapProfile, error) {
	st, err := openStores(cfg, log)
	if err != nil {
		return model.MapProfile{}, err
	}
	defer st.close()
	return activeProfile(ctx, cfg, st.profiles)
}

func runServer(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	profile, err := activeProfile(ctx, cfg, st.profiles)
	if err != nil {
		return err
	}
	log.Info("地图加载成功",
		zap.String("profile", profile.Name),
		zap.String("image", profile.ImageFile),
		zap.Int("grids_wide", profile.Grid.GridsWide),
		zap.Int("grids_tall", profile.Grid.GridsTall),
		zap.Float64("side_length", profile.Grid.SideLength()),
		zap.Float64("speed", profile.DefaultSpeed))

	registry := algo.NewRegistry(profile.Grid, algo.NewSpeed(profile.DefaultSpeed), log.Named("registry"))

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.SetupRouter(handler.RouterOptions{
		Map:       handler.NewMapHandler(registry, profile, st.profiles, log.Named("map")),
		Auth:      handler.NewAuthHandler(st.users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log.Named("auth")),
		StaticDir: cfg.Server.StaticDir,
		Log:       log.Named("http"),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
