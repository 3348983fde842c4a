package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nav-overlay/db"
)

// NewMigrateCmd 迁移表结构并导入初始地图配置
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration and seeds map profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			conn, err := db.Connect(cfg.Database, log)
			if err != nil {
				return err
			}
			if sqlDB, err := conn.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := db.Migrate(conn); err != nil {
				return err
			}
			log.Info("数据库迁移完成")

			if err := db.SeedProfiles(conn, cfg.Database.SeedFile, cfg.Map.AsProfile(), log); err != nil {
				log.Error("导入地图配置失败", zap.Error(err))
				return err
			}
			return nil
		},
	}
}
