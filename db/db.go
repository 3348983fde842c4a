package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nav-overlay/config"
	"nav-overlay/model"
)

// Connect 连接 PostgreSQL，带重试 (Docker 启动时数据库可能还没准备好)
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	retries := max(cfg.MaxRetries, 1)

	var (
		conn *gorm.DB
		err  error
	)
	for i := 0; i < retries; i++ {
		conn, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		log.Warn("等待数据库就绪...",
			zap.Int("attempt", i+1),
			zap.Int("max", retries),
			zap.Error(err))
		if i < retries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}
	return conn, nil
}

// Migrate 自动迁移表结构
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&model.User{}, &model.MapProfile{}); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

// LoadProfiles 从 JSON 文件读取地图配置，并逐个校验
func LoadProfiles(filepath string) ([]model.MapProfile, error) {
	file, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}

	var data model.MapProfileData
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("解析 JSON 失败: %w", err)
	}

	for _, p := range data.Profiles {
		if p.Name == "" {
			return nil, errors.New("地图配置缺少 name")
		}
		if err := p.Grid.Validate(); err != nil {
			return nil, fmt.Errorf("地图 %s: %w", p.Name, err)
		}
	}
	return data.Profiles, nil
}

// SeedProfiles 数据库为空时导入初始地图配置
// 文件不存在时只写入 fallback (来自配置文件的默认地图)
func SeedProfiles(conn *gorm.DB, filepath string, fallback model.MapProfile, log *zap.Logger) error {
	var count int64
	if err := conn.Model(&model.MapProfile{}).Count(&count).Error; err != nil {
		return fmt.Errorf("统计地图配置失败: %w", err)
	}
	if count > 0 {
		return nil
	}

	profiles, err := LoadProfiles(filepath)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("未找到地图配置文件，写入默认地图", zap.String("file", filepath))
		profiles = []model.MapProfile{fallback}
	} else if err != nil {
		return err
	}

	if err := conn.CreateInBatches(profiles, 100).Error; err != nil {
		return fmt.Errorf("插入地图配置失败: %w", err)
	}
	log.Info("地图配置导入成功", zap.Int("count", len(profiles)))
	return nil
}
