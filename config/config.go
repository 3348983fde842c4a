package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"nav-overlay/model"
)

// Config 服务的全部配置
type Config struct {
	AppEnv   string         `mapstructure:"app_env"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Map      MapConfig      `mapstructure:"map"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	StaticDir    string        `mapstructure:"static_dir"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	DBName     string `mapstructure:"dbname"`
	SSLMode    string `mapstructure:"sslmode"`
	TimeZone   string `mapstructure:"timezone"`
	MaxRetries int    `mapstructure:"max_retries"`
	SeedFile   string `mapstructure:"seed_file"`
}

// DSN gorm postgres 连接串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode, d.TimeZone,
	)
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// MapConfig 地图配置
// 启用数据库时 Profile 指定从数据库加载哪张地图，否则直接使用这里的 Grid
type MapConfig struct {
	Profile   string           `mapstructure:"profile"`
	ImageFile string           `mapstructure:"image_file"`
	Speed     float64          `mapstructure:"speed"`
	Grid      model.GridConfig `mapstructure:"grid"`
}

// AsProfile 把配置里的地图转换为 MapProfile
func (m MapConfig) AsProfile() model.MapProfile {
	return model.MapProfile{
		Name:         m.Profile,
		ImageFile:    m.ImageFile,
		DefaultSpeed: m.Speed,
		Grid:         m.Grid,
	}
}

const envPrefix = "NAVOVERLAY"

// 兼容旧的数据库环境变量 (Docker 部署使用)
var legacyEnv = map[string]string{
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.dbname":   "DB_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("log.level", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "./static")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "navuser")
	v.SetDefault("database.password", "navpassword")
	v.SetDefault("database.dbname", "navoverlay")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_retries", 30)
	v.SetDefault("database.seed_file", "map_profiles.json")

	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	// 默认地图: img/map.png，33 x 22 格
	v.SetDefault("map.profile", "default")
	v.SetDefault("map.image_file", "img/map.png")
	v.SetDefault("map.speed", 300.0)
	v.SetDefault("map.grid.min_lat", 0.0)
	v.SetDefault("map.grid.max_lat", 1.964286)
	v.SetDefault("map.grid.min_lng", 0.089286)
	v.SetDefault("map.grid.max_lng", 3.125)
	v.SetDefault("map.grid.grids_wide", 33)
	v.SetDefault("map.grid.grids_tall", 22)
	v.SetDefault("map.grid.grid_offset", 37)
	v.SetDefault("map.grid.row_padding", 3)
	v.SetDefault("map.grid.cell_real_length", 10.0)
}

// Load 读取配置: 默认值 < 配置文件 < 环境变量
// cfgFile 为空时在当前目录和 ./configs 中查找 config.yaml (可以不存在)
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	// NAVOVERLAY_DATABASE_HOST -> database.host
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("绑定环境变量失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置，一次性返回所有问题
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Addr == "" {
		errs = append(errs, "server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, "auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, "auth.token_ttl must be positive")
	}
	if c.Map.Profile == "" {
		errs = append(errs, "map.profile is required")
	}
	if !(c.Map.Speed > 0) {
		errs = append(errs, fmt.Sprintf("map.speed must be positive, got %v", c.Map.Speed))
	}
	if err := c.Map.Grid.Validate(); err != nil {
		errs = append(errs, "map.grid: "+err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
