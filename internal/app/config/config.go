package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	MySQL   MySQLConfig   `mapstructure:"mysql"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Lmstfy  LmstfyConfig  `mapstructure:"lmstfy"`
	Match   MatchConfig   `mapstructure:"match"`
	Claim   ClaimConfig   `mapstructure:"claim"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Refresh RefreshConfig `mapstructure:"refresh"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MySQLConfig MySQL 配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LmstfyConfig Lmstfy 配置
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// MatchConfig 匹配配置
type MatchConfig struct {
	RemoteQueue   string        `mapstructure:"remote_queue"`   // 远端撮合请求队列
	RemoteTimeout time.Duration `mapstructure:"remote_timeout"` // 远端撮合等待上限
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`      // 候选缓存 TTL
}

// ClaimConfig 抢单配置
type ClaimConfig struct {
	MaxRetries  int           `mapstructure:"max_retries"`  // 瞬时错误最大重试次数
	BaseBackoff time.Duration `mapstructure:"base_backoff"` // 重试退避基数
}

// WatchConfig 可用性观察配置
type WatchConfig struct {
	InitialInterval time.Duration `mapstructure:"initial_interval"` // 初始轮询间隔
	MaxInterval     time.Duration `mapstructure:"max_interval"`     // 轮询间隔上限
}

// RefreshConfig 刷新协调配置
type RefreshConfig struct {
	Interval      time.Duration `mapstructure:"interval"`       // 定时兜底刷新周期
	ChangeChannel string        `mapstructure:"change_channel"` // 变更通知频道
}

// Load 从配置文件加载配置
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	// 兼容性处理：缺省值
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Refresh.ChangeChannel == "" {
		cfg.Refresh.ChangeChannel = "matchd:changes"
	}

	return &cfg, nil
}

// LoadDefault 加载默认配置文件路径
func LoadDefault() (*Config, error) {
	return Load("config/config.yaml")
}

// Validate 验证配置完整性
func (c *Config) Validate() error {
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql dsn is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy host is required")
	}
	if c.Match.RemoteQueue == "" {
		return fmt.Errorf("match.remote_queue is required")
	}
	return nil
}
