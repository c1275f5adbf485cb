// Package config 提供应用配置管理功能
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	once         sync.Once
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Business  BusinessConfig  `mapstructure:"business"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Name            string `mapstructure:"name"`
	Mode            string `mapstructure:"mode"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogMode         bool   `mapstructure:"log_mode"`
	SlowThreshold   int    `mapstructure:"slow_threshold"`
	MaxTxRetries    int    `mapstructure:"max_tx_retries"`
}

// DSN 返回数据库连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.Timezone,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  int    `mapstructure:"dial_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// Addr 返回 Redis 地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	AccessTokenExpire  int    `mapstructure:"access_token_expire"`
	RefreshTokenExpire int    `mapstructure:"refresh_token_expire"`
	Issuer             string `mapstructure:"issuer"`
}

// AccessTokenDuration 返回访问令牌有效期
func (j *JWTConfig) AccessTokenDuration() time.Duration {
	return time.Duration(j.AccessTokenExpire) * time.Hour
}

// RefreshTokenDuration 返回刷新令牌有效期
func (j *JWTConfig) RefreshTokenDuration() time.Duration {
	return time.Duration(j.RefreshTokenExpire) * time.Hour
}

// GatewayConfig 支付网关配置
type GatewayConfig struct {
	Provider     string `mapstructure:"provider"`
	ConfirmDelay int    `mapstructure:"confirm_delay"`
}

// ConfirmDelayDuration 返回网关确认回调的模拟延迟
func (g *GatewayConfig) ConfirmDelayDuration() time.Duration {
	return time.Duration(g.ConfirmDelay) * time.Millisecond
}

// AnalyticsConfig 预测分析服务配置
type AnalyticsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Timeout  int    `mapstructure:"timeout"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Caller     bool   `mapstructure:"caller"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// TracingConfig 链路追踪配置
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// BusinessConfig 业务配置
type BusinessConfig struct {
	Booking BookingConfig `mapstructure:"booking"`
}

// BookingConfig 预订配置
type BookingConfig struct {
	RoomLockTTL          int `mapstructure:"room_lock_ttl"`
	RoomLockWaitTimeout  int `mapstructure:"room_lock_wait_timeout"`
	PendingStaleMinutes  int `mapstructure:"pending_stale_minutes"`
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		// 设置配置文件路径
		if configPath != "" {
			v.SetConfigFile(configPath)
		} else {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath("./configs")
			v.AddConfigPath(".")
		}

		// 环境变量支持
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		// 设置默认值
		setDefaults(v)

		// 读取配置文件
		if err = v.ReadInConfig(); err != nil {
			// 如果配置文件不存在，使用默认值
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return
			}
			err = nil
		}

		// 解析配置
		globalConfig = &Config{}
		if err = v.Unmarshal(globalConfig); err != nil {
			return
		}
	})

	return globalConfig, err
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		// 使用默认配置
		globalConfig = &Config{}
		v := viper.New()
		setDefaults(v)
		_ = v.Unmarshal(globalConfig)
	}
	return globalConfig
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.name", "quantum-saas")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 10)

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "quantum_saas")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_mode", true)
	v.SetDefault("database.slow_threshold", 200)
	v.SetDefault("database.max_tx_retries", 3)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 100)
	v.SetDefault("redis.min_idle_conns", 10)
	v.SetDefault("redis.dial_timeout", 5)
	v.SetDefault("redis.read_timeout", 3)
	v.SetDefault("redis.write_timeout", 3)

	// JWT defaults
	v.SetDefault("jwt.secret", "your-super-secret-key-change-in-production")
	v.SetDefault("jwt.access_token_expire", 168)
	v.SetDefault("jwt.refresh_token_expire", 720)
	v.SetDefault("jwt.issuer", "quantum-saas")

	// Gateway defaults
	v.SetDefault("gateway.provider", "simulated")
	v.SetDefault("gateway.confirm_delay", 3000)

	// Analytics defaults
	v.SetDefault("analytics.enabled", false)
	v.SetDefault("analytics.endpoint", "http://localhost:8081/weka/predict")
	v.SetDefault("analytics.timeout", 5)

	// Logger defaults
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "./logs/app.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.caller", true)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9100)
	v.SetDefault("metrics.path", "/metrics")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "quantum-saas")
	v.SetDefault("tracing.sample_rate", 1.0)

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_second", 100)
	v.SetDefault("ratelimit.burst", 200)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 86400)

	// Business defaults
	v.SetDefault("business.booking.room_lock_ttl", 10)
	v.SetDefault("business.booking.room_lock_wait_timeout", 3)
	v.SetDefault("business.booking.pending_stale_minutes", 30)
	v.SetDefault("business.booking.sweep_interval_minutes", 5)
}

// IsDebug 是否为调试模式
func (c *Config) IsDebug() bool {
	return c.Server.Mode == "debug"
}

// IsRelease 是否为发布模式
func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}
