package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string // development / production
	HTTP  HTTP
	Admin AdminHTTP
}

type LogRotate struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Compress   bool   `mapstructure:"compress"`
}

type Log struct {
	Level  string
	JSON   bool
	Rotate LogRotate `mapstructure:"rotate"`
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

// Auth 凭证核心参数：bcrypt 代价、锁定阈值、临时口令有效期
type Auth struct {
	BcryptCost       int `mapstructure:"bcryptCost"`
	MaxLoginAttempts int `mapstructure:"maxLoginAttempts"`
	ResetTokenTTLMin int `mapstructure:"resetTokenTTLMin"`
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string // mysql / postgres / sqlite
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	Auth  Auth
	SMTP  SMTP
	DB    DB
	Redis Redis `mapstructure:"redis"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	c.fillDefaults()
	return &c
}

func (c *Config) fillDefaults() {
	if c.JWT.AccessTokenTTLMin <= 0 {
		c.JWT.AccessTokenTTLMin = 60
	}
	if c.Auth.BcryptCost <= 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Auth.MaxLoginAttempts <= 0 {
		c.Auth.MaxLoginAttempts = 5
	}
	if c.Auth.ResetTokenTTLMin <= 0 {
		c.Auth.ResetTokenTTLMin = 60
	}
	if c.Log.Rotate.Enable {
		if c.Log.Rotate.Filename == "" {
			c.Log.Rotate.Filename = "logs/app.log"
		}
		if c.Log.Rotate.MaxSizeMB <= 0 {
			c.Log.Rotate.MaxSizeMB = 100
		}
	}
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenTTLMin) * time.Minute
}

func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.Auth.ResetTokenTTLMin) * time.Minute
}

func (c *Config) IsDev() bool { return c.App.Env != "production" }
