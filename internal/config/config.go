package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Table    TableConfig    `mapstructure:"table"`
	Session  SessionConfig  `mapstructure:"session"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Expire int    `mapstructure:"expire"` // hours
}

// TableConfig holds the house rules every lobby's table is created with.
type TableConfig struct {
	SeatCapacity    int           `mapstructure:"seatCapacity"`
	StartingBalance int64         `mapstructure:"startingBalance"`
	Ante            int64         `mapstructure:"ante"`
	NextHandDelay   time.Duration `mapstructure:"nextHandDelay"`
}

type SessionConfig struct {
	TTL              time.Duration `mapstructure:"ttl"`
	ReconnectGrace   time.Duration `mapstructure:"reconnectGrace"`
	NameCacheSize    int           `mapstructure:"nameCacheSize"`
	ActionsPerSecond float64       `mapstructure:"actionsPerSecond"`
	ActionBurst      int           `mapstructure:"actionBurst"`
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		SeatCapacity:    5,
		StartingBalance: 100,
		Ante:            5,
		NextHandDelay:   3 * time.Second,
	}
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TTL:              24 * time.Hour,
		ReconnectGrace:   10 * time.Second,
		NameCacheSize:    1024,
		ActionsPerSecond: 10,
		ActionBurst:      20,
	}
}

var GlobalConfig *Config

func setDefaults(v *viper.Viper) {
	table := DefaultTableConfig()
	session := DefaultSessionConfig()

	v.SetDefault("server.port", "1234")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("jwt.expire", 24)
	v.SetDefault("table.seatCapacity", table.SeatCapacity)
	v.SetDefault("table.startingBalance", table.StartingBalance)
	v.SetDefault("table.ante", table.Ante)
	v.SetDefault("table.nextHandDelay", table.NextHandDelay)
	v.SetDefault("session.ttl", session.TTL)
	v.SetDefault("session.reconnectGrace", session.ReconnectGrace)
	v.SetDefault("session.nameCacheSize", session.NameCacheSize)
	v.SetDefault("session.actionsPerSecond", session.ActionsPerSecond)
	v.SetDefault("session.actionBurst", session.ActionBurst)
}

// Load reads the YAML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Table.SeatCapacity <= 0 || cfg.Table.SeatCapacity > 5 {
		cfg.Table.SeatCapacity = 5
	}
	return &cfg, nil
}

func LoadConfig(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}
	GlobalConfig = cfg
}
