package config

import (
	"go.uber.org/zap/zapcore"
)

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithAddr(host, port string) Option {
	return func(c *Config) {
		if host != "" {
			c.Server.Host = host
		}
		if port != "" {
			c.Server.Port = port
		}
	}
}

func WithDSN(dsn string) Option {
	return func(c *Config) {
		if dsn != "" {
			c.Database.DSN = dsn
		}
	}
}

func WithSeed(seed bool) Option {
	return func(c *Config) {
		c.Database.Seed = seed
	}
}
