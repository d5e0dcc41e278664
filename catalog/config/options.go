package config

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithLogSink(sink string) Option {
	return func(c *Config) {
		if sink != "" {
			c.Log.Sink = sink
		}
	}
}

func WithBaseURL(url string) Option {
	return func(c *Config) {
		if url != "" {
			c.API.BaseURL = url
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.API.Timeout = d
		}
	}
}

func WithPageSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.List.PageSize = n
		}
	}
}
