package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTimeline()
	c.normalizeLogging()
	c.normalizeParameters()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTimeline() {
	if c.Timeline.TickIntervalMS == 0 {
		c.Timeline.TickIntervalMS = defaultTickIntervalMS
	}
	if c.Timeline.Speed == 0 {
		c.Timeline.Speed = defaultSpeed
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if value, ok := os.LookupEnv("MORPHER_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = strings.ToLower(strings.TrimSpace(value))
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeParameters() {
	for i := range c.Parameters {
		p := &c.Parameters[i]
		p.Path = strings.TrimSpace(p.Path)
		p.Label = strings.TrimSpace(p.Label)
		p.Kind = strings.ToLower(strings.TrimSpace(p.Kind))
		for j, opt := range p.Options {
			p.Options[j] = strings.TrimSpace(opt)
		}
	}
}
