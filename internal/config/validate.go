package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateGenerator(); err != nil {
		return err
	}
	if err := c.validateFrames(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if _, err := c.Registry(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTimeline() error {
	if err := ensurePositiveFloat("timeline.duration", c.Timeline.Duration); err != nil {
		return err
	}
	if err := ensurePositiveFloat("timeline.speed", c.Timeline.Speed); err != nil {
		return err
	}
	if c.Timeline.TickIntervalMS <= 0 {
		return errors.New("timeline.tick_interval_ms must be positive")
	}
	return nil
}

func (c *Config) validateGenerator() error {
	if c.Generator.Count <= 0 {
		return errors.New("generator.count must be positive")
	}
	return nil
}

func (c *Config) validateFrames() error {
	if err := ensurePositiveFloat("frames.fps", c.Frames.FPS); err != nil {
		return err
	}
	if c.Frames.Workers < 0 {
		return errors.New("frames.workers must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func ensurePositiveFloat(key string, value float64) error {
	if !(value > 0) || math.IsInf(value, 0) {
		return fmt.Errorf("%s must be positive", key)
	}
	return nil
}
