package main

import (
	"fmt"
	"time"

	"github.com/kbukum/gorunnable/cache"
	"github.com/kbukum/gorunnable/config"
	"github.com/kbukum/gorunnable/observability"
	"github.com/kbukum/gorunnable/resilience"
	"github.com/kbukum/gorunnable/server"
	"github.com/kbukum/gorunnable/transform"
	"github.com/kbukum/gorunnable/validation"
)

const serviceName = "gorunnable"

// AppConfig is the configuration of the gorunnable binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Cache         cache.Config         `yaml:"cache" mapstructure:"cache"`
	Pipeline      PipelineConfig       `yaml:"pipeline" mapstructure:"pipeline"`
}

// PipelineConfig tunes the demo pipelines.
type PipelineConfig struct {
	// MaxConcurrency caps parallel branches in flight. 0 means no limit.
	MaxConcurrency int `yaml:"max_concurrency" mapstructure:"max_concurrency" validate:"gte=0"`

	// StageTimeout bounds one pipeline invocation (e.g. "10s"). "0" disables it.
	StageTimeout string `yaml:"stage_timeout" mapstructure:"stage_timeout" validate:"required"`

	// SummaryThreshold is the word count above which topic_summary summarizes.
	SummaryThreshold int `yaml:"summary_threshold" mapstructure:"summary_threshold" validate:"gte=0"`

	// Retry re-invokes stages that fail transiently. max_attempts 1 disables it.
	Retry resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`

	// Model replaces the built-in stand-in model rules when it has rules.
	Model transform.RulesConfig `yaml:"model" mapstructure:"model" validate:"-"`
}

func defaultValues() map[string]any {
	return map[string]any{
		"name":                        serviceName,
		"logging.output":              "stderr",
		"pipeline.stage_timeout":      "30s",
		"pipeline.summary_threshold":  100,
		"pipeline.retry.max_attempts": 1,
	}
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
	c.Cache.ApplyDefaults()
	if c.Pipeline.StageTimeout == "" {
		c.Pipeline.StageTimeout = "30s"
	}
	c.Pipeline.Retry.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.Pipeline); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.Pipeline.Retry.Validate(); err != nil {
		return fmt.Errorf("pipeline.%w", err)
	}
	if _, err := time.ParseDuration(c.Pipeline.StageTimeout); err != nil {
		return fmt.Errorf("pipeline.stage_timeout is invalid (got: %s): %w", c.Pipeline.StageTimeout, err)
	}
	return nil
}

func (c *PipelineConfig) stageTimeout() time.Duration {
	d, _ := time.ParseDuration(c.StageTimeout)
	return d
}
