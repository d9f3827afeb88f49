package main

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ivlev/explainer/internal/config"
	"github.com/ivlev/explainer/internal/engine"
	"github.com/ivlev/explainer/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	workersFlag  *int

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *log.Logger
}

func newCommandContext(configFlag, logLevelFlag *string, workersFlag *int) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		workersFlag:  workersFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(strings.TrimSpace(*c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		cfg.BuildVersion = version
		if *c.logLevelFlag != "" {
			cfg.Logging.Level = *c.logLevelFlag
		}
		if *c.workersFlag > 0 {
			cfg.Workers = *c.workersFlag
		}
		c.config = cfg
		c.logger = logging.New(os.Stderr, cfg.Logging.Level, false)
		if cfg.Source != "" {
			c.logger.Debug("config loaded", "path", cfg.Source)
		}
	})
	return c.config, c.configErr
}

// project builds a pipeline for the loaded config after re-validating any
// flag overrides.
func (c *commandContext) project(cmd *cobra.Command, scenes []string) (*engine.Project, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := engine.NewProject(cfg, c.logger)
	p.Out = cmd.OutOrStdout()
	p.Scenes = scenes
	return p, nil
}
