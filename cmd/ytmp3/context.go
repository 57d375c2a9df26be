package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ytmp3/internal/catalog"
	"ytmp3/internal/config"
	"ytmp3/internal/logging"
	"ytmp3/internal/progress"
	"ytmp3/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = services.Wrap(services.ErrConfiguration, "config", "log level", "", err)
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configSource() string {
	if c.configExists {
		return c.configPath
	}
	return "defaults (no file at " + c.configPath + ")"
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) httpClient() *http.Client {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return &http.Client{}
	}
	return &http.Client{Timeout: cfg.RequestTimeout()}
}

func (c *commandContext) newCatalog(logger *slog.Logger) *catalog.YouTube {
	opts := []catalog.Option{
		catalog.WithHTTPClient(c.httpClient()),
		catalog.WithLogger(logger),
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg.YouTube.PlaylistFallback {
		opts = append(opts, catalog.WithPlaylistFallback(catalog.NewYtdlpLister()))
	}
	return catalog.NewYouTube(opts...)
}

// progressFactory draws in place on terminals and logs sampled lines
// everywhere else, including when tests capture output.
func progressFactory(out io.Writer, logger *slog.Logger) *progress.Factory {
	if f, ok := out.(*os.File); ok {
		return progress.NewFactory(f, logger)
	}
	return progress.NewWriterFactory(out, false, logger)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
