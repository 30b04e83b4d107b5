package cmd

import (
	"github.com/urfave/cli"

	"github.com/df07/go-resolution-raycaster/internal/config"
	"github.com/df07/go-resolution-raycaster/internal/logger"
)

// setupLogging initializes the global logger from the logging config.
// The global -v and --log-file flags take priority over the config.
func setupLogging(ctx *cli.Context, cfg config.LoggingConfig) error {
	if ctx.GlobalBool("v") {
		cfg.Level = "debug"
	}
	if logFile := ctx.GlobalString("log-file"); logFile != "" {
		cfg.LogFile = logFile
	}
	return logger.Init(cfg.Level, cfg.LogFile)
}
