package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-resolution-raycaster/internal/config"
)

// InitScene writes a scene file with default settings.
func InitScene(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}
	path := ctx.Args().First()

	if _, err := os.Stat(path); err == nil && !ctx.Bool("force") {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}

	cfg := config.Default()
	cfg.ApplyOverrides(config.Overrides{Mesh: ctx.String("mesh")})
	if err := cfg.SaveTo(path); err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "wrote %s\n", path)
	return nil
}
