package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/df07/go-resolution-raycaster/internal/config"
	"github.com/df07/go-resolution-raycaster/internal/logger"
	"github.com/df07/go-resolution-raycaster/pkg/geometry"
	"github.com/df07/go-resolution-raycaster/pkg/loaders"
	"github.com/df07/go-resolution-raycaster/pkg/renderer"
)

// RenderFlat renders a flat preview with one random color per triangle.
func RenderFlat(ctx *cli.Context) error {
	return runRender(ctx, config.ModeFlat)
}

// RenderResolution renders the resolution-rate diagnostic.
func RenderResolution(ctx *cli.Context) error {
	return runRender(ctx, config.ModeResolution)
}

func runRender(ctx *cli.Context, mode string) error {
	if ctx.NArg() > 1 {
		return errors.New("expected at most one scene file argument")
	}

	cfg, err := config.LoadFile(ctx.Args().First())
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(overridesFromFlags(ctx, mode))

	if err := setupLogging(ctx, cfg.Logging); err != nil {
		return err
	}
	defer logger.Sync()

	if err := renderWithConfig(ctx, cfg); err != nil {
		logger.Error("render failed", zap.String("mode", cfg.Mode), zap.Error(err))
		return err
	}
	return nil
}

func renderWithConfig(ctx *cli.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	mesh, err := loaders.LoadMesh(cfg.Mesh.Path)
	if err != nil {
		return err
	}
	logger.Info("loaded mesh",
		zap.String("path", cfg.Mesh.Path),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Bool("texcoords", mesh.HasTexCoords()))

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	transform := geometry.Transform{
		Position: cfg.Transform.Position.Vec(),
		Rotation: cfg.Transform.Rotation.Vec(),
		Scale:    cfg.Transform.Scale.Vec(),
	}
	camera := renderer.NewCamera(renderer.CameraConfig{
		Center: cfg.Camera.Position.Vec(),
		LookAt: cfg.Camera.LookAt.Vec(),
		Up:     cfg.Camera.Up.Vec(),
		VFov:   cfg.Camera.FOV,
		Near:   cfg.Camera.Near,
		Width:  cfg.Output.Width,
		Height: cfg.Output.Height,
	})
	opts := renderer.RenderOptions{
		Width:      cfg.Output.Width,
		Height:     cfg.Output.Height,
		Background: cfg.Output.Background.RGBA(),
		Workers:    cfg.Render.Workers,
		TileSize:   cfg.Render.TileSize,
		Logger:     logger.Named("renderer"),
	}

	var img *image.RGBA
	var stats renderer.RenderStats

	switch cfg.Mode {
	case config.ModeResolution:
		textureWidth, textureHeight := cfg.Resolution.TextureWidth, cfg.Resolution.TextureHeight
		if cfg.Resolution.Texture != "" {
			if textureWidth, textureHeight, err = loaders.TextureSize(cfg.Resolution.Texture); err != nil {
				return err
			}
			logger.Debug("read texture size",
				zap.String("path", cfg.Resolution.Texture),
				zap.Int("width", textureWidth),
				zap.Int("height", textureHeight))
		}

		var resolution *renderer.ResolutionStats
		img, resolution, stats, err = renderer.RenderResolutionRate(runCtx, mesh, transform, camera, renderer.ResolutionOptions{
			RenderOptions: opts,
			TextureWidth:  textureWidth,
			TextureHeight: textureHeight,
			MinColor:      cfg.Resolution.MinColor.RGBA(),
			MaxColor:      cfg.Resolution.MaxColor.RGBA(),
		})
		if err != nil {
			return err
		}

		displayResolutionBands(ctx.App.Writer, resolution)
		if cfg.Resolution.StatsCSV != "" {
			if err := loaders.SaveResolutionCSV(cfg.Resolution.StatsCSV, resolution); err != nil {
				return err
			}
			logger.Info("saved resolution stats", zap.String("path", cfg.Resolution.StatsCSV))
		}
	default:
		img, stats, err = renderer.RenderFlat(runCtx, mesh, transform, camera, renderer.FlatOptions{
			RenderOptions: opts,
			Seed:          cfg.Flat.Seed,
		})
		if err != nil {
			return err
		}
	}

	if stats.PixelsHit == 0 {
		logger.Warn("no triangle covers any pixel",
			zap.Any("camera", cfg.Camera.Position),
			zap.Any("look_at", cfg.Camera.LookAt))
	}

	if err := loaders.SaveImage(cfg.Output.Path, img); err != nil {
		return err
	}
	displayRenderStats(ctx.App.Writer, stats)
	logger.Info("render saved", zap.String("path", cfg.Output.Path))

	return nil
}

func overridesFromFlags(ctx *cli.Context, mode string) config.Overrides {
	o := config.Overrides{
		Mesh:          ctx.String("mesh"),
		Output:        ctx.String("out"),
		Mode:          mode,
		Width:         ctx.Int("width"),
		Height:        ctx.Int("height"),
		Workers:       ctx.Int("workers"),
		Texture:       ctx.String("texture"),
		TextureWidth:  ctx.Int("texture-width"),
		TextureHeight: ctx.Int("texture-height"),
		StatsCSV:      ctx.String("stats-csv"),
	}
	if ctx.IsSet("seed") {
		seed := ctx.Int64("seed")
		o.Seed = &seed
	}
	return o
}

func displayRenderStats(w io.Writer, stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pixels", "Pixels hit", "Coverage", "Triangles", "Triangles hit", "Workers", "Tiles", "Trace time"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.Pixels),
		fmt.Sprintf("%d", stats.PixelsHit),
		fmt.Sprintf("%02.1f %%", 100*stats.Coverage()),
		fmt.Sprintf("%d", stats.Triangles),
		fmt.Sprintf("%d", stats.TrianglesHit),
		fmt.Sprintf("%d", stats.Workers),
		fmt.Sprintf("%d", stats.Tiles),
		stats.TraceTime.String(),
	})
	table.SetFooter([]string{"", "", "", "", "", "", "TOTAL", stats.TotalTime.String()})

	table.Render()
	fmt.Fprint(w, buf.String())
}

func displayResolutionBands(w io.Writer, stats *renderer.ResolutionStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Band", "Triangles", "Mean rate", "Min rate", "Max rate"})

	bands := []struct {
		name    string
		summary renderer.BandSummary
	}{
		{"lower (<= 1)", stats.Bands.Lower},
		{"lower-lower", stats.Bands.LowerLower},
		{"lower-upper", stats.Bands.LowerUpper},
		{"upper (> 1)", stats.Bands.Upper},
	}
	for _, band := range bands {
		row := []string{band.name, fmt.Sprintf("%d", band.summary.Count), "-", "-", "-"}
		if band.summary.Count > 0 {
			row[2] = fmt.Sprintf("%.4f", band.summary.Mean)
			row[3] = fmt.Sprintf("%.4f", band.summary.Min)
			row[4] = fmt.Sprintf("%.4f", band.summary.Max)
		}
		table.Append(row)
	}

	withRate := stats.Bands.Lower.Count + stats.Bands.Upper.Count
	table.SetFooter([]string{"no rate", fmt.Sprintf("%d", len(stats.Triangles)-withRate), "", "", ""})

	table.Render()
	fmt.Fprint(w, buf.String())
}
