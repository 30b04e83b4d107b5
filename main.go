package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-resolution-raycaster/cmd"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-resolution-raycaster"
	app.Usage = "ray cast triangle meshes into flat previews and texture resolution diagnostics"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write JSON logs to this file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a mesh",
			Subcommands: []cli.Command{
				{
					Name:  "flat",
					Usage: "render one random color per triangle",
					Description: `
Cast one ray per pixel and paint each pixel with the color of the first
triangle (in file order) that the ray hits. Pixels without a hit get the
background color.`,
					ArgsUsage: "[scene.yaml]",
					Flags:     renderFlags(),
					Action:    cmd.RenderFlat,
				},
				{
					Name:  "resolution",
					Usage: "render the texture resolution rate diagnostic",
					Description: `
Compare the texel area of each triangle with the number of pixels it covers
and color every pixel by the normalized rate of its triangle. Rates at or
below 1 fall into four bands with edges at the means of the rates below and
above 0.3344944 and at the mean of all of them. Rates above 1 fall into two
bands split at their mean.

The mesh must carry texture coordinates. The texture size comes from
--texture or from --texture-width and --texture-height.`,
					ArgsUsage: "[scene.yaml]",
					Flags:     renderFlags(),
					Action:    cmd.RenderResolution,
				},
			},
		},
		{
			Name:      "info",
			Usage:     "print mesh statistics",
			ArgsUsage: "mesh_file.{ply,obj}",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "texture-width",
					Usage: "texture width used to report texel area",
				},
				cli.IntFlag{
					Name:  "texture-height",
					Usage: "texture height used to report texel area",
				},
			},
			Action: cmd.MeshInfo,
		},
		{
			Name:      "init",
			Usage:     "write a scene file with default settings",
			ArgsUsage: "scene.yaml",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "mesh",
					Usage: "mesh file referenced by the scene",
				},
				cli.BoolFlag{
					Name:  "force, f",
					Usage: "overwrite an existing file",
				},
			},
			Action: cmd.InitScene,
		},
	}

	return app
}

// renderFlags override values from the scene file when set.
func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "mesh, m",
			Usage: "PLY or OBJ mesh to render",
		},
		cli.StringFlag{
			Name:  "out, o",
			Usage: "image filename for the rendered frame (.png, .jpg or .bmp)",
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "frame height",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "seed for the flat color table",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of render workers (0 uses all CPUs)",
		},
		cli.StringFlag{
			Name:  "texture",
			Usage: "texture image whose size drives the resolution rate",
		},
		cli.IntFlag{
			Name:  "texture-width",
			Usage: "texture width when no texture image is given",
		},
		cli.IntFlag{
			Name:  "texture-height",
			Usage: "texture height when no texture image is given",
		},
		cli.StringFlag{
			Name:  "stats-csv",
			Usage: "write per-triangle resolution rates to this CSV file",
		},
	}
}
