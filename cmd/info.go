package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/df07/go-resolution-raycaster/internal/config"
	"github.com/df07/go-resolution-raycaster/internal/logger"
	"github.com/df07/go-resolution-raycaster/pkg/core"
	"github.com/df07/go-resolution-raycaster/pkg/geometry"
	"github.com/df07/go-resolution-raycaster/pkg/loaders"
	"github.com/df07/go-resolution-raycaster/pkg/renderer"
)

// MeshInfo prints vertex, triangle and texture coordinate statistics of a mesh.
// With --texture-width and --texture-height it also sums the texel area.
func MeshInfo(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("missing mesh file argument")
	}

	if err := setupLogging(ctx, config.Default().Logging); err != nil {
		return err
	}
	defer logger.Sync()

	path := ctx.Args().First()
	mesh, err := loaders.LoadMesh(path)
	if err != nil {
		return err
	}

	displayMeshInfo(ctx.App.Writer, path, mesh, ctx.Int("texture-width"), ctx.Int("texture-height"))
	return nil
}

func displayMeshInfo(w io.Writer, path string, mesh *geometry.Mesh, textureWidth, textureHeight int) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})

	lo, hi := mesh.Bounds()
	table.Append([]string{"File", path})
	table.Append([]string{"Vertices", fmt.Sprintf("%d", len(mesh.Vertices))})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", mesh.TriangleCount())})
	table.Append([]string{"Texture coordinates", fmt.Sprintf("%t", mesh.HasTexCoords())})
	table.Append([]string{"Bounds min", formatVec(lo)})
	table.Append([]string{"Bounds max", formatVec(hi)})

	if mesh.HasTexCoords() && textureWidth > 0 && textureHeight > 0 {
		total := 0.0
		world := mesh.ToWorld(geometry.IdentityTransform())
		for i := 0; i < world.TriangleCount(); i++ {
			uv1, uv2, uv3 := world.TriangleUV(i)
			total += renderer.TexelArea(uv1, uv2, uv3, textureWidth, textureHeight)
		}
		table.Append([]string{"Texel area", fmt.Sprintf("%.1f", total)})
	}

	table.Render()
	fmt.Fprint(w, buf.String())
}

func formatVec(v core.Vec3) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
}
