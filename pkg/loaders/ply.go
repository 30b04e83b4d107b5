package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-resolution-raycaster/pkg/core"
	"github.com/df07/go-resolution-raycaster/pkg/geometry"
)

// ErrInvalidPLY is returned for files that do not follow the PLY layout
var ErrInvalidPLY = errors.New("loaders: invalid PLY file")

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is one element block declared in the header, such as vertex or face
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// LoadPLY loads a PLY file into a mesh. Vertex u/v (or s/t) properties become
// texture coordinates; polygons with more than three corners are fanned into triangles.
func LoadPLY(filename string) (*geometry.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return mesh, nil
}

// ReadPLY reads a PLY stream in ASCII or binary format
func ReadPLY(r io.Reader) (*geometry.Mesh, error) {
	reader := bufio.NewReaderSize(r, 1024*1024) // 1MB buffer

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values plyValueReader
	switch header.Format {
	case "binary_little_endian":
		values = &binaryPLYValues{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryPLYValues{reader: reader, order: binary.BigEndian}
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiPLYValues{scanner: scanner}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.Format)
	}

	builder := plyMeshBuilder{}
	for _, element := range header.Elements {
		if err := builder.readElement(values, element); err != nil {
			return nil, fmt.Errorf("failed to read %s data: %w", element.Name, err)
		}
	}

	return geometry.NewMesh(builder.vertices, builder.faces, builder.texCoords)
}

// parsePLYHeader parses the header lines up to and including end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	line, err := readHeaderLine(reader)
	if err != nil {
		return nil, err
	}
	if line != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic number", ErrInvalidPLY)
	}

	for {
		line, err := readHeaderLine(reader)
		if err != nil {
			return nil, err
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid format line %q", ErrInvalidPLY, line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid element line %q", ErrInvalidPLY, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count %q", ErrInvalidPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("%w: property before any element", ErrInvalidPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current := &header.Elements[len(header.Elements)-1]
			current.Props = append(current.Props, prop)
		default:
			return nil, fmt.Errorf("%w: unknown header keyword %q", ErrInvalidPLY, parts[0])
		}
	}

	if header.Format == "" {
		return nil, fmt.Errorf("%w: missing format line", ErrInvalidPLY)
	}
	return header, nil
}

func readHeaderLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: header ended before end_header", ErrInvalidPLY)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("%w: invalid property definition", ErrInvalidPLY)
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("%w: invalid list property definition", ErrInvalidPLY)
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
		if getTypeSize(prop.ListType) == 0 || getTypeSize(prop.DataType) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unsupported list types %s %s", ErrInvalidPLY, prop.ListType, prop.DataType)
		}
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
		if getTypeSize(prop.Type) == 0 {
			return PLYProperty{}, fmt.Errorf("%w: unsupported data type %s", ErrInvalidPLY, prop.Type)
		}
	}

	return prop, nil
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader reads the next scalar of the given PLY type from the body
type plyValueReader interface {
	next(dataType string) (float64, error)
}

type binaryPLYValues struct {
	reader io.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

func (b *binaryPLYValues) next(dataType string) (float64, error) {
	data := b.buf[:getTypeSize(dataType)]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
	return 0, fmt.Errorf("unsupported data type: %s", dataType)
}

type asciiPLYValues struct {
	scanner *bufio.Scanner
}

func (a *asciiPLYValues) next(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	value, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, a.scanner.Text())
	}
	return value, nil
}

// Counts in the header are untrusted: slices start at most this large and grow
// as data is actually read.
const maxPLYPrealloc = 1 << 20

// maxPLYListLength bounds the corner count of a single face
const maxPLYListLength = 1 << 16

// plyMeshBuilder collects the vertex and face elements; other elements are skipped
type plyMeshBuilder struct {
	vertices  []core.Vec3
	faces     []int
	texCoords []core.Vec2
}

func (mb *plyMeshBuilder) readElement(values plyValueReader, element PLYElement) error {
	switch element.Name {
	case "vertex":
		return mb.readVertices(values, element)
	case "face":
		return mb.readFaces(values, element)
	}
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			if _, err := readProperty(values, prop); err != nil {
				return fmt.Errorf("element %d, property %s: %w", i, prop.Name, err)
			}
		}
	}
	return nil
}

func (mb *plyMeshBuilder) readVertices(values plyValueReader, element PLYElement) error {
	uIndex, vIndex := -1, -1
	for i, prop := range element.Props {
		switch prop.Name {
		case "u", "s", "texture_u":
			uIndex = i
		case "v", "t", "texture_v":
			vIndex = i
		}
	}
	hasTexCoords := uIndex >= 0 && vIndex >= 0

	mb.vertices = make([]core.Vec3, 0, min(element.Count, maxPLYPrealloc))
	if hasTexCoords {
		mb.texCoords = make([]core.Vec2, 0, min(element.Count, maxPLYPrealloc))
	}

	for i := 0; i < element.Count; i++ {
		var position core.Vec3
		var uv core.Vec2
		for j, prop := range element.Props {
			list, err := readProperty(values, prop)
			if err != nil {
				return fmt.Errorf("vertex %d, property %s: %w", i, prop.Name, err)
			}
			if prop.IsList {
				continue
			}
			value := list[0]
			switch {
			case prop.Name == "x":
				position.X = value
			case prop.Name == "y":
				position.Y = value
			case prop.Name == "z":
				position.Z = value
			case j == uIndex:
				uv.X = value
			case j == vIndex:
				uv.Y = value
			}
		}
		mb.vertices = append(mb.vertices, position)
		if hasTexCoords {
			mb.texCoords = append(mb.texCoords, uv)
		}
	}
	return nil
}

func (mb *plyMeshBuilder) readFaces(values plyValueReader, element PLYElement) error {
	mb.faces = make([]int, 0, 3*min(element.Count, maxPLYPrealloc)) // Assuming triangular faces

	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			list, err := readProperty(values, prop)
			if err != nil {
				return fmt.Errorf("face %d, property %s: %w", i, prop.Name, err)
			}
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				continue
			}
			if len(list) < 3 {
				return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidPLY, i, len(list))
			}

			// Fan triangulation around the first corner
			for k := 1; k+1 < len(list); k++ {
				mb.faces = append(mb.faces, int(list[0]), int(list[k]), int(list[k+1]))
			}
		}
	}
	return nil
}

// readProperty reads one property value; list properties return every entry
func readProperty(values plyValueReader, prop PLYProperty) ([]float64, error) {
	if !prop.IsList {
		value, err := values.next(prop.Type)
		if err != nil {
			return nil, err
		}
		return []float64{value}, nil
	}

	count, err := values.next(prop.ListType)
	if err != nil {
		return nil, err
	}
	if count < 0 || count > maxPLYListLength {
		return nil, fmt.Errorf("%w: list length %g", ErrInvalidPLY, count)
	}

	list := make([]float64, 0, min(int(count), 8))
	for i := 0; i < int(count); i++ {
		value, err := values.next(prop.DataType)
		if err != nil {
			return nil, err
		}
		list = append(list, value)
	}
	return list, nil
}
