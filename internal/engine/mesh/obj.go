package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/skylark/internal/logger"
	"github.com/Faultbox/skylark/pkg/math"
)

// ErrNoGeometry is returned for OBJ input without a single face.
var ErrNoGeometry = errors.New("mesh: no geometry")

// Load reads an OBJ file and any MTL libraries it references from the same
// directory. Texture paths in the result are relative to the working
// directory, like path.
func Load(filename string) (*Model, error) {
	dir := filepath.Dir(filename)
	m, err := LoadFS(os.DirFS(dir), filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	for i := range m.Materials {
		if tex := m.Materials[i].DiffuseTexture; tex != "" {
			m.Materials[i].DiffuseTexture = filepath.Join(dir, filepath.FromSlash(tex))
		}
	}
	return m, nil
}

// LoadFS reads an OBJ file from fsys. Texture paths are relative to fsys.
func LoadFS(fsys fs.FS, name string) (*Model, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f, fsys, path.Dir(name))
}

// Parse reads OBJ text. mtllib statements are ignored.
func Parse(r io.Reader) (*Model, error) {
	return parse(r, nil, "")
}

type vertexKey struct {
	v, vt, vn int
	gen       math.Vec3 // generated face normal when vn is absent
}

type corner struct {
	v, vt, vn int // zero-based, -1 when absent
}

type builder struct {
	mesh Mesh
	keys map[vertexKey]uint32
}

func newBuilder(name string) *builder {
	return &builder{mesh: Mesh{Name: name}, keys: make(map[vertexKey]uint32)}
}

type objParser struct {
	fsys fs.FS
	dir  string
	log  *zap.Logger

	positions []math.Vec3
	texcoords [][2]float32
	normals   []math.Vec3

	model    Model
	matIndex map[string]int
	material int
	current  *builder
	finished []Mesh
}

func parse(r io.Reader, fsys fs.FS, dir string) (*Model, error) {
	p := &objParser{
		fsys:     fsys,
		dir:      dir,
		log:      logger.Named("mesh"),
		matIndex: make(map[string]int),
		material: -1,
		current:  newBuilder(""),
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		if err := p.handle(parts); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	p.flush()
	if len(p.finished) == 0 {
		return nil, ErrNoGeometry
	}
	p.model.Meshes = p.finished
	return &p.model, nil
}

func (p *objParser) handle(parts []string) error {
	switch parts[0] {
	case "v":
		v, err := parseVec3(parts[1:])
		if err != nil {
			return fmt.Errorf("invalid vertex: %w", err)
		}
		p.positions = append(p.positions, v)
	case "vn":
		n, err := parseVec3(parts[1:])
		if err != nil {
			return fmt.Errorf("invalid normal: %w", err)
		}
		p.normals = append(p.normals, n)
	case "vt":
		uv, err := parseTexCoord(parts[1:])
		if err != nil {
			return fmt.Errorf("invalid texture coordinate: %w", err)
		}
		p.texcoords = append(p.texcoords, uv)
	case "f":
		return p.face(parts[1:])
	case "o", "g":
		name := ""
		if len(parts) > 1 {
			name = strings.Join(parts[1:], " ")
		}
		p.flush()
		p.current = newBuilder(name)
	case "usemtl":
		if len(parts) < 2 {
			return errors.New("usemtl without a name")
		}
		idx, ok := p.matIndex[parts[1]]
		if !ok {
			p.log.Debug("material not found", zap.String("material", parts[1]))
			idx = -1
		}
		p.material = idx
	case "mtllib":
		for _, lib := range parts[1:] {
			p.loadLibrary(lib)
		}
	}
	return nil
}

// flush moves the current object into the finished list if it has faces.
func (p *objParser) flush() {
	if p.current != nil && len(p.current.mesh.Indices) > 0 {
		p.finished = append(p.finished, p.current.mesh)
	}
	p.current = nil
}

func (p *objParser) loadLibrary(name string) {
	if p.fsys == nil {
		return
	}
	f, err := p.fsys.Open(path.Join(p.dir, name))
	if err != nil {
		p.log.Warn("material library unavailable", zap.String("file", name), zap.Error(err))
		return
	}
	defer f.Close()

	mats, err := ParseMTL(f, p.dir)
	if err != nil {
		p.log.Warn("material library unreadable", zap.String("file", name), zap.Error(err))
		return
	}
	for _, m := range mats {
		if _, dup := p.matIndex[m.Name]; dup {
			continue
		}
		p.matIndex[m.Name] = len(p.model.Materials)
		p.model.Materials = append(p.model.Materials, m)
	}
}

func (p *objParser) face(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}

	corners := make([]corner, len(fields))
	missingNormal := false
	for i, f := range fields {
		c, err := p.parseCorner(f)
		if err != nil {
			return err
		}
		if c.vn < 0 {
			missingNormal = true
		}
		corners[i] = c
	}

	var gen math.Vec3
	if missingNormal {
		a := p.positions[corners[0].v]
		b := p.positions[corners[1].v]
		c := p.positions[corners[2].v]
		gen = b.Sub(a).Cross(c.Sub(a)).Normalize()
	}

	if p.current == nil {
		p.current = newBuilder("")
	}
	for i := 1; i+1 < len(corners); i++ {
		p.emit(corners[0], gen)
		p.emit(corners[i], gen)
		p.emit(corners[i+1], gen)
	}
	return nil
}

// emit appends one index, reusing an existing vertex for a repeated corner.
func (p *objParser) emit(c corner, gen math.Vec3) {
	b := p.current
	key := vertexKey{v: c.v, vt: c.vt, vn: c.vn}
	if c.vn < 0 {
		key.gen = gen
	}

	idx, ok := b.keys[key]
	if !ok {
		pos := p.positions[c.v]
		vert := Vertex{Position: pos.Array()}
		if c.vt >= 0 {
			vert.TexCoord = p.texcoords[c.vt]
		}
		if c.vn >= 0 {
			vert.Normal = p.normals[c.vn].Array()
		} else {
			vert.Normal = gen.Array()
		}
		idx = uint32(len(b.mesh.Vertices))
		b.mesh.Bounds.extend(pos, idx == 0)
		b.mesh.Vertices = append(b.mesh.Vertices, vert)
		b.keys[key] = idx
	}

	groups := b.mesh.Groups
	if len(groups) == 0 || groups[len(groups)-1].Material != p.material {
		b.mesh.Groups = append(groups, Group{
			Material:   p.material,
			StartIndex: int32(len(b.mesh.Indices)),
		})
	}
	b.mesh.Groups[len(b.mesh.Groups)-1].IndexCount++
	b.mesh.Indices = append(b.mesh.Indices, idx)
}

func (p *objParser) parseCorner(s string) (corner, error) {
	vals := strings.Split(s, "/")
	if len(vals) > 3 {
		return corner{}, fmt.Errorf("malformed face vertex %q", s)
	}

	c := corner{vt: -1, vn: -1}
	var err error
	if c.v, err = resolveIndex(vals[0], len(p.positions)); err != nil {
		return corner{}, fmt.Errorf("vertex index: %w", err)
	}
	if len(vals) > 1 && vals[1] != "" {
		if c.vt, err = resolveIndex(vals[1], len(p.texcoords)); err != nil {
			return corner{}, fmt.Errorf("texture coordinate index: %w", err)
		}
	}
	if len(vals) > 2 && vals[2] != "" {
		if c.vn, err = resolveIndex(vals[2], len(p.normals)); err != nil {
			return corner{}, fmt.Errorf("normal index: %w", err)
		}
	}
	return c, nil
}

// resolveIndex converts a one-based or negative (relative) OBJ index to a
// zero-based index into a list of n elements.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range (%d defined)", i, n)
}

func parseVec3(parts []string) (math.Vec3, error) {
	if len(parts) < 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(parts))
	}
	var v [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("invalid value %q", parts[i])
		}
		v[i] = float32(f)
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseTexCoord(parts []string) ([2]float32, error) {
	var uv [2]float32
	if len(parts) == 0 {
		return uv, errors.New("expected at least 1 component")
	}
	for i := 0; i < len(parts) && i < 2; i++ {
		f, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return uv, fmt.Errorf("invalid value %q", parts[i])
		}
		uv[i] = float32(f)
	}
	return uv, nil
}
