package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

const quadOBJ = `
# unit quad in the XZ plane
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 1 0
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseQuadTriangulates(t *testing.T) {
	m, err := Parse(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(m.Meshes))
	}
	mesh := m.Meshes[0]

	if len(mesh.Vertices) != 4 {
		t.Errorf("expected 4 unique vertices, got %d", len(mesh.Vertices))
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	if len(mesh.Indices) != len(want) {
		t.Fatalf("indices = %v, want %v", mesh.Indices, want)
	}
	for i := range want {
		if mesh.Indices[i] != want[i] {
			t.Errorf("indices = %v, want %v", mesh.Indices, want)
			break
		}
	}
	if m.Triangles() != 2 {
		t.Errorf("Triangles() = %d, want 2", m.Triangles())
	}
	if mesh.Vertices[2].TexCoord != [2]float32{1, 1} {
		t.Errorf("texcoord = %v", mesh.Vertices[2].TexCoord)
	}
	if mesh.Vertices[0].Normal != [3]float32{0, 1, 0} {
		t.Errorf("normal = %v", mesh.Vertices[0].Normal)
	}
}

func TestParsePentagonFan(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 2 1 0
v 1 2 0
v 0 1 0
f 1 2 3 4 5
`
	m, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := m.Meshes[0].Indices
	want := []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("indices = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("indices = %v, want %v", got, want)
		}
	}
}

func TestParseGeneratesFaceNormals(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1 2 3
f 1 4 2
`
	m, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mesh := m.Meshes[0]

	// The shared corners sit on faces with different normals, so they split.
	if len(mesh.Vertices) != 6 {
		t.Errorf("expected 6 vertices after splitting by face normal, got %d", len(mesh.Vertices))
	}
	if n := mesh.Vertices[mesh.Indices[0]].Normal; n != [3]float32{0, 0, 1} {
		t.Errorf("first face normal = %v, want +Z", n)
	}
	if n := mesh.Vertices[mesh.Indices[3]].Normal; n != [3]float32{0, 1, 0} {
		t.Errorf("second face normal = %v, want +Y", n)
	}
}

func TestParseNegativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	m, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := m.Meshes[0].Vertices[1].Position; got != [3]float32{1, 0, 0} {
		t.Errorf("relative index resolved to %v", got)
	}
}

func TestParseObjectsSplitMeshes(t *testing.T) {
	src := `
o wing
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
o tail
v 0 0 5
f 1 2 4
`
	m, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(m.Meshes))
	}
	if m.Meshes[0].Name != "wing" || m.Meshes[1].Name != "tail" {
		t.Errorf("names = %q, %q", m.Meshes[0].Name, m.Meshes[1].Name)
	}
	if len(m.Meshes[1].Vertices) != 3 {
		t.Errorf("second mesh should only hold its own vertices, got %d", len(m.Meshes[1].Vertices))
	}
	b := m.Bounds()
	if b.Max.Z != 5 || b.Max.X != 1 {
		t.Errorf("model bounds = %+v", b)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad vertex", "v 0 x 0\n"},
		{"short vertex", "v 0 0\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"degenerate face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"bad normal index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "line") {
				t.Errorf("error %q should name the line", err)
			}
		})
	}
}

func TestParseNoGeometry(t *testing.T) {
	for _, src := range []string{"", "# just a comment\n", "v 0 0 0\nv 1 0 0\n"} {
		if _, err := Parse(strings.NewReader(src)); !errors.Is(err, ErrNoGeometry) {
			t.Errorf("Parse(%q) = %v, want ErrNoGeometry", src, err)
		}
	}
}

func TestLoadFSWithMaterials(t *testing.T) {
	fsys := fstest.MapFS{
		"models/ship.obj": {Data: []byte(`
mtllib ship.mtl
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
usemtl hull
f 1 2 3
usemtl glass
f 2 4 3
usemtl missing
f 1 2 4
`)},
		"models/ship.mtl": {Data: []byte(`
newmtl hull
Kd 0.2 0.4 0.6
map_Kd textures/hull.png
newmtl glass
Kd 0.9 0.9 1.0
`)},
	}

	m, err := LoadFS(fsys, "models/ship.obj")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if len(m.Materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(m.Materials))
	}
	hull := m.Materials[0]
	if hull.Name != "hull" || hull.Diffuse != [3]float32{0.2, 0.4, 0.6} {
		t.Errorf("hull = %+v", hull)
	}
	if hull.DiffuseTexture != "models/textures/hull.png" {
		t.Errorf("texture path = %q", hull.DiffuseTexture)
	}

	groups := m.Meshes[0].Groups
	if len(groups) != 3 {
		t.Fatalf("expected 3 material groups, got %+v", groups)
	}
	if groups[0].Material != 0 || groups[1].Material != 1 || groups[2].Material != -1 {
		t.Errorf("group materials = %+v", groups)
	}
	if groups[1].StartIndex != 3 || groups[1].IndexCount != 3 {
		t.Errorf("second group = %+v", groups[1])
	}
}

func TestLoadFSMissingLibraryIsNotFatal(t *testing.T) {
	fsys := fstest.MapFS{
		"a.obj": {Data: []byte("mtllib gone.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")},
	}
	m, err := LoadFS(fsys, "a.obj")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if len(m.Materials) != 0 {
		t.Errorf("expected no materials, got %d", len(m.Materials))
	}
}

func TestLoadResolvesTexturesAgainstDisk(t *testing.T) {
	dir := t.TempDir()
	obj := "mtllib m.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl a\nf 1 2 3\n"
	mtl := "newmtl a\nmap_Kd tex.png\n"
	if err := os.WriteFile(filepath.Join(dir, "m.obj"), []byte(obj), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "m.mtl"), []byte(mtl), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(filepath.Join(dir, "m.obj"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(dir, "tex.png"); m.Materials[0].DiffuseTexture != want {
		t.Errorf("texture = %q, want %q", m.Materials[0].DiffuseTexture, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseMTLErrors(t *testing.T) {
	if _, err := ParseMTL(strings.NewReader("newmtl a\nKd 1 x 1\n"), ""); err == nil {
		t.Error("expected error for malformed Kd")
	}
	if _, err := ParseMTL(strings.NewReader("newmtl\n"), ""); err == nil {
		t.Error("expected error for unnamed material")
	}
}
