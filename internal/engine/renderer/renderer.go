// Package renderer draws lit meshes into an offscreen target and presents
// it through an ordered-dither pass.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skylark/internal/engine/framebuffer"
	"github.com/Faultbox/skylark/internal/engine/mesh"
	"github.com/Faultbox/skylark/internal/engine/renderer/shaders"
	"github.com/Faultbox/skylark/internal/engine/shader"
	"github.com/Faultbox/skylark/internal/engine/texture"
	"github.com/Faultbox/skylark/internal/logger"
	"github.com/Faultbox/skylark/pkg/math"
)

// Scene lighting.
var (
	LightColor = [3]float32{1.0, 0.8, 0.4}
	LightDir   = [3]float32{-0.5, 0.5, 0.0}
)

// AmbientStrength scales LightColor for unlit faces.
const AmbientStrength float32 = 0.1

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	Dither bool
}

type gpuGroup struct {
	start   int32
	count   int32
	texture uint32
	tint    [3]float32
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	groups        []gpuGroup
}

type gpuModel struct {
	meshes []gpuMesh
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	meshProgram   *shader.Program
	ditherProgram *shader.Program

	target         *framebuffer.Framebuffer
	quadVAO        uint32
	quadVBO        uint32
	whiteTexture   uint32
	models         map[string]*gpuModel
	textures       map[string]uint32
	viewProjection math.Mat4
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:         cfg,
		log:            logger.Named("render"),
		models:         make(map[string]*gpuModel),
		textures:       make(map[string]uint32),
		viewProjection: math.Identity(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	var err error
	r.meshProgram, err = shader.New("mesh", shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return nil, err
	}
	r.ditherProgram, err = shader.New("dither", shaders.DitherVertexShader, shaders.DitherFragmentShader)
	if err != nil {
		r.meshProgram.Delete()
		return nil, err
	}

	r.target, err = framebuffer.New(int32(cfg.Width), int32(cfg.Height))
	if err != nil {
		r.Close()
		return nil, err
	}

	r.createQuad()
	r.whiteTexture = uploadTexture(image.NewRGBA(image.Rect(0, 0, 1, 1)), true)

	r.ditherProgram.Use()
	r.ditherProgram.SetInt("uScreen", 0)
	gl.Uniform1fv(r.ditherProgram.Uniform("uLimits"), int32(len(bayerLimits)), &bayerLimits[0])
	r.ditherProgram.SetFloat("uDarken", ditherDarken)

	r.meshProgram.Use()
	r.meshProgram.SetInt("uTexture", 0)
	r.meshProgram.SetVec3("uLightColor", LightColor)
	r.meshProgram.SetVec3("uLightDir", LightDir)
	r.meshProgram.SetFloat("uAmbient", AmbientStrength)

	return r, nil
}

// createQuad builds the full-screen triangle strip of the dither pass.
func (r *Renderer) createQuad() {
	vertices := []float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)

	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
}

// LoadModel reads an OBJ file and uploads it, keyed by path. Loading the
// same path twice is a no-op.
func (r *Renderer) LoadModel(path string) error {
	if _, ok := r.models[path]; ok {
		return nil
	}

	m, err := mesh.Load(path)
	if err != nil {
		return err
	}

	gm := &gpuModel{}
	for i := range m.Meshes {
		gm.meshes = append(gm.meshes, r.uploadMesh(&m.Meshes[i], m.Materials))
	}
	r.models[path] = gm

	b := m.Bounds()
	r.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("materials", len(m.Materials)),
		zap.Int("triangles", m.Triangles()),
		zap.Any("min", b.Min),
		zap.Any("max", b.Max),
	)
	return nil
}

func (r *Renderer) uploadMesh(src *mesh.Mesh, materials []mesh.Material) gpuMesh {
	var gm gpuMesh

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(src.Vertices)*mesh.VertexSize, unsafe.Pointer(&src.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, mesh.VertexSize, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, mesh.VertexSize, 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, mesh.VertexSize, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(src.Indices)*4, unsafe.Pointer(&src.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	for _, g := range src.Groups {
		group := gpuGroup{
			start:   g.StartIndex,
			count:   g.IndexCount,
			texture: r.whiteTexture,
			tint:    [3]float32{1, 1, 1},
		}
		if g.Material >= 0 && g.Material < len(materials) {
			mat := materials[g.Material]
			group.tint = mat.Diffuse
			if mat.DiffuseTexture != "" {
				group.texture = r.loadTexture(mat.DiffuseTexture)
			}
		}
		gm.groups = append(gm.groups, group)
	}
	return gm
}

// loadTexture returns a cached texture, falling back to plain white when the
// file cannot be read.
func (r *Renderer) loadTexture(path string) uint32 {
	if id, ok := r.textures[path]; ok {
		return id
	}

	img, err := texture.Load(path)
	if err != nil {
		r.log.Warn("texture unavailable, drawing untextured", zap.String("path", path), zap.Error(err))
		r.textures[path] = r.whiteTexture
		return r.whiteTexture
	}

	id := uploadTexture(img, false)
	r.textures[path] = id
	r.log.Debug("texture loaded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return id
}

// uploadTexture creates a mipmapped, repeating texture. A blank image is
// filled white first.
func uploadTexture(img *image.RGBA, white bool) uint32 {
	if white {
		for i := range img.Pix {
			img.Pix[i] = 0xFF
		}
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	return texID
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.target.Resize(int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// SetDither turns the post-process pass on or off.
func (r *Renderer) SetDither(on bool) {
	r.config.Dither = on
}

// Dither reports whether the post-process pass is on.
func (r *Renderer) Dither() bool {
	return r.config.Dither
}

// Begin starts a new frame with the given camera matrices.
func (r *Renderer) Begin(view, projection math.Mat4) {
	r.viewProjection = projection.Mul(view)

	if r.config.Dither {
		r.target.Bind()
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.meshProgram.Use()
	r.meshProgram.SetMat4("uViewProj", r.viewProjection)
}

// DrawModel draws a previously loaded model. Unknown paths are skipped.
func (r *Renderer) DrawModel(path string, model math.Mat4, color [3]float32) {
	gm, ok := r.models[path]
	if !ok {
		return
	}

	r.meshProgram.SetMat4("uModel", model)
	gl.ActiveTexture(gl.TEXTURE0)

	for _, m := range gm.meshes {
		gl.BindVertexArray(m.vao)
		for _, g := range m.groups {
			r.meshProgram.SetVec3("uObjectColor", [3]float32{
				color[0] * g.tint[0],
				color[1] * g.tint[1],
				color[2] * g.tint[2],
			})
			gl.BindTexture(gl.TEXTURE_2D, g.texture)
			gl.DrawElementsWithOffset(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, uintptr(g.start*4))
		}
	}
	gl.BindVertexArray(0)
}

// End finishes the frame, running the dither pass when enabled.
func (r *Renderer) End() {
	if !r.config.Dither {
		return
	}

	r.target.Unbind()
	gl.Viewport(0, 0, int32(r.config.Width), int32(r.config.Height))
	gl.Disable(gl.DEPTH_TEST)

	r.ditherProgram.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.target.ColorTexture())
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")

	for _, gm := range r.models {
		for _, m := range gm.meshes {
			gl.DeleteVertexArrays(1, &m.vao)
			gl.DeleteBuffers(1, &m.vbo)
			gl.DeleteBuffers(1, &m.ebo)
		}
	}
	r.models = nil

	for path, id := range r.textures {
		if id != r.whiteTexture {
			gl.DeleteTextures(1, &id)
		}
		delete(r.textures, path)
	}
	if r.whiteTexture != 0 {
		gl.DeleteTextures(1, &r.whiteTexture)
	}

	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
	}
	if r.target != nil {
		r.target.Destroy()
	}
	if r.meshProgram != nil {
		r.meshProgram.Delete()
	}
	if r.ditherProgram != nil {
		r.ditherProgram.Delete()
	}
}
