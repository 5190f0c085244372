// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader is the vertex shader for lit, textured meshes.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader is the fragment shader for lit, textured meshes.
//
//go:embed mesh.frag
var MeshFragmentShader string

// DitherVertexShader draws the full-screen quad of the dither pass.
//
//go:embed dither.vert
var DitherVertexShader string

// DitherFragmentShader applies the ordered dither to the scene texture.
//
//go:embed dither.frag
var DitherFragmentShader string
