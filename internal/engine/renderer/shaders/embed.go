// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PanoVertexShader is the vertex shader for the panorama shell.
//
//go:embed pano.vert
var PanoVertexShader string

// PanoFragmentShader is the fragment shader for the panorama shell.
//
//go:embed pano.frag
var PanoFragmentShader string

// MarkerVertexShader is the vertex shader for overlay markers.
//
//go:embed marker.vert
var MarkerVertexShader string

// MarkerFragmentShader is the fragment shader for overlay markers.
//
//go:embed marker.frag
var MarkerFragmentShader string
