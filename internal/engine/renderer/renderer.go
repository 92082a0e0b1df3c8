// Package renderer draws the panorama shell and overlay markers with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/NDLANO/h5p-ndla-three-sixty/internal/engine/renderer/shaders"
	"github.com/NDLANO/h5p-ndla-three-sixty/internal/engine/shader"
	"github.com/NDLANO/h5p-ndla-three-sixty/internal/logger"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/camera"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/scene"
)

const (
	nearPlane = 0.1
	farPlane  = 2000.0

	// markerSize is the marker quad edge in world units, sized against the
	// display-sphere radius of 800.
	markerSize = 40.0
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// marker is the renderer-side state of one scene node.
type marker struct {
	kind      scene.NodeKind
	placement scene.Placement
}

// Renderer implements scene.Backend on a GL 4.1 core context.
type Renderer struct {
	config Config

	// Panorama shell
	shellProgram    uint32
	shellVAO        uint32
	shellVBO        uint32
	shellEBO        uint32
	shellIndexCount int32
	shellViewLoc    int32
	shellProjLoc    int32
	texture         uint32
	sourceW         int
	sourceH         int

	// Overlay markers
	markerProgram  uint32
	markerVAO      uint32
	markerVBO      uint32
	markerModelLoc int32
	markerViewLoc  int32
	markerProjLoc  int32
	markerColorLoc int32

	view mgl32.Mat4
	proj mgl32.Mat4

	markers  map[scene.NodeID]*marker
	nextNode scene.NodeID
}

var _ scene.Backend = (*Renderer)(nil)

// New creates a renderer. Must be called after the OpenGL context exists.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	r := &Renderer{
		config:  cfg,
		markers: make(map[scene.NodeID]*marker),
		view:    mgl32.Ident4(),
		proj:    mgl32.Ident4(),
	}

	gl.ClearColor(0.05, 0.05, 0.08, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.shellProgram, err = shader.CompileProgram(shaders.PanoVertexShader, shaders.PanoFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("panorama program: %w", err)
	}
	r.shellViewLoc = shader.MustGetUniform(r.shellProgram, "uView")
	r.shellProjLoc = shader.MustGetUniform(r.shellProgram, "uProjection")
	gl.UseProgram(r.shellProgram)
	gl.Uniform1i(shader.MustGetUniform(r.shellProgram, "uPanorama"), 0)

	r.markerProgram, err = shader.CompileProgram(shaders.MarkerVertexShader, shaders.MarkerFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("marker program: %w", err)
	}
	r.markerModelLoc = shader.MustGetUniform(r.markerProgram, "uModel")
	r.markerViewLoc = shader.MustGetUniform(r.markerProgram, "uView")
	r.markerProjLoc = shader.MustGetUniform(r.markerProgram, "uProjection")
	r.markerColorLoc = shader.MustGetUniform(r.markerProgram, "uColor")
	gl.UseProgram(0)

	r.createMarkerQuad()

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.shellVAO != 0 {
		gl.DeleteVertexArrays(1, &r.shellVAO)
		gl.DeleteBuffers(1, &r.shellVBO)
		gl.DeleteBuffers(1, &r.shellEBO)
	}
	if r.markerVAO != 0 {
		gl.DeleteVertexArrays(1, &r.markerVAO)
		gl.DeleteBuffers(1, &r.markerVBO)
	}
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
	}
	if r.shellProgram != 0 {
		gl.DeleteProgram(r.shellProgram)
	}
	if r.markerProgram != 0 {
		gl.DeleteProgram(r.markerProgram)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current drawable dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// ReadPixels returns the back buffer as tightly packed RGBA rows, bottom-up
// as GL delivers them.
func (r *Renderer) ReadPixels() []byte {
	pixels := make([]byte, r.config.Width*r.config.Height*4)
	gl.ReadPixels(0, 0, int32(r.config.Width), int32(r.config.Height),
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// SetSource uploads an equirectangular image as the panorama texture.
func (r *Renderer) SetSource(img *image.RGBA) {
	if r.texture == 0 {
		gl.GenTextures(1, &r.texture)
	}
	b := img.Bounds()
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	// Wrap across the yaw seam, clamp at the poles.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	r.sourceW, r.sourceH = b.Dx(), b.Dy()
	logger.Debug("panorama texture uploaded",
		zap.Int("width", r.sourceW),
		zap.Int("height", r.sourceH),
	)
}

// BuildGeometry rebuilds the panorama shell: a full sphere, or an open
// cylinder whose height follows the source aspect in panorama mode.
func (r *Renderer) BuildGeometry(panorama bool, segments int) {
	if segments < 4 {
		segments = 4
	}

	var verts []float32
	var indices []uint32
	if panorama {
		ratio := float32(0.25)
		if r.sourceW > 0 {
			ratio = float32(r.sourceH) / float32(r.sourceW)
		}
		verts, indices = buildCylinder(float32(scene.Radius), segments, ratio)
	} else {
		verts, indices = buildSphere(float32(scene.Radius), segments)
	}
	r.uploadShellMesh(verts, indices)

	logger.Debug("panorama geometry built",
		zap.Bool("panorama", panorama),
		zap.Int("segments", segments),
		zap.Int("indices", len(indices)),
	)
}

// CreateNode registers a marker node and returns its handle.
func (r *Renderer) CreateNode(kind scene.NodeKind) (scene.NodeID, error) {
	r.nextNode++
	r.markers[r.nextNode] = &marker{kind: kind}
	return r.nextNode, nil
}

// SetNodeTransform stores a marker pose for the next frame.
func (r *Renderer) SetNodeTransform(id scene.NodeID, p scene.Placement) {
	if m, ok := r.markers[id]; ok {
		m.placement = p
	}
}

// RemoveNode forgets a marker.
func (r *Renderer) RemoveNode(id scene.NodeID) {
	delete(r.markers, id)
}

// UpdateProjection recomputes the projection matrix from the camera.
func (r *Renderer) UpdateProjection(cam *camera.Camera) {
	aspect := float32(cam.AspectRatio)
	if cam.Projection.Kind == camera.Orthographic {
		hh := float32(scene.Radius) / float32(cam.Projection.Zoom)
		hw := hh * aspect
		r.proj = mgl32.Ortho(-hw, hw, -hh, hh, nearPlane, farPlane)
	} else {
		fov := mgl32.DegToRad(float32(cam.Projection.Fov))
		r.proj = mgl32.Perspective(fov, aspect, nearPlane, farPlane)
	}
}

// RenderFrame draws the shell and all markers from the camera's orientation.
func (r *Renderer) RenderFrame(cam *camera.Camera) {
	r.view = viewMatrix(cam)

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	// The viewer sits inside the shell; markers always draw on top.
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	if r.shellIndexCount > 0 && r.texture != 0 {
		gl.UseProgram(r.shellProgram)
		gl.UniformMatrix4fv(r.shellViewLoc, 1, false, &r.view[0])
		gl.UniformMatrix4fv(r.shellProjLoc, 1, false, &r.proj[0])
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.texture)
		gl.BindVertexArray(r.shellVAO)
		gl.DrawElements(gl.TRIANGLES, r.shellIndexCount, gl.UNSIGNED_INT, nil)
		gl.BindVertexArray(0)
	}

	r.drawMarkers()
	gl.UseProgram(0)
}

func (r *Renderer) drawMarkers() {
	if len(r.markers) == 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.UseProgram(r.markerProgram)
	gl.UniformMatrix4fv(r.markerViewLoc, 1, false, &r.view[0])
	gl.UniformMatrix4fv(r.markerProjLoc, 1, false, &r.proj[0])
	gl.BindVertexArray(r.markerVAO)

	for _, m := range r.markers {
		model := modelMatrix(m.placement)
		gl.UniformMatrix4fv(r.markerModelLoc, 1, false, &model[0])
		if m.kind == scene.NodeFlat {
			gl.Uniform4f(r.markerColorLoc, 0.25, 0.55, 0.95, 0.85)
		} else {
			gl.Uniform4f(r.markerColorLoc, 1.0, 0.62, 0.1, 0.85)
		}
		gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
}

// uploadShellMesh (re)uploads interleaved shell vertices and indices.
func (r *Renderer) uploadShellMesh(verts []float32, indices []uint32) {
	if r.shellVAO == 0 {
		gl.GenVertexArrays(1, &r.shellVAO)
		gl.GenBuffers(1, &r.shellVBO)
		gl.GenBuffers(1, &r.shellEBO)
	}

	gl.BindVertexArray(r.shellVAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.shellVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.shellEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// Position (location = 0), texture coordinate (location = 1)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, vertexStride*4, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.shellIndexCount = int32(len(indices))
}

// createMarkerQuad builds the unit quad all markers share.
func (r *Renderer) createMarkerQuad() {
	half := float32(markerSize / 2)
	quad := []float32{
		-half, -half, 0,
		half, -half, 0,
		half, half, 0,
		-half, half, 0,
	}

	gl.GenVertexArrays(1, &r.markerVAO)
	gl.BindVertexArray(r.markerVAO)

	gl.GenBuffers(1, &r.markerVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.markerVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// viewMatrix builds the look direction from the camera orientation. Pitch is
// kept a hair off the poles so the up vector never degenerates.
func viewMatrix(cam *camera.Camera) mgl32.Mat4 {
	yaw := cam.Position.Yaw
	pitch := cam.Position.Pitch
	const poleLimit = math.Pi/2 - 0.0005
	if pitch > poleLimit {
		pitch = poleLimit
	} else if pitch < -poleLimit {
		pitch = -poleLimit
	}

	forward := mgl32.Vec3{
		float32(math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}
	return mgl32.LookAtV(mgl32.Vec3{}, forward, mgl32.Vec3{0, 1, 0})
}

// modelMatrix converts a scene placement into a marker model matrix,
// applying rotation yaw (Y) then pitch (X).
func modelMatrix(p scene.Placement) mgl32.Mat4 {
	translate := mgl32.Translate3D(
		float32(p.Position.X()),
		float32(p.Position.Y()),
		float32(p.Position.Z()),
	)
	rotY := mgl32.HomogRotate3DY(float32(p.Rotation.Y()))
	rotX := mgl32.HomogRotate3DX(float32(p.Rotation.X()))
	return translate.Mul4(rotY).Mul4(rotX)
}
