// Package main is the interactive 360 panorama viewer.
package main

import (
	"fmt"
	"math"
	"os"
	"runtime"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/NDLANO/h5p-ndla-three-sixty/internal/config"
	"github.com/NDLANO/h5p-ndla-three-sixty/internal/engine/debug"
	"github.com/NDLANO/h5p-ndla-three-sixty/internal/engine/input"
	"github.com/NDLANO/h5p-ndla-three-sixty/internal/engine/renderer"
	"github.com/NDLANO/h5p-ndla-three-sixty/internal/engine/texture"
	"github.com/NDLANO/h5p-ndla-three-sixty/internal/engine/window"
	"github.com/NDLANO/h5p-ndla-three-sixty/internal/logger"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/control"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/orientation"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/scene"
	"github.com/NDLANO/h5p-ndla-three-sixty/pkg/zoom"
)

const windowTitle = "PanoViewer"

func init() {
	runtime.LockOSThread()
}

// Hotspot is the demo element handle.
type Hotspot struct {
	Label string
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("wrote", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	source := cfg.Viewer.Source
	if source == "" {
		picked, err := dialog.File().
			Title("Open panorama").
			Filter("Images", "jpg", "jpeg", "png", "bmp", "tga").
			Load()
		if err != nil {
			return fmt.Errorf("no panorama selected: %w", err)
		}
		source = picked
	}

	img, err := texture.LoadFile(source)
	if err != nil {
		return err
	}
	logger.Info("panorama loaded",
		zap.String("source", source),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Display.Width,
		Height:     cfg.Display.Height,
		Fullscreen: cfg.Display.Fullscreen,
		VSync:      cfg.Display.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	dw, dh := win.DrawableSize()
	rend, err := renderer.New(renderer.Config{Width: dw, Height: dh})
	if err != nil {
		return err
	}
	defer rend.Close()
	rend.SetSource(img)

	ww, wh := win.Size()
	view, err := scene.New(scene.Config{
		Panorama:     cfg.Viewer.Panorama,
		InitialYaw:   cfg.Viewer.InitialYaw,
		InitialPitch: cfg.Viewer.InitialPitch,
		AspectRatio:  cfg.Viewer.AspectRatio,
		Friction:     cfg.Controls.Friction,
		ZoomSpeed:    cfg.Controls.ZoomSpeed,
		EnableZoom:   cfg.Controls.EnableZoom,
		InvertKeys:   cfg.Controls.InvertKeys,
		Segments:     cfg.Viewer.Segments,
		Source:       source,
	}, rend)
	if err != nil {
		return err
	}
	view.Resize(float64(ww), float64(ww)/float64(wh))
	rend.BuildGeometry(view.Panorama(), view.Segments())

	if err := addHotspots(view); err != nil {
		return err
	}

	view.OnMoveStart(func(e scene.MoveStartEvent) bool {
		logger.Debug("move start",
			zap.Bool("camera", e.IsCamera),
			zap.Any("handle", e.Handle),
		)
		return true
	})
	view.OnMove(func(e control.MoveEvent) {
		logger.Debug("move",
			zap.Float64("alpha", e.Alpha),
			zap.Float64("beta", e.Beta),
		)
	})
	view.OnMoveStop(func(e scene.MoveStopEvent) {
		logger.Debug("move stop",
			zap.Float64("yaw", e.Yaw),
			zap.Float64("pitch", e.Pitch),
			zap.Any("handle", e.Handle),
		)
		if e.Handle == nil {
			win.SetTitle(fmt.Sprintf("%s  yaw %.2f  pitch %.2f", windowTitle, e.Yaw, e.Pitch))
		}
	})
	view.OnFirstRender(func() {
		logger.Info("first frame rendered")
	})

	in := input.New(ww, wh)
	shots := debug.NewScreenshots("screenshots", "panoviewer")

	// The pointer session that accepted the last button press. Left drags
	// the camera, right drags the focused hotspot.
	var dragTarget *control.Controller
	focusIdx := -1

	running := true
	for running {
		if in.Update() {
			running = false
		}

		for _, ev := range in.Events() {
			switch ev.Type {
			case input.EventResize:
				dw, dh := win.DrawableSize()
				rend.Resize(dw, dh)
				if ev.Height > 0 {
					view.Resize(float64(ev.Width), float64(ev.Width)/float64(ev.Height))
				}

			case input.EventPointerDown:
				target, button := view.CameraControls(), ev.Button
				if button == control.ButtonSecondary {
					if el := focusedElement(view, focusIdx); el != nil && el.Controls != nil {
						target, button = el.Controls, control.ButtonPrimary
					}
				}
				if target.PointerDown(control.PointerEvent{X: ev.X, Y: ev.Y, Button: button}) {
					dragTarget = target
				}

			case input.EventPointerMove:
				if dragTarget != nil {
					dragTarget.PointerMove(control.PointerEvent{
						X: ev.X, Y: ev.Y,
						DX: ev.DX, DY: ev.DY,
						HasMotion: true,
					})
				}

			case input.EventPointerUp:
				if dragTarget != nil {
					dragTarget.PointerUp()
					dragTarget = nil
				}

			case input.EventWheel:
				view.Zoom().Wheel(ev.WheelY)

			case input.EventTouchDown:
				view.CameraControls().TouchStart(control.TouchEvent{X: ev.X, Y: ev.Y, Fingers: ev.Fingers})

			case input.EventTouchMove:
				view.CameraControls().TouchMove(control.TouchEvent{X: ev.X, Y: ev.Y, Fingers: ev.Fingers})

			case input.EventTouchUp:
				view.CameraControls().TouchEnd()

			case input.EventPinchStart:
				view.Zoom().PinchStart(ev.X, ev.Y, ev.X2, ev.Y2)

			case input.EventPinch:
				view.Zoom().PinchMove(ev.X, ev.Y, ev.X2, ev.Y2)

			case input.EventPinchEnd:
				view.Zoom().PinchEnd()

			case input.EventKeyDown:
				switch ev.Sym {
				case sdl.K_ESCAPE:
					running = false
				case sdl.K_F12:
					captureFrame(rend, shots)
				case sdl.K_p:
					view.SetPanorama(!view.Panorama())
					rend.BuildGeometry(view.Panorama(), view.Segments())
					logger.Info("projection switched", zap.Bool("panorama", view.Panorama()))
				case sdl.K_TAB:
					focusIdx = focusNext(view, focusIdx)
				}
				if ev.ZoomKey != zoom.KeyNone {
					view.Zoom().KeyDown(ev.ZoomKey)
				}
				if ev.Key != control.KeyNone {
					view.CameraControls().KeyDown(ev.Key)
				}

			case input.EventKeyUp:
				if ev.Key != control.KeyNone {
					view.CameraControls().KeyUp(ev.Key)
				}
			}
		}

		view.RenderFrame()
		win.SwapBuffers()
	}

	logger.Info("viewer closed")
	return nil
}

// addHotspots places the demo markers. Spatial ones scale with the scene
// and can be dragged, the flat one stays screen-aligned.
func addHotspots(view *scene.Scene) error {
	hotspots := []struct {
		label string
		pos   orientation.Position
		flat  bool
	}{
		{"forward", orientation.Position{Pitch: 0.15}, false},
		{"right", orientation.Position{Yaw: math.Pi / 2}, false},
		{"info", orientation.Position{Yaw: math.Pi, Pitch: -0.2}, true},
	}
	for _, h := range hotspots {
		_, err := view.Add(Hotspot{Label: h.label}, h.pos, scene.ElementOptions{
			EnableControls: !h.flat,
			Flat:           h.flat,
		})
		if err != nil {
			return fmt.Errorf("add hotspot %q: %w", h.label, err)
		}
	}
	return nil
}

// focusNext advances the hotspot focus and pans the camera to it.
func focusNext(view *scene.Scene, idx int) int {
	els := view.Elements()
	if len(els) == 0 {
		return -1
	}
	idx = (idx + 1) % len(els)
	el := els[idx]
	if err := view.FocusElement(el.Handle); err != nil {
		logger.Warn("focus failed", zap.Error(err))
		return idx
	}
	logger.Info("hotspot focused", zap.Any("handle", el.Handle))
	return idx
}

func focusedElement(view *scene.Scene, idx int) *scene.PlacedElement {
	els := view.Elements()
	if idx < 0 || idx >= len(els) {
		return nil
	}
	return els[idx]
}

// captureFrame reads the back buffer and writes it as a PNG.
func captureFrame(rend *renderer.Renderer, shots *debug.Screenshots) {
	w, h := rend.Size()
	path, err := shots.SaveFrame(rend.ReadPixels(), w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
