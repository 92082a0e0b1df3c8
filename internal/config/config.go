// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Viewer   ViewerConfig   `yaml:"viewer"`
	Controls ControlsConfig `yaml:"controls"`
	Display  DisplayConfig  `yaml:"display"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ViewerConfig holds the panorama source and initial framing.
type ViewerConfig struct {
	Source       string  `yaml:"source"`        // Path to an equirectangular image
	Panorama     bool    `yaml:"panorama"`      // Cylindrical instead of full-sphere framing
	InitialYaw   float64 `yaml:"initial_yaw"`   // Radians
	InitialPitch float64 `yaml:"initial_pitch"` // Radians
	AspectRatio  float64 `yaml:"aspect_ratio"`
	Segments     int     `yaml:"segments"` // Mesh tessellation
}

// ControlsConfig holds input sensitivity settings.
type ControlsConfig struct {
	Friction   float64 `yaml:"friction"`    // Pixels per radian of rotation
	ZoomSpeed  float64 `yaml:"zoom_speed"`  // Dolly scale exponent
	EnableZoom bool    `yaml:"enable_zoom"` // Wheel, pinch and +/- keys
	InvertKeys bool    `yaml:"invert_keys"` // Flip arrow-key camera direction
}

// DisplayConfig holds window settings.
type DisplayConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Source:       "",
			Panorama:     false,
			InitialYaw:   0,
			InitialPitch: 0,
			AspectRatio:  16.0 / 9.0,
			Segments:     64,
		},
		Controls: ControlsConfig{
			Friction:   400,
			ZoomSpeed:  1,
			EnableZoom: true,
			InvertKeys: true,
		},
		Display: DisplayConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
