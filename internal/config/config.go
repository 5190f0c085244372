// Package config handles demo configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/skylark/internal/game/control"
	"github.com/Faultbox/skylark/pkg/math"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all demo settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Controls  ControlsConfig  `yaml:"controls"`
	Camera    CameraConfig    `yaml:"camera"`
	Player    PlayerConfig    `yaml:"player"`
	Scene     SceneConfig     `yaml:"scene"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Dither     bool `yaml:"dither"` // screen-space dithering pass
}

// ControlsConfig holds input tuning.
type ControlsConfig struct {
	LookSpeed    float32        `yaml:"look_speed"`
	Acceleration float32        `yaml:"acceleration"`
	Keymap       control.Keymap `yaml:"keymap"`
}

// CameraConfig holds the follow camera's starting pose and lens.
type CameraConfig struct {
	Offset     math.Vec3 `yaml:"offset"`
	Yaw        float32   `yaml:"yaw"`
	Pitch      float32   `yaml:"pitch"`
	FOVDegrees float32   `yaml:"fov_degrees"`
	Near       float32   `yaml:"near"`
	Far        float32   `yaml:"far"`
}

// PlayerConfig holds the ship's model and flight characteristics.
type PlayerConfig struct {
	Model           string     `yaml:"model"`
	Start           math.Vec3  `yaml:"start"`
	Scale           float32    `yaml:"scale"`
	Color           [3]float32 `yaml:"color,flow"`
	MaxSpeed        float32    `yaml:"max_speed"`
	StabilizerPower float32    `yaml:"stabilizer_power"`
	TurnRate        float32    `yaml:"turn_rate"`
}

// SceneConfig lists the static props.
type SceneConfig struct {
	Props []PropConfig `yaml:"props"`
}

// PropConfig places one scenery mesh.
type PropConfig struct {
	Model    string     `yaml:"model"`
	Position math.Vec3  `yaml:"position"`
	Scale    float32    `yaml:"scale"`
	Rotation math.Vec3  `yaml:"rotation"` // Euler XYZ, degrees
	Color    [3]float32 `yaml:"color,flow"`
}

// TelemetryConfig controls the flight recorder.
type TelemetryConfig struct {
	RecordPath string `yaml:"record_path"` // empty disables recording
	FlushEvery int    `yaml:"flush_every"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

var white = [3]float32{1, 1, 1}

// Default returns a Config with the demo's stock values.
func Default() *Config {
	const testModel = "res/test.obj"
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1260,
			Height: 768,
			VSync:  true,
			Dither: true,
		},
		Controls: ControlsConfig{
			LookSpeed:    0.1,
			Acceleration: 200,
			Keymap:       control.DefaultKeymap(),
		},
		Camera: CameraConfig{
			Offset:     math.Vec3{X: 0, Y: 0, Z: -50},
			Yaw:        1.18,
			Pitch:      0,
			FOVDegrees: 45,
			Near:       0.1,
			Far:        10000,
		},
		Player: PlayerConfig{
			Model:           testModel,
			Start:           math.Vec3{X: 0, Y: 1, Z: 0},
			Scale:           3,
			Color:           [3]float32{0, 0.47, 0.95},
			MaxSpeed:        200,
			StabilizerPower: 1,
			TurnRate:        10,
		},
		Scene: SceneConfig{
			Props: []PropConfig{
				{Model: testModel, Position: math.Vec3{X: 10}, Scale: 10, Color: white},
				{Model: testModel, Position: math.Vec3{X: 100, Z: 60}, Scale: 20, Color: white},
				{Model: testModel, Position: math.Vec3{X: 500, Y: 300, Z: 500}, Scale: 200, Color: white},
				{Model: testModel, Position: math.Vec3{X: 100, Y: 10, Z: 600}, Scale: 100, Color: white},
				{Model: testModel, Position: math.Vec3{X: 100, Y: 100}, Scale: 1000, Color: white},
			},
		},
		Telemetry: TelemetryConfig{
			FlushEvery: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that would break the simulation.
func (c *Config) Validate() error {
	switch {
	case c.Graphics.Width <= 0 || c.Graphics.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	case c.Controls.LookSpeed <= 0:
		return fmt.Errorf("%w: controls.look_speed must be positive", ErrInvalid)
	case c.Controls.Acceleration <= 0:
		return fmt.Errorf("%w: controls.acceleration must be positive", ErrInvalid)
	case c.Player.MaxSpeed <= 0:
		return fmt.Errorf("%w: player.max_speed must be positive", ErrInvalid)
	case c.Player.StabilizerPower < 0:
		return fmt.Errorf("%w: player.stabilizer_power must not be negative", ErrInvalid)
	case c.Player.TurnRate < 0:
		return fmt.Errorf("%w: player.turn_rate must not be negative", ErrInvalid)
	case c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180:
		return fmt.Errorf("%w: camera.fov_degrees %v out of (0, 180)", ErrInvalid, c.Camera.FOVDegrees)
	case c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far:
		return fmt.Errorf("%w: camera near %v / far %v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Telemetry.FlushEvery <= 0:
		return fmt.Errorf("%w: telemetry.flush_every must be positive", ErrInvalid)
	}
	if err := c.Controls.Keymap.Validate(); err != nil {
		return fmt.Errorf("%w: controls.keymap: %v", ErrInvalid, err)
	}
	return nil
}
