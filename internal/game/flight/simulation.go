// Package flight runs the per-tick update of the follow camera and the
// player ship in a fixed order.
package flight

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/skylark/internal/config"
	"github.com/Faultbox/skylark/internal/engine/camera"
	"github.com/Faultbox/skylark/internal/engine/transform"
	"github.com/Faultbox/skylark/internal/game/control"
	"github.com/Faultbox/skylark/internal/game/player"
	"github.com/Faultbox/skylark/internal/logger"
	"github.com/Faultbox/skylark/internal/telemetry"
	"github.com/Faultbox/skylark/pkg/math"
)

// Simulation owns the camera, the player body and the player's visual
// transform.
type Simulation struct {
	Camera    *camera.FollowCamera
	Player    *player.Body
	Transform transform.Transform

	// Acceleration is the force magnitude per second of a held action.
	Acceleration float32

	tick     int
	recorder *telemetry.Recorder
	log      *zap.Logger
}

// New builds a simulation from configuration. recorder may be nil.
func New(cfg *config.Config, recorder *telemetry.Recorder) *Simulation {
	start := cfg.Player.Start

	body := player.New(start, cfg.Player.MaxSpeed)
	body.StabilizerPower = cfg.Player.StabilizerPower
	body.TurnRate = cfg.Player.TurnRate

	cam := camera.New(cfg.Camera.Yaw, cfg.Camera.Pitch, cfg.Camera.Offset, start)
	cam.LookSpeed = cfg.Controls.LookSpeed
	cam.FOV = cfg.Camera.FOVDegrees * gomath.Pi / 180
	cam.Near = cfg.Camera.Near
	cam.Far = cfg.Camera.Far

	return &Simulation{
		Camera:       cam,
		Player:       body,
		Transform:    transform.New(start, cfg.Player.Scale),
		Acceleration: cfg.Controls.Acceleration,
		recorder:     recorder,
		log:          logger.Named("flight"),
	}
}

// Tick runs one update in order: camera, input, player. The only error is a
// failed telemetry write; the simulation state is already advanced.
func (s *Simulation) Tick(dt float32, snap control.Snapshot) error {
	s.UpdateCamera(dt, snap)
	s.ApplyPlayerInput(dt, snap)
	s.UpdatePlayer(dt)
	s.tick++

	return s.recorder.Record(s.sample(dt))
}

// UpdateCamera turns the camera by the pointer delta and re-places it
// behind the player's current position.
func (s *Simulation) UpdateCamera(dt float32, snap control.Snapshot) {
	s.Camera.Update(dt, snap.PointerDelta, s.Transform.Position)
}

// ApplyPlayerInput converts held actions into forces along the camera basis.
func (s *Simulation) ApplyPlayerInput(dt float32, snap control.Snapshot) {
	if snap.Held == 0 {
		return
	}

	b := s.Camera.Basis()
	frame := control.Frame{Forward: b.Forward, Right: b.Right, Up: b.Up}
	for _, a := range control.AllActions {
		if snap.Held.Has(a) {
			s.Player.AddForce(frame.Direction(a), dt*s.Acceleration)
		}
	}

	if s.log.Core().Enabled(zap.DebugLevel) {
		s.log.Debug("thrust",
			zap.Int("tick", s.tick),
			zap.Stringer("actions", snap.Held),
			zap.Float32("speed", s.Player.Speed()))
	}
}

// UpdatePlayer integrates the body, then turns it toward the camera's
// forward. Each change is mirrored onto the transform exactly once.
func (s *Simulation) UpdatePlayer(dt float32) {
	delta := s.Player.Step(dt)
	s.Transform.Translate(delta)

	step := s.Player.AlignOrientation(s.Camera.Forward(), dt)
	s.Transform.RotateBy(step)
}

// SetRecorder replaces the telemetry sink. nil stops recording.
func (s *Simulation) SetRecorder(r *telemetry.Recorder) {
	s.recorder = r
}

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() int {
	return s.tick
}

func (s *Simulation) sample(dt float32) telemetry.Sample {
	pos := s.Player.Position
	vel := s.Player.Velocity
	return telemetry.Sample{
		Tick:        s.tick,
		DT:          dt,
		PosX:        pos.X,
		PosY:        pos.Y,
		PosZ:        pos.Z,
		VelX:        vel.X,
		VelY:        vel.Y,
		VelZ:        vel.Z,
		Speed:       vel.Length(),
		Yaw:         s.Camera.Yaw,
		Pitch:       s.Camera.Pitch,
		Stabilizing: s.Player.Stabilizing,
	}
}

// ModelMatrix returns the player's model matrix for drawing.
func (s *Simulation) ModelMatrix() math.Mat4 {
	return s.Transform.Matrix()
}
