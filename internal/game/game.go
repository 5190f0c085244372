// Package game wires the window, input, simulation and renderer into the
// main loop.
package game

import (
	"fmt"
	"time"

	"github.com/mlange-42/ark/ecs"
	"go.uber.org/zap"

	"github.com/Faultbox/skylark/internal/config"
	"github.com/Faultbox/skylark/internal/engine/input"
	"github.com/Faultbox/skylark/internal/engine/renderer"
	"github.com/Faultbox/skylark/internal/engine/transform"
	"github.com/Faultbox/skylark/internal/engine/window"
	"github.com/Faultbox/skylark/internal/game/flight"
	"github.com/Faultbox/skylark/internal/game/scene"
	"github.com/Faultbox/skylark/internal/logger"
	"github.com/Faultbox/skylark/internal/telemetry"
)

// Title is the window title prefix.
const Title = "skylark"

// maxFrameTime caps dt after a stall (window drag, breakpoint) so the ship
// does not jump.
const maxFrameTime = 0.25

// Game is the main game instance.
type Game struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	sim      *flight.Simulation
	scene    *scene.Scene
	recorder *telemetry.Recorder
	log      *zap.Logger
}

// New creates the window and GL resources, loads every model and places the
// player and props.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		config: cfg,
		log:    logger.Named("game"),
	}

	g.log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("dither", cfg.Graphics.Dither),
	)

	var err error
	g.input, err = input.New(cfg.Controls.Keymap)
	if err != nil {
		return nil, fmt.Errorf("resolving keymap: %w", err)
	}

	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	width, height := g.window.GetSize()
	g.renderer, err = renderer.New(renderer.Config{
		Width:  width,
		Height: height,
		Dither: cfg.Graphics.Dither,
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.scene = scene.FromConfig(cfg.Scene.Props)
	models := append([]string{cfg.Player.Model}, g.scene.Models()...)
	for _, path := range models {
		if err := g.renderer.LoadModel(path); err != nil {
			g.Close()
			return nil, fmt.Errorf("loading model: %w", err)
		}
	}
	if lo, hi, ok := g.scene.Bounds(); ok {
		g.log.Info("scene loaded",
			zap.Int("props", g.scene.Len()),
			zap.Any("min", lo),
			zap.Any("max", hi),
		)
	}

	g.recorder, err = telemetry.NewRecorder(cfg.Telemetry.RecordPath, cfg.Telemetry.FlushEvery)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("opening flight recorder: %w", err)
	}
	if g.recorder != nil {
		g.log.Info("recording flight", zap.String("path", g.recorder.Path()))
	}

	g.sim = flight.New(cfg, g.recorder)
	g.window.SetGrab(true)

	g.log.Info("game initialized successfully")
	return g, nil
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop")

	for g.running {
		now := time.Now()
		dt := min(now.Sub(lastTime).Seconds(), maxFrameTime)
		lastTime = now

		// 1. Input
		snap := g.input.Update()
		if snap.Quit {
			g.running = false
			break
		}
		if snap.ToggleGrab {
			g.window.SetGrab(!g.window.Grabbed())
		}
		if snap.ToggleDither {
			g.renderer.SetDither(!g.renderer.Dither())
			g.log.Info("dither toggled", zap.Bool("on", g.renderer.Dither()))
		}
		if !g.window.Grabbed() {
			snap.PointerDelta.X, snap.PointerDelta.Y = 0, 0
		}
		if w, h, ok := g.input.Resized(); ok {
			dw, dh := g.window.GetSize()
			g.renderer.Resize(dw, dh)
			g.log.Debug("window resized", zap.Int("width", w), zap.Int("height", h))
		}

		// 2. Simulation
		if err := g.sim.Tick(float32(dt), snap); err != nil {
			g.log.Warn("telemetry write failed, recording stopped", zap.Error(err))
			g.stopRecording()
		}

		// 3. Render and present
		g.render()
		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.window.SetTitle(g.status(frameCount))
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// status formats the window title shown once per second.
func (g *Game) status(fps int) string {
	pos := g.sim.Camera.Position()
	grab := "off"
	if g.window.Grabbed() {
		grab = "on"
	}
	return fmt.Sprintf("%s | FPS %d | pos (%.1f, %.1f, %.1f) | grab %s [Tab]",
		Title, fps, pos.X, pos.Y, pos.Z, grab)
}

func (g *Game) render() {
	cam := g.sim.Camera
	g.renderer.Begin(cam.ViewMatrix(), cam.Projection(g.window.Aspect()))

	g.scene.Each(func(_ ecs.Entity, t *transform.Transform, p *scene.Prop) {
		g.renderer.DrawModel(p.Model, t.Matrix(), p.Color)
	})
	g.renderer.DrawModel(g.config.Player.Model, g.sim.ModelMatrix(), g.config.Player.Color)

	g.renderer.End()
}

func (g *Game) stopRecording() {
	sum, err := g.recorder.Close()
	if err != nil {
		g.log.Warn("closing flight recorder", zap.Error(err))
	}
	if sum.Samples > 0 {
		g.log.Info("flight summary",
			zap.Int("samples", sum.Samples),
			zap.Float64("duration_s", sum.Duration),
			zap.Float64("mean_speed", sum.MeanSpeed),
			zap.Float64("speed_stddev", sum.SpeedStdDev),
			zap.Float64("peak_speed", sum.PeakSpeed),
			zap.Float64("distance", sum.Distance),
			zap.Float64("stabilized_fraction", sum.StabilizedAt),
		)
	}
	g.recorder = nil
	if g.sim != nil {
		g.sim.SetRecorder(nil)
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.recorder != nil {
		g.stopRecording()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
