// Package input turns SDL2 events and keyboard state into control snapshots.
package input

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/skylark/internal/game/control"
	"github.com/Faultbox/skylark/pkg/math"
)

type binding struct {
	action control.Action
	code   sdl.Scancode
}

// Input polls SDL once per frame and reports the frame's snapshot.
type Input struct {
	bindings []binding

	resized       bool
	width, height int

	quitKey   sdl.Scancode
	grabKey   sdl.Scancode
	ditherKey sdl.Scancode
}

// New resolves keymap key names to scancodes. Unknown key names are an
// error so a typo in the config fails at startup.
func New(keymap control.Keymap) (*Input, error) {
	in := &Input{
		quitKey:   sdl.SCANCODE_ESCAPE,
		grabKey:   sdl.SCANCODE_TAB,
		ditherKey: sdl.SCANCODE_F2,
	}

	for _, b := range keymap.Bindings() {
		code := sdl.GetScancodeFromName(b.Key)
		if code == sdl.SCANCODE_UNKNOWN {
			return nil, fmt.Errorf("action %s: unknown key %q", b.Action, b.Key)
		}
		in.bindings = append(in.bindings, binding{action: b.Action, code: code})
	}
	return in, nil
}

// Update drains the SDL event queue and samples the keyboard.
func (i *Input) Update() control.Snapshot {
	i.resized = false
	var snap control.Snapshot

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			snap.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.resized = true
				i.width, i.height = int(e.Data1), int(e.Data2)
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			switch e.Keysym.Scancode {
			case i.quitKey:
				snap.Quit = true
			case i.grabKey:
				snap.ToggleGrab = !snap.ToggleGrab
			case i.ditherKey:
				snap.ToggleDither = !snap.ToggleDither
			}

		case *sdl.MouseMotionEvent:
			snap.PointerDelta = snap.PointerDelta.Add(math.Vec2{X: float32(e.XRel), Y: float32(e.YRel)})
		}
	}

	keys := sdl.GetKeyboardState()
	for _, b := range i.bindings {
		if int(b.code) < len(keys) && keys[b.code] != 0 {
			snap.Held = snap.Held.With(b.action)
		}
	}

	return snap
}

// Resized reports the last window size change in the last Update.
func (i *Input) Resized() (width, height int, ok bool) {
	return i.width, i.height, i.resized
}
