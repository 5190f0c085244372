// Package control defines the per-tick input snapshot the simulation consumes.
package control

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Faultbox/skylark/pkg/math"
)

// Action is a directional force request.
type Action uint8

const (
	Forward Action = iota
	Back
	StrafeLeft
	StrafeRight
	Ascend
	Descend

	actionCount
)

var actionNames = [actionCount]string{
	Forward:     "forward",
	Back:        "back",
	StrafeLeft:  "strafe_left",
	StrafeRight: "strafe_right",
	Ascend:      "ascend",
	Descend:     "descend",
}

// AllActions lists every action in resolution order.
var AllActions = []Action{Forward, Back, StrafeLeft, StrafeRight, Ascend, Descend}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction looks up an action by its config name.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Actions is a set of held actions.
type Actions uint8

// With returns the set with a added.
func (s Actions) With(a Action) Actions {
	return s | 1<<a
}

// Has reports whether a is held.
func (s Actions) Has(a Action) bool {
	return s&(1<<a) != 0
}

func (s Actions) String() string {
	if s == 0 {
		return "none"
	}
	var names []string
	for _, a := range AllActions {
		if s.Has(a) {
			names = append(names, a.String())
		}
	}
	return strings.Join(names, "+")
}

// Snapshot is the input for one tick. It is passed by value and never
// mutated by the simulation.
type Snapshot struct {
	PointerDelta math.Vec2
	Held         Actions

	// One-shot requests handled by the game loop, not the simulation.
	Quit         bool
	ToggleGrab   bool
	ToggleDither bool
}

// Frame is the basis that held actions are resolved against.
type Frame struct {
	Forward, Right, Up math.Vec3
}

// Direction returns the world-space unit direction for a in frame f.
func (f Frame) Direction(a Action) math.Vec3 {
	switch a {
	case Forward:
		return f.Forward
	case Back:
		return f.Forward.Neg()
	case StrafeLeft:
		return f.Right.Neg()
	case StrafeRight:
		return f.Right
	case Ascend:
		return f.Up
	case Descend:
		return f.Up.Neg()
	}
	return math.Vec3{}
}

// ErrUnknownAction is returned by Keymap.Validate.
var ErrUnknownAction = errors.New("unknown action")

// Keymap binds action names to key names, e.g. "forward": ["W", "Up"].
// Key names are resolved by the input backend.
type Keymap map[string][]string

// DefaultKeymap returns the stock bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Forward.String():     {"W", "Up"},
		Back.String():        {"S", "Down"},
		StrafeLeft.String():  {"A", "Left"},
		StrafeRight.String(): {"D", "Right"},
		Ascend.String():      {"Space"},
		Descend.String():     {"Left Ctrl"},
	}
}

// Validate checks that every bound name is a known action.
func (k Keymap) Validate() error {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := ParseAction(name); err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownAction, name)
		}
	}
	return nil
}

// Bindings returns the keymap as a list of (action, key) pairs in action order.
func (k Keymap) Bindings() []Binding {
	var out []Binding
	for _, a := range AllActions {
		for _, key := range k[a.String()] {
			out = append(out, Binding{Action: a, Key: key})
		}
	}
	return out
}

// Binding ties one key name to one action.
type Binding struct {
	Action Action
	Key    string
}
