// Package scene stores the static props of the flight world in an ark ECS
// world.
package scene

import (
	gomath "math"

	"github.com/mlange-42/ark/ecs"

	"github.com/Faultbox/skylark/internal/config"
	"github.com/Faultbox/skylark/internal/engine/transform"
	"github.com/Faultbox/skylark/pkg/math"
)

// Prop describes how a scenery entity is drawn.
type Prop struct {
	Model string
	Color [3]float32
}

// Scene holds every prop entity.
type Scene struct {
	world  *ecs.World
	mapper *ecs.Map2[transform.Transform, Prop]
	filter *ecs.Filter2[transform.Transform, Prop]
	count  int
}

// New creates an empty scene.
func New() *Scene {
	world := ecs.NewWorld()
	return &Scene{
		world:  world,
		mapper: ecs.NewMap2[transform.Transform, Prop](world),
		filter: ecs.NewFilter2[transform.Transform, Prop](world),
	}
}

// FromConfig builds a scene holding one prop per entry. Rotations are Euler
// XYZ in degrees.
func FromConfig(props []config.PropConfig) *Scene {
	s := New()
	for _, pc := range props {
		t := transform.New(pc.Position, pc.Scale)
		if !pc.Rotation.IsZero() {
			r := pc.Rotation.Scale(gomath.Pi / 180)
			t.RotateBy(math.QuatFromEuler(r.X, r.Y, r.Z))
		}
		s.Spawn(t, Prop{Model: pc.Model, Color: pc.Color})
	}
	return s
}

// Spawn adds a prop and returns its entity.
func (s *Scene) Spawn(t transform.Transform, p Prop) ecs.Entity {
	e := s.mapper.NewEntity(&t, &p)
	s.count++
	return e
}

// Despawn removes a prop. Unknown or already removed entities are ignored.
func (s *Scene) Despawn(e ecs.Entity) bool {
	if !s.world.Alive(e) {
		return false
	}
	s.world.RemoveEntity(e)
	s.count--
	return true
}

// Len returns the number of live props.
func (s *Scene) Len() int {
	return s.count
}

// Get returns the components of a live prop.
func (s *Scene) Get(e ecs.Entity) (*transform.Transform, *Prop, bool) {
	if !s.world.Alive(e) || !s.mapper.HasAll(e) {
		return nil, nil, false
	}
	t, p := s.mapper.Get(e)
	return t, p, true
}

// Each visits every prop. fn must not spawn or despawn.
func (s *Scene) Each(fn func(e ecs.Entity, t *transform.Transform, p *Prop)) {
	query := s.filter.Query()
	for query.Next() {
		t, p := query.Get()
		fn(query.Entity(), t, p)
	}
}

// Models returns the distinct model paths in spawn order.
func (s *Scene) Models() []string {
	seen := make(map[string]bool)
	var out []string
	s.Each(func(_ ecs.Entity, _ *transform.Transform, p *Prop) {
		if !seen[p.Model] {
			seen[p.Model] = true
			out = append(out, p.Model)
		}
	})
	return out
}

// Bounds returns the component-wise extents of all prop positions. ok is
// false for an empty scene.
func (s *Scene) Bounds() (lo, hi math.Vec3, ok bool) {
	s.Each(func(_ ecs.Entity, t *transform.Transform, _ *Prop) {
		if !ok {
			lo, hi, ok = t.Position, t.Position, true
			return
		}
		lo = lo.Min(t.Position)
		hi = hi.Max(t.Position)
	})
	return lo, hi, ok
}
