package engine

import (
	"math"
	"time"

	"github.com/solarlune/resolv"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
)

// Collision space layout. The resolv space extends boundsMargin past every
// canvas edge so the world-bound walls sit outside the visible area.
const (
	cellSize     = 16
	boundsMargin = cellSize
	maxSubstep   = cellSize / 2

	tagStatic  = "static"
	tagDynamic = "dynamic"
	tagBounds  = "bounds"
)

// Blocked records which sides of a body touched something during the last step.
type Blocked struct {
	Up, Down, Left, Right bool
}

// Body is an axis-aligned arcade physics body. Position is the top-left
// corner. Static bodies never move on their own and are only resized by
// UpdateFromGameObject.
type Body struct {
	Position           core.Vec2
	Velocity           core.Vec2
	Width              float64
	Height             float64
	Static             bool
	AllowGravity       bool
	CollideWorldBounds bool
	Blocked            Blocked

	sprite *Sprite
	obj    *resolv.Object
}

func newBody(s *Sprite, static bool) *Body {
	b := &Body{
		Static:       static,
		AllowGravity: !static,
		sprite:       s,
	}
	b.UpdateFromGameObject()
	return b
}

// Bounds returns the body rectangle.
func (b *Body) Bounds() Bounds {
	return Bounds{X: b.Position.X, Y: b.Position.Y, W: b.Width, H: b.Height}
}

// Center returns the midpoint of the body.
func (b *Body) Center() core.Vec2 {
	return core.Vec2{X: b.Position.X + b.Width/2, Y: b.Position.Y + b.Height/2}
}

// UpdateFromGameObject copies the sprite's scaled bounds into the body and
// its collision object.
func (b *Body) UpdateFromGameObject() {
	if b.sprite == nil {
		return
	}
	r := b.sprite.Bounds()
	b.Position = core.Vec2{X: r.X, Y: r.Y}
	b.Width = r.W
	b.Height = r.H
	b.syncObject()
}

// syncObject moves and resizes the collision object to match the body.
func (b *Body) syncObject() {
	if b.obj == nil {
		return
	}
	b.obj.X = b.Position.X + boundsMargin
	b.obj.Y = b.Position.Y + boundsMargin
	b.obj.W = b.Width
	b.obj.H = b.Height
	b.obj.Update()
}

// syncSprite moves the sprite so its bounds match the body again.
func (b *Body) syncSprite() {
	s := b.sprite
	if s == nil {
		return
	}
	s.X = b.Position.X + s.OriginX*b.Width
	s.Y = b.Position.Y + s.OriginY*b.Height
}

// World is the arcade physics simulation for one scene. Collision queries
// go through a resolv space covering the canvas plus a wall on every side.
type World struct {
	Gravity core.Vec2
	Debug   bool
	Bounds  Bounds

	space        *resolv.Space
	staticBodies []*Body
	bodies       []*Body
}

// NewWorld creates a world covering a width x height canvas.
func NewWorld(cfg config.ArcadeConfig, width, height int) *World {
	sw, sh := width+2*boundsMargin, height+2*boundsMargin
	space := resolv.NewSpace(sw, sh, cellSize, cellSize)

	fw, fh, m := float64(sw), float64(sh), float64(boundsMargin)
	space.Add(
		resolv.NewObject(0, 0, fw, m, tagBounds),
		resolv.NewObject(0, fh-m, fw, m, tagBounds),
		resolv.NewObject(0, m, m, fh-2*m, tagBounds),
		resolv.NewObject(fw-m, m, m, fh-2*m, tagBounds),
	)

	return &World{
		Gravity: core.Vec2{X: cfg.Gravity.X, Y: cfg.Gravity.Y},
		Debug:   cfg.Debug,
		Bounds:  Bounds{W: float64(width), H: float64(height)},
		space:   space,
	}
}

// StaticBodies returns the static bodies in creation order.
func (w *World) StaticBodies() []*Body {
	out := make([]*Body, len(w.staticBodies))
	copy(out, w.staticBodies)
	return out
}

// Bodies returns the dynamic bodies in creation order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

func (w *World) add(b *Body) {
	tag := tagDynamic
	if b.Static {
		tag = tagStatic
	}
	b.obj = resolv.NewObject(0, 0, b.Width, b.Height, tag)
	w.space.Add(b.obj)
	b.syncObject()

	if b.Static {
		w.staticBodies = append(w.staticBodies, b)
		return
	}
	w.bodies = append(w.bodies, b)
}

// Step integrates every dynamic body over delta. Horizontal and vertical
// motion are resolved separately against static bodies and, for bodies
// with CollideWorldBounds, the world walls.
func (w *World) Step(delta time.Duration) {
	dt := delta.Seconds()
	if dt <= 0 {
		return
	}

	for _, b := range w.bodies {
		if b.sprite != nil {
			b.Width = b.sprite.DisplayWidth()
			b.Height = b.sprite.DisplayHeight()
		}
		b.syncObject()
		b.Blocked = Blocked{}

		if b.AllowGravity {
			b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt))
		}
		move := b.Velocity.Scale(dt)
		w.moveX(b, move.X)
		w.moveY(b, move.Y)
		b.syncSprite()
	}
}

// moveX advances b horizontally in substeps no longer than half a cell so
// thin walls cannot be skipped.
func (w *World) moveX(b *Body, dx float64) {
	for _, step := range substeps(dx) {
		o, ok := w.obstacle(b, step, 0)
		if !ok {
			b.Position.X += step
			b.syncObject()
			continue
		}
		if step > 0 {
			b.Position.X = o.X - boundsMargin - b.Width
			b.Blocked.Right = true
		} else {
			b.Position.X = o.X + o.W - boundsMargin
			b.Blocked.Left = true
		}
		b.Velocity.X = 0
		b.syncObject()
		return
	}
}

// moveY is moveX for the vertical axis.
func (w *World) moveY(b *Body, dy float64) {
	for _, step := range substeps(dy) {
		o, ok := w.obstacle(b, 0, step)
		if !ok {
			b.Position.Y += step
			b.syncObject()
			continue
		}
		if step > 0 {
			b.Position.Y = o.Y - boundsMargin - b.Height
			b.Blocked.Down = true
		} else {
			b.Position.Y = o.Y + o.H - boundsMargin
			b.Blocked.Up = true
		}
		b.Velocity.Y = 0
		b.syncObject()
		return
	}
}

// obstacle returns the nearest solid object b would touch moving by
// (dx, dy). Exactly one of dx, dy is non-zero.
func (w *World) obstacle(b *Body, dx, dy float64) (*resolv.Object, bool) {
	check := b.obj.Check(dx, dy)
	if check == nil {
		return nil, false
	}

	var (
		nearest *resolv.Object
		best    = math.Inf(1)
	)
	for _, o := range check.Objects {
		if !w.solidFor(b, o) || !ahead(b.obj, o, dx, dy) {
			continue
		}
		contact := check.ContactWithObject(o)
		dist := math.Abs(contact.X() + contact.Y())
		if dist < math.Abs(dx+dy) && dist < best {
			nearest, best = o, dist
		}
	}
	return nearest, nearest != nil
}

func (w *World) solidFor(b *Body, o *resolv.Object) bool {
	if o.HasTags(tagStatic) {
		return true
	}
	return b.CollideWorldBounds && o.HasTags(tagBounds)
}

// ahead reports whether o lies in front of obj along the movement axis and
// overlaps it on the other axis.
func ahead(obj, o *resolv.Object, dx, dy float64) bool {
	switch {
	case dy > 0:
		return o.Y >= obj.Y+obj.H && spans(obj.X, obj.W, o.X, o.W)
	case dy < 0:
		return o.Y+o.H <= obj.Y && spans(obj.X, obj.W, o.X, o.W)
	case dx > 0:
		return o.X >= obj.X+obj.W && spans(obj.Y, obj.H, o.Y, o.H)
	case dx < 0:
		return o.X+o.W <= obj.X && spans(obj.Y, obj.H, o.Y, o.H)
	}
	return false
}

// spans reports whether two intervals overlap with positive length.
func spans(a, aw, b, bw float64) bool {
	return a < b+bw && b < a+aw
}

// substeps splits d into equal parts no longer than maxSubstep.
func substeps(d float64) []float64 {
	if d == 0 {
		return nil
	}
	n := int(math.Ceil(math.Abs(d) / maxSubstep))
	steps := make([]float64, n)
	for i := range steps {
		steps[i] = d / float64(n)
	}
	return steps
}

// ArcadePhysics is the scene's handle on the arcade system.
type ArcadePhysics struct {
	World *World
	Add   *PhysicsFactory
}

// PhysicsFactory creates physics-enabled game objects.
type PhysicsFactory struct {
	world   *World
	objects *GameObjectFactory
}

// StaticGroup creates an empty group of immovable bodies.
func (f *PhysicsFactory) StaticGroup() *StaticGroup {
	return &StaticGroup{factory: f}
}

// Sprite places a sprite with a dynamic body at (x, y).
func (f *PhysicsFactory) Sprite(x, y float64, key string) (*Sprite, error) {
	s, err := f.objects.Sprite(x, y, key)
	if err != nil {
		return nil, err
	}
	s.Body = newBody(s, false)
	f.world.add(s.Body)
	return s, nil
}

// StaticGroup is a collection of sprites carrying static bodies.
type StaticGroup struct {
	factory  *PhysicsFactory
	children []*Sprite
}

// Create places a sprite at (x, y) with a static body sized to the unscaled
// texture frame.
func (g *StaticGroup) Create(x, y float64, key string) (*Sprite, error) {
	s, err := g.factory.objects.Sprite(x, y, key)
	if err != nil {
		return nil, err
	}
	s.Body = newBody(s, true)
	g.factory.world.add(s.Body)
	g.children = append(g.children, s)
	return s, nil
}

// Children returns the group's sprites in creation order.
func (g *StaticGroup) Children() []*Sprite {
	out := make([]*Sprite, len(g.children))
	copy(out, g.children)
	return out
}

// Len returns the number of sprites in the group.
func (g *StaticGroup) Len() int {
	return len(g.children)
}

// Refresh calls RefreshBody on every child.
func (g *StaticGroup) Refresh() {
	for _, s := range g.children {
		s.RefreshBody()
	}
}
