package ecs_test

import (
	"testing"

	"github.com/plus3/scene2d/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformAllocateIdentity(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)

	h := s.Allocate()
	assert.True(t, s.Valid(h))
	assert.Equal(t, uint32(0), h.Slot)

	x, y := s.Position(h)
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Zero(t, s.Rotation(h))
	sx, sy := s.Scale(h)
	assert.Equal(t, float32(1), sx)
	assert.Equal(t, float32(1), sy)
	assert.Equal(t, 1, s.Len())
}

func TestTransformZeroHandleIsInvalid(t *testing.T) {
	s := ecs.NewTransformStorage2D(4)
	s.Allocate()

	assert.False(t, s.Valid(ecs.TransformHandle{}))
	assert.False(t, s.Valid(ecs.NullTransform))
	assert.False(t, s.Free(ecs.TransformHandle{}))
}

func TestTransformSlotReuseIsLIFO(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)
	a := s.Allocate()
	b := s.Allocate()
	s.Allocate()

	require.True(t, s.Free(a))
	require.True(t, s.Free(b))
	assert.Equal(t, 2, s.FreeCount())

	first := s.Allocate()
	second := s.Allocate()
	assert.Equal(t, b.Slot, first.Slot, "most recently freed slot comes back first")
	assert.Equal(t, a.Slot, second.Slot)
	assert.Equal(t, 3, s.Len(), "reuse does not grow the arrays")
	assert.Zero(t, s.FreeCount())

	third := s.Allocate()
	assert.Equal(t, uint32(3), third.Slot)
}

func TestTransformReuseOverwritesValues(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)
	h := s.AllocateWith(5, 6, 1.5, 2, 3)
	s.Free(h)

	reused := s.Allocate()
	require.Equal(t, h.Slot, reused.Slot)
	x, y := s.Position(reused)
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Zero(t, s.Rotation(reused))
	assert.Equal(t, float32(1), s.ScaleX(reused))
	assert.Equal(t, float32(1), s.ScaleY(reused))

	s.Free(reused)
	at := s.AllocateWith(7, 8, 0.25, 4, 5)
	assert.Equal(t, float32(7), s.X(at))
	assert.Equal(t, float32(8), s.Y(at))
	assert.Equal(t, float32(0.25), s.Rotation(at))
	assert.Equal(t, float32(4), s.ScaleX(at))
	assert.Equal(t, float32(5), s.ScaleY(at))
}

func TestTransformFieldRoundTrip(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)
	other := s.Allocate()
	h := s.Allocate()

	tests := []struct {
		name string
		set  func(float32) bool
		get  func() float32
	}{
		{"x", func(v float32) bool { return s.SetX(h, v) }, func() float32 { return s.X(h) }},
		{"y", func(v float32) bool { return s.SetY(h, v) }, func() float32 { return s.Y(h) }},
		{"rotation", func(v float32) bool { return s.SetRotation(h, v) }, func() float32 { return s.Rotation(h) }},
		{"scaleX", func(v float32) bool { return s.SetScaleX(h, v) }, func() float32 { return s.ScaleX(h) }},
		{"scaleY", func(v float32) bool { return s.SetScaleY(h, v) }, func() float32 { return s.ScaleY(h) }},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := float32(i+1) * 1.25
			require.True(t, tt.set(v))
			assert.Equal(t, v, tt.get())
		})
	}

	// No cross-field interference
	assert.Equal(t, float32(1.25), s.X(h))
	assert.Equal(t, float32(2.5), s.Y(h))
	assert.Equal(t, float32(3.75), s.Rotation(h))
	assert.Equal(t, float32(5), s.ScaleX(h))
	assert.Equal(t, float32(6.25), s.ScaleY(h))

	ox, oy := s.Position(other)
	assert.Zero(t, ox)
	assert.Zero(t, oy)
	assert.Equal(t, float32(1), s.ScaleX(other))
}

func TestTransformCompoundSetters(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)
	h := s.AllocateAt(10, 20)

	assert.True(t, s.SetPosition(h, 1, 2))
	assert.True(t, s.Translate(h, 10, -5))
	x, y := s.Position(h)
	assert.Equal(t, float32(11), x)
	assert.Equal(t, float32(-3), y)

	assert.True(t, s.SetScale(h, 3))
	sx, sy := s.Scale(h)
	assert.Equal(t, float32(3), sx)
	assert.Equal(t, float32(3), sy)

	assert.True(t, s.SetScaleXY(h, 2, 4))
	sx, sy = s.Scale(h)
	assert.Equal(t, float32(2), sx)
	assert.Equal(t, float32(4), sy)

	assert.True(t, s.Rotate(h, 0.5))
	assert.True(t, s.Rotate(h, 0.25))
	assert.Equal(t, float32(0.75), s.Rotation(h))
}

func TestTransformStaleHandle(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)
	stale := s.AllocateAt(3, 4)
	require.True(t, s.Free(stale))
	assert.False(t, s.Free(stale), "double free is refused")
	assert.Equal(t, 1, s.FreeCount())

	fresh := s.AllocateAt(50, 60)
	require.Equal(t, stale.Slot, fresh.Slot)
	assert.NotEqual(t, stale.Gen, fresh.Gen)

	// Stale handles read defaults instead of the slot's new owner
	assert.False(t, s.Valid(stale))
	assert.Zero(t, s.X(stale))
	assert.Zero(t, s.Y(stale))
	assert.Zero(t, s.Rotation(stale))
	assert.Equal(t, float32(1), s.ScaleX(stale))
	assert.Equal(t, float32(1), s.ScaleY(stale))

	// and cannot write to it
	assert.False(t, s.SetX(stale, 99))
	assert.False(t, s.SetPosition(stale, 99, 99))
	assert.False(t, s.Translate(stale, 1, 1))
	assert.False(t, s.SetScale(stale, 9))
	assert.False(t, s.Rotate(stale, 1))
	assert.False(t, s.Free(stale))
	assert.Equal(t, float32(50), s.X(fresh))
	assert.Equal(t, float32(60), s.Y(fresh))
}

func TestTransformOutOfRange(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)
	h := ecs.TransformHandle{Slot: 12, Gen: 1}

	assert.Zero(t, s.X(h))
	assert.Equal(t, float32(1), s.ScaleY(h))
	assert.False(t, s.SetY(h, 1))
	assert.False(t, s.Live(12))
	assert.Zero(t, s.Generation(12))
}

func TestTransformBatchViews(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)
	a := s.AllocateAt(1, 10)
	b := s.AllocateAt(2, 20)
	c := s.AllocateAt(3, 30)
	s.Free(b)

	xs := s.XS()
	ys := s.YS()
	require.Len(t, xs, 3)
	require.Len(t, ys, 3)
	assert.Len(t, s.Rotations(), 3)
	assert.Len(t, s.ScaleXS(), 3)
	assert.Len(t, s.ScaleYS(), 3)

	// Sweep live slots through the views
	for slot := range xs {
		if s.Live(uint32(slot)) {
			xs[slot] += 100
		}
	}
	assert.Equal(t, float32(101), s.X(a))
	assert.Equal(t, float32(103), s.X(c))
	assert.Equal(t, float32(2), xs[b.Slot], "freed slot keeps stale data")
	assert.False(t, s.Live(b.Slot))
}

func TestTransformClear(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)
	h := s.Allocate()
	s.Allocate()

	s.Clear()

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.FreeCount())
	assert.False(t, s.Valid(h))

	again := s.Allocate()
	assert.Equal(t, uint32(0), again.Slot)
	assert.True(t, s.Valid(again))
	assert.False(t, s.Valid(h), "reallocating the slot does not revive old handles")
}

func TestTransformAttachOwner(t *testing.T) {
	s := ecs.NewTransformStorage2D(0)
	h := s.Allocate()
	assert.Equal(t, ecs.NullEntity, s.Owner(h.Slot))

	assert.False(t, s.Attach(h, ecs.NullEntity))
	require.True(t, s.Attach(h, 4))
	assert.False(t, s.Attach(h, 5), "slot already owned")
	assert.False(t, s.Attach(h, 4))
	assert.Equal(t, ecs.Entity(4), s.Owner(h.Slot))

	require.True(t, s.Free(h))
	assert.Equal(t, ecs.NullEntity, s.Owner(h.Slot))
	assert.False(t, s.Attach(h, 4), "stale handle")

	again := s.Allocate()
	assert.Equal(t, ecs.NullEntity, s.Owner(again.Slot), "reused slot starts unowned")
	require.True(t, s.Attach(again, 6))
	s.Clear()
	assert.Equal(t, ecs.NullEntity, s.Owner(again.Slot))
	assert.Equal(t, ecs.NullEntity, s.Owner(99))
}
