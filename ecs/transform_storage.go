package ecs

import "math"

// TransformHandle identifies one slot of a TransformStorage2D.
// The generation makes a handle go stale once its slot is freed, so a recycled
// slot cannot be reached through an old handle.
type TransformHandle struct {
	Slot uint32
	Gen  uint32
}

// NullTransform never refers to a slot.
var NullTransform = TransformHandle{Slot: math.MaxUint32}

// TransformStorage2D keeps 2D transforms as parallel arrays (structure of arrays)
// with a LIFO free list of released slots.
type TransformStorage2D struct {
	x        []float32
	y        []float32
	rotation []float32
	scaleX   []float32
	scaleY   []float32

	gens   []uint32
	live   []bool
	owners []Entity
	free   []uint32
}

// NewTransformStorage2D creates storage with room for capacity slots before growing.
func NewTransformStorage2D(capacity int) *TransformStorage2D {
	if capacity < 0 {
		capacity = 0
	}
	return &TransformStorage2D{
		x:        make([]float32, 0, capacity),
		y:        make([]float32, 0, capacity),
		rotation: make([]float32, 0, capacity),
		scaleX:   make([]float32, 0, capacity),
		scaleY:   make([]float32, 0, capacity),
		gens:     make([]uint32, 0, capacity),
		live:     make([]bool, 0, capacity),
		owners:   make([]Entity, 0, capacity),
	}
}

// Allocate returns a slot holding the identity transform.
func (s *TransformStorage2D) Allocate() TransformHandle {
	return s.AllocateWith(0, 0, 0, 1, 1)
}

// AllocateAt returns a slot at (x, y) with no rotation and unit scale.
func (s *TransformStorage2D) AllocateAt(x, y float32) TransformHandle {
	return s.AllocateWith(x, y, 0, 1, 1)
}

// AllocateWith returns a slot initialized to the given values. The most recently
// freed slot is reused first; otherwise every array grows by one.
func (s *TransformStorage2D) AllocateWith(x, y, rotation, scaleX, scaleY float32) TransformHandle {
	if n := len(s.free); n > 0 {
		slot := s.free[n-1]
		s.free = s.free[:n-1]

		s.x[slot] = x
		s.y[slot] = y
		s.rotation[slot] = rotation
		s.scaleX[slot] = scaleX
		s.scaleY[slot] = scaleY
		s.live[slot] = true
		s.owners[slot] = NullEntity
		return TransformHandle{Slot: slot, Gen: s.gens[slot]}
	}

	slot := uint32(len(s.x))
	s.x = append(s.x, x)
	s.y = append(s.y, y)
	s.rotation = append(s.rotation, rotation)
	s.scaleX = append(s.scaleX, scaleX)
	s.scaleY = append(s.scaleY, scaleY)
	s.gens = append(s.gens, 1)
	s.live = append(s.live, true)
	s.owners = append(s.owners, NullEntity)
	return TransformHandle{Slot: slot, Gen: 1}
}

// Free releases the slot behind h. Stale or unknown handles are ignored and
// report false, so a slot is pushed onto the free list at most once per allocation.
func (s *TransformStorage2D) Free(h TransformHandle) bool {
	if !s.Valid(h) {
		return false
	}

	s.live[h.Slot] = false
	s.owners[h.Slot] = NullEntity
	s.gens[h.Slot]++
	if s.gens[h.Slot] == 0 {
		s.gens[h.Slot] = 1
	}
	s.free = append(s.free, h.Slot)
	return true
}

// Valid reports whether h refers to a live slot of this storage.
func (s *TransformStorage2D) Valid(h TransformHandle) bool {
	return h.Slot < uint32(len(s.x)) && s.live[h.Slot] && s.gens[h.Slot] == h.Gen
}

// Attach records entity as the owner of the slot behind h. It fails for a stale
// handle or a slot that already has an owner, so one slot backs at most one
// attached Transform2D.
func (s *TransformStorage2D) Attach(h TransformHandle, entity Entity) bool {
	if !s.Valid(h) || !entity.IsValid() || s.owners[h.Slot] != NullEntity {
		return false
	}
	s.owners[h.Slot] = entity
	return true
}

// Owner returns the entity slot is attached to, or NullEntity for a free or
// unattached slot.
func (s *TransformStorage2D) Owner(slot uint32) Entity {
	if slot >= uint32(len(s.owners)) || !s.live[slot] {
		return NullEntity
	}
	return s.owners[slot]
}

// X returns the x position, or 0 for a stale handle.
func (s *TransformStorage2D) X(h TransformHandle) float32 {
	if !s.Valid(h) {
		return 0
	}
	return s.x[h.Slot]
}

// Y returns the y position, or 0 for a stale handle.
func (s *TransformStorage2D) Y(h TransformHandle) float32 {
	if !s.Valid(h) {
		return 0
	}
	return s.y[h.Slot]
}

// Position returns (x, y), or the origin for a stale handle.
func (s *TransformStorage2D) Position(h TransformHandle) (float32, float32) {
	if !s.Valid(h) {
		return 0, 0
	}
	return s.x[h.Slot], s.y[h.Slot]
}

// Rotation returns the rotation in radians, or 0 for a stale handle.
func (s *TransformStorage2D) Rotation(h TransformHandle) float32 {
	if !s.Valid(h) {
		return 0
	}
	return s.rotation[h.Slot]
}

// ScaleX returns the horizontal scale, or 1 for a stale handle.
func (s *TransformStorage2D) ScaleX(h TransformHandle) float32 {
	if !s.Valid(h) {
		return 1
	}
	return s.scaleX[h.Slot]
}

// ScaleY returns the vertical scale, or 1 for a stale handle.
func (s *TransformStorage2D) ScaleY(h TransformHandle) float32 {
	if !s.Valid(h) {
		return 1
	}
	return s.scaleY[h.Slot]
}

// Scale returns (scaleX, scaleY), or (1, 1) for a stale handle.
func (s *TransformStorage2D) Scale(h TransformHandle) (float32, float32) {
	if !s.Valid(h) {
		return 1, 1
	}
	return s.scaleX[h.Slot], s.scaleY[h.Slot]
}

func (s *TransformStorage2D) SetX(h TransformHandle, v float32) bool {
	if !s.Valid(h) {
		return false
	}
	s.x[h.Slot] = v
	return true
}

func (s *TransformStorage2D) SetY(h TransformHandle, v float32) bool {
	if !s.Valid(h) {
		return false
	}
	s.y[h.Slot] = v
	return true
}

func (s *TransformStorage2D) SetPosition(h TransformHandle, x, y float32) bool {
	if !s.Valid(h) {
		return false
	}
	s.x[h.Slot] = x
	s.y[h.Slot] = y
	return true
}

// SetRotation sets the rotation in radians.
func (s *TransformStorage2D) SetRotation(h TransformHandle, v float32) bool {
	if !s.Valid(h) {
		return false
	}
	s.rotation[h.Slot] = v
	return true
}

func (s *TransformStorage2D) SetScaleX(h TransformHandle, v float32) bool {
	if !s.Valid(h) {
		return false
	}
	s.scaleX[h.Slot] = v
	return true
}

func (s *TransformStorage2D) SetScaleY(h TransformHandle, v float32) bool {
	if !s.Valid(h) {
		return false
	}
	s.scaleY[h.Slot] = v
	return true
}

// SetScale sets a uniform scale.
func (s *TransformStorage2D) SetScale(h TransformHandle, v float32) bool {
	return s.SetScaleXY(h, v, v)
}

// SetScaleXY sets a non-uniform scale.
func (s *TransformStorage2D) SetScaleXY(h TransformHandle, sx, sy float32) bool {
	if !s.Valid(h) {
		return false
	}
	s.scaleX[h.Slot] = sx
	s.scaleY[h.Slot] = sy
	return true
}

// Translate offsets the position by (dx, dy).
func (s *TransformStorage2D) Translate(h TransformHandle, dx, dy float32) bool {
	if !s.Valid(h) {
		return false
	}
	s.x[h.Slot] += dx
	s.y[h.Slot] += dy
	return true
}

// Rotate adds angle radians to the rotation.
func (s *TransformStorage2D) Rotate(h TransformHandle, angle float32) bool {
	if !s.Valid(h) {
		return false
	}
	s.rotation[h.Slot] += angle
	return true
}

// Batch views. They cover live and freed slots alike; use Live to skip freed ones.
// A view is invalidated by the next Allocate that grows the storage.

func (s *TransformStorage2D) XS() []float32        { return s.x }
func (s *TransformStorage2D) YS() []float32        { return s.y }
func (s *TransformStorage2D) Rotations() []float32 { return s.rotation }
func (s *TransformStorage2D) ScaleXS() []float32   { return s.scaleX }
func (s *TransformStorage2D) ScaleYS() []float32   { return s.scaleY }

// Live reports whether slot is currently allocated.
func (s *TransformStorage2D) Live(slot uint32) bool {
	return slot < uint32(len(s.live)) && s.live[slot]
}

// Generation returns the current generation of slot, or 0 if out of range.
func (s *TransformStorage2D) Generation(slot uint32) uint32 {
	if slot >= uint32(len(s.gens)) {
		return 0
	}
	return s.gens[slot]
}

// Len returns the number of slots, live and free.
func (s *TransformStorage2D) Len() int {
	return len(s.x)
}

// FreeCount returns the number of slots waiting on the free list.
func (s *TransformStorage2D) FreeCount() int {
	return len(s.free)
}

// Clear frees every slot. Outstanding handles become stale and slot 0 is the
// next one handed out.
func (s *TransformStorage2D) Clear() {
	s.free = s.free[:0]
	for slot := len(s.x) - 1; slot >= 0; slot-- {
		s.owners[slot] = NullEntity
		if s.live[slot] {
			s.live[slot] = false
			s.gens[slot]++
			if s.gens[slot] == 0 {
				s.gens[slot] = 1
			}
		}
		s.free = append(s.free, uint32(slot))
	}
}
