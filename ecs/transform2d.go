package ecs

import "math"

// Transform2D places an entity in 2D space. Its values live in the scene's
// TransformStorage2D; the component only holds the handle to its slot.
// The slot is freed when the component leaves the scene.
//
//ecs:component
type Transform2D struct {
	Handle TransformHandle
}

// TransformRef reads and writes one transform slot. The zero value refers to
// nothing: getters return identity defaults and setters report false.
type TransformRef struct {
	storage *TransformStorage2D
	handle  TransformHandle
}

// Ref binds t to storage.
func (t Transform2D) Ref(storage *TransformStorage2D) TransformRef {
	return TransformRef{storage: storage, handle: t.Handle}
}

func (r TransformRef) Handle() TransformHandle {
	return r.handle
}

// Valid reports whether the underlying slot is still live.
func (r TransformRef) Valid() bool {
	return r.storage != nil && r.storage.Valid(r.handle)
}

func (r TransformRef) X() float32 {
	if r.storage == nil {
		return 0
	}
	return r.storage.X(r.handle)
}

func (r TransformRef) Y() float32 {
	if r.storage == nil {
		return 0
	}
	return r.storage.Y(r.handle)
}

func (r TransformRef) Position() (float32, float32) {
	if r.storage == nil {
		return 0, 0
	}
	return r.storage.Position(r.handle)
}

// Rotation returns the rotation in radians.
func (r TransformRef) Rotation() float32 {
	if r.storage == nil {
		return 0
	}
	return r.storage.Rotation(r.handle)
}

// RotationDegrees returns the rotation in degrees.
func (r TransformRef) RotationDegrees() float32 {
	return r.Rotation() * 180 / math.Pi
}

func (r TransformRef) ScaleX() float32 {
	if r.storage == nil {
		return 1
	}
	return r.storage.ScaleX(r.handle)
}

func (r TransformRef) ScaleY() float32 {
	if r.storage == nil {
		return 1
	}
	return r.storage.ScaleY(r.handle)
}

func (r TransformRef) SetX(v float32) bool {
	return r.storage != nil && r.storage.SetX(r.handle, v)
}

func (r TransformRef) SetY(v float32) bool {
	return r.storage != nil && r.storage.SetY(r.handle, v)
}

func (r TransformRef) SetPosition(x, y float32) bool {
	return r.storage != nil && r.storage.SetPosition(r.handle, x, y)
}

func (r TransformRef) Translate(dx, dy float32) bool {
	return r.storage != nil && r.storage.Translate(r.handle, dx, dy)
}

// SetRotation sets the rotation in radians.
func (r TransformRef) SetRotation(radians float32) bool {
	return r.storage != nil && r.storage.SetRotation(r.handle, radians)
}

func (r TransformRef) SetRotationDegrees(degrees float32) bool {
	return r.SetRotation(degrees * math.Pi / 180)
}

// Rotate adds radians to the rotation.
func (r TransformRef) Rotate(radians float32) bool {
	return r.storage != nil && r.storage.Rotate(r.handle, radians)
}

// SetScale sets a uniform scale.
func (r TransformRef) SetScale(s float32) bool {
	return r.storage != nil && r.storage.SetScale(r.handle, s)
}

func (r TransformRef) SetScaleXY(sx, sy float32) bool {
	return r.storage != nil && r.storage.SetScaleXY(r.handle, sx, sy)
}
