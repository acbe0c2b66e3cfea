package ecs

import "math"

// Entity is an opaque handle for a logical object in a Scene.
// Entities carry no data; they are keys into the ComponentManager.
type Entity uint32

// NullEntity is the reserved "no entity" value.
const NullEntity Entity = math.MaxUint32

// IsValid reports whether e is not the NullEntity sentinel.
// It does not imply that e is alive in any particular Scene.
func (e Entity) IsValid() bool {
	return e != NullEntity
}

// IsValidEntity is the function form of Entity.IsValid.
func IsValidEntity(e Entity) bool {
	return e.IsValid()
}
