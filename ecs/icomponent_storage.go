package ecs

// iComponentStorage is an interface for a type-erased component store.
// Values returned as any are always pointers to the stored component.
type iComponentStorage interface {
	Put(entity Entity, item any) bool
	Reject(entity Entity, item any)
	Get(entity Entity) any
	Has(entity Entity) bool
	Delete(entity Entity) bool
	Len() int
	AppendEntities(dst []Entity) []Entity
	EachEntity(fn func(Entity) bool)
	Clear()
}
