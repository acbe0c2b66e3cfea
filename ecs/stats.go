package ecs

import (
	"slices"
	"strings"
)

// SceneStats is a point-in-time summary of a scene.
type SceneStats struct {
	EntityCount int
	// EntitiesWithComponents counts live entities holding at least one component.
	EntitiesWithComponents int
	SystemCount            int

	Kinds []KindStats

	TransformSlots     int
	FreeTransformSlots int
	LiveTransformSlots int

	ResourceCount int
	ResourceTypes []string
}

// KindStats describes one registered kind.
type KindStats struct {
	Kind        Kind
	Name        string
	EntityCount int
}

// CollectStats gathers statistics about the scene.
func (s *Scene) CollectStats() *SceneStats {
	stats := &SceneStats{
		EntityCount:            len(s.entities),
		EntitiesWithComponents: s.components.EntityCount(),
		SystemCount:            len(s.scheduler.systems),
		TransformSlots:         s.transforms.Len(),
		FreeTransformSlots:     s.transforms.FreeCount(),
		ResourceCount:          len(s.resources),
	}
	stats.LiveTransformSlots = stats.TransformSlots - stats.FreeTransformSlots

	for _, kind := range s.registry.Kinds() {
		stats.Kinds = append(stats.Kinds, KindStats{
			Kind:        kind,
			Name:        s.registry.Name(kind),
			EntityCount: s.components.Count(kind),
		})
	}

	stats.ResourceTypes = make([]string, 0, len(s.resources))
	for t := range s.resources {
		stats.ResourceTypes = append(stats.ResourceTypes, t.String())
	}
	slices.SortFunc(stats.ResourceTypes, strings.Compare)

	return stats
}
