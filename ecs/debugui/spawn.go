package debugui

import "github.com/plus3/scene2d/ecs"

// SpawnDebugUI spawns one entity per debug window and registers the system that draws them.
func SpawnDebugUI(scene *ecs.Scene) *WindowSystem {
	RegisterDebugUIComponents(scene.Registry())

	scene.Spawn(NewEntityBrowserComponent(100))
	scene.Spawn(NewComponentInspectorComponent())
	scene.Spawn(NewTransformViewerComponent(200))
	scene.Spawn(NewPerformanceStatsComponent(120))
	scene.Spawn(NewKindQueryComponent(50))

	windows := &WindowSystem{}
	scene.AddSystem(windows)
	return windows
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[TransformViewerComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
	ecs.RegisterComponent[KindQueryComponent](registry)
	ecs.RegisterComponent[ImguiItem](registry)
}
