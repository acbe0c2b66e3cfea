// Package debugui provides immediate-mode GUI integration for scenes using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scene2d/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a scene resource.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState resource with current input capture state.
type ImguiSystem struct {
	ecs.BaseSystem
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Resource[ImguiInputState]
}

func (i *ImguiSystem) Initialize(scene *ecs.Scene) {
	i.BaseSystem.Initialize(scene)
	ecs.NewResource[ImguiInputState](scene)
}

// Update updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Update(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for item := range i.Items.Values() {
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}

// Selection is the scene resource holding the entity the inspector shows.
type Selection struct {
	Entity ecs.Entity
}

// WindowSystem draws the debug windows spawned by SpawnDebugUI. The entity
// selected in the browser or the transform viewer is stored in the Selection
// resource and shown by the inspector.
type WindowSystem struct {
	ecs.BaseSystem
	Browsers   ecs.View[struct{ *EntityBrowserComponent }]
	Inspectors ecs.View[struct{ *ComponentInspectorComponent }]
	Transforms ecs.View[struct{ *TransformViewerComponent }]
	Queries    ecs.View[struct{ *KindQueryComponent }]
	Stats      ecs.View[struct{ *PerformanceStatsComponent }]
	Timer      ecs.Resource[FrameTimer]
	Selection  ecs.Resource[Selection]
}

func (w *WindowSystem) Initialize(scene *ecs.Scene) {
	w.BaseSystem.Initialize(scene)
	ecs.NewResource(scene, NewFrameTimer())
	ecs.NewResource(scene, Selection{Entity: ecs.NullEntity})
}

func (w *WindowSystem) Update(frame *ecs.UpdateFrame) {
	dt := w.Timer.Get().GetDeltaTime()
	frame.Commands.Defer(func() {
		w.render(frame.Scene, dt)
	})
}

func (w *WindowSystem) render(scene *ecs.Scene, dt float32) {
	selection := w.Selection.Get()
	if selection == nil {
		selection = ecs.SetResource(scene, Selection{Entity: ecs.NullEntity})
	}
	for v := range w.Browsers.Values() {
		if e := v.Render(scene); e != ecs.NullEntity {
			selection.Entity = e
		}
	}
	for v := range w.Transforms.Values() {
		if e := v.Render(scene); e != ecs.NullEntity {
			selection.Entity = e
		}
	}
	w.pruneSelection(scene)
	for v := range w.Inspectors.Values() {
		v.Render(scene, selection.Entity)
	}
	for v := range w.Queries.Values() {
		v.Render(scene)
	}
	for v := range w.Stats.Values() {
		v.Render(scene, dt)
	}
}

// pruneSelection drops a selected entity that has since been destroyed.
func (w *WindowSystem) pruneSelection(scene *ecs.Scene) {
	if selection := w.Selection.Get(); selection != nil && !scene.IsAlive(selection.Entity) {
		selection.Entity = ecs.NullEntity
	}
}

// Selected returns the entity shown in the inspector, or ecs.NullEntity.
func (w *WindowSystem) Selected() ecs.Entity {
	if selection := w.Selection.Get(); selection != nil {
		return selection.Entity
	}
	return ecs.NullEntity
}
