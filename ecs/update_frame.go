package ecs

import "log"

// UpdateFrame is handed to every system during one Scene.Update.
type UpdateFrame struct {
	DeltaTime float64
	// Frame counts Update calls, starting at 1.
	Frame    uint64
	Scene    *Scene
	Commands *Commands
	Logger   *log.Logger
}

func newUpdateFrame(dt float64, frame uint64, scene *Scene, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Frame:     frame,
		Scene:     scene,
		Commands:  commands,
		Logger:    scene.logger,
	}
}
