package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/AllenDang/cimgui-go/implot"
	"github.com/plus3/scene2d/ecs"
	"github.com/plus3/scene2d/ecs/debugui"
	"github.com/plus3/scene2d/internal/demo"
)

const latencyHistorySize = 120

// spawnDemoWindow adds the window with the demo controls and a per-system latency chart.
func spawnDemoWindow(scene *ecs.Scene) {
	latency := make(map[string][]float32)
	offset := 0

	scene.Spawn(debugui.ImguiItem{
		Render: func() {
			settings := ecs.GetResource[demo.Settings](scene)
			if settings == nil {
				return
			}

			stats := scene.SchedulerStats()
			for _, sys := range stats.Systems {
				samples, ok := latency[sys.Name]
				if !ok {
					samples = make([]float32, latencyHistorySize)
					latency[sys.Name] = samples
				}
				samples[offset] = float32(sys.LastDuration.Microseconds()) / 1000
			}
			offset = (offset + 1) % latencyHistorySize

			imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(320, 360), imgui.CondOnce)

			if imgui.BeginV("Scene Demo", nil, 0) {
				imgui.Text(fmt.Sprintf("Entities: %d", scene.EntityCount()))
				imgui.Text(fmt.Sprintf("Sprites: %d", ecs.CountComponents[ecs.Sprite2D](scene)))
				imgui.Text(fmt.Sprintf("Frame: %d", stats.Frames))
				imgui.Separator()

				imgui.Checkbox("Paused", &settings.Paused)
				imgui.SetNextItemWidth(150)
				imgui.InputFloat("Speed", &settings.Speed)

				if imgui.Button("Add 10 sprites") {
					demo.AddSprites(scene, 10)
				}
				imgui.SameLine()
				if imgui.Button("Remove sprites") {
					demo.RemoveSprites(scene)
				}

				imgui.Separator()
				if implot.BeginPlotV("System Latency", imgui.NewVec2(-1, -1), 0) {
					implot.SetupAxesV("Frame", "Time (ms)", 0, implot.AxisFlagsAutoFit)
					for _, sys := range stats.Systems {
						samples := latency[sys.Name]
						implot.PlotLineFloatPtrInt(sys.Name, &samples[0], int32(len(samples)))
					}
					implot.EndPlot()
				}
			}
			imgui.End()
		},
	})
}
