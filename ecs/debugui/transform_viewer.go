package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scene2d/ecs"
)

type TransformSlotInfo struct {
	Slot       uint32
	Generation uint32
	Live       bool
	Owner      ecs.Entity
}

type TransformViewerCache struct {
	slots []TransformSlotInfo
}

func NewTransformViewerComponent(maxRows int) TransformViewerComponent {
	return TransformViewerComponent{
		cache:   &TransformViewerCache{},
		maxRows: maxRows,
	}
}

// Render draws the slots of the scene's transform storage and returns the owner
// of the row clicked this frame, or ecs.NullEntity.
func (tv *TransformViewerComponent) Render(scene *ecs.Scene) ecs.Entity {
	if !imgui.BeginV("Transform Storage", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return ecs.NullEntity
	}

	storage := scene.Transforms()
	tv.rebuildCache(scene)

	total, free := storage.Len(), storage.FreeCount()
	imgui.Text(fmt.Sprintf("Slots: %d  Live: %d  Free: %d", total, total-free, free))

	if total > 0 {
		drawList := imgui.WindowDrawList()
		pos := imgui.CursorScreenPos()
		liveWidth := float32(total-free) / float32(total) * 200.0
		drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+200, pos.Y+8), imgui.ColorU32Vec4(imgui.NewVec4(0.3, 0.3, 0.3, 0.6)))
		drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+liveWidth, pos.Y+8), imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.8)))
		imgui.NewLine()
	}

	imgui.Checkbox("Show free slots", &tv.showFree)
	imgui.Separator()

	clicked := ecs.NullEntity
	rows := tv.visibleSlots()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("TransformTable", 7, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Slot")
		imgui.TableSetupColumn("Gen")
		imgui.TableSetupColumn("Owner")
		imgui.TableSetupColumn("X")
		imgui.TableSetupColumn("Y")
		imgui.TableSetupColumn("Rotation")
		imgui.TableSetupColumn("Scale")
		imgui.TableHeadersRow()

		xs, ys := storage.XS(), storage.YS()
		rotations := storage.Rotations()
		scaleXS, scaleYS := storage.ScaleXS(), storage.ScaleYS()

		start := tv.currentPage * tv.maxRows
		end := min(start+tv.maxRows, len(rows))
		for _, info := range rows[min(start, end):end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := tv.selectedSlot != nil && *tv.selectedSlot == info.Slot
			if imgui.SelectableBoolV(fmt.Sprintf("%d", info.Slot), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				slot := info.Slot
				tv.selectedSlot = &slot
				clicked = info.Owner
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", info.Generation))

			imgui.TableNextColumn()
			switch {
			case !info.Live:
				imgui.Text("free")
			case info.Owner == ecs.NullEntity:
				imgui.Text("unattached")
			default:
				imgui.Text(fmt.Sprintf("%d", info.Owner))
			}

			if !info.Live {
				for range 4 {
					imgui.TableNextColumn()
					imgui.Text("-")
				}
				continue
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", xs[info.Slot]))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f", ys[info.Slot]))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.3f", rotations[info.Slot]))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2f x %.2f", scaleXS[info.Slot], scaleYS[info.Slot]))
		}

		imgui.EndTable()
	}

	if len(rows) > tv.maxRows {
		totalPages := (len(rows) + tv.maxRows - 1) / tv.maxRows
		tv.currentPage = min(tv.currentPage, totalPages-1)
		imgui.Text(fmt.Sprintf("Page %d / %d", tv.currentPage+1, totalPages))
		imgui.SameLine()
		if imgui.Button("Prev") && tv.currentPage > 0 {
			tv.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && tv.currentPage < totalPages-1 {
			tv.currentPage++
		}
	} else {
		tv.currentPage = 0
	}

	imgui.End()
	return clicked
}

func (tv *TransformViewerComponent) rebuildCache(scene *ecs.Scene) {
	storage := scene.Transforms()

	tv.cache.slots = tv.cache.slots[:0]
	for slot := range uint32(storage.Len()) {
		tv.cache.slots = append(tv.cache.slots, TransformSlotInfo{
			Slot:       slot,
			Generation: storage.Generation(slot),
			Live:       storage.Live(slot),
			Owner:      storage.Owner(slot),
		})
	}
}

func (tv *TransformViewerComponent) visibleSlots() []TransformSlotInfo {
	if tv.showFree {
		return tv.cache.slots
	}
	live := make([]TransformSlotInfo, 0, len(tv.cache.slots))
	for _, info := range tv.cache.slots {
		if info.Live {
			live = append(live, info)
		}
	}
	return live
}
