package debugui

import (
	"fmt"
	"slices"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scene2d/ecs"
)

type KindQueryCache struct {
	kinds        []ecs.Kind
	names        map[ecs.Kind]string
	lastKindsLen int
}

func NewKindQueryComponent(maxRows int) KindQueryComponent {
	return KindQueryComponent{
		selectedKinds: make(map[ecs.Kind]bool),
		cache: &KindQueryCache{
			names:        make(map[ecs.Kind]string),
			lastKindsLen: -1,
		},
		maxRows: maxRows,
	}
}

// Render lets the user pick a set of kinds and lists the entities holding all of them.
func (kq *KindQueryComponent) Render(scene *ecs.Scene) {
	if !imgui.BeginV("Kind Query", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	kq.rebuildCacheIfNeeded(scene)

	imgui.Text("Select Kinds:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		kq.selectedKinds = make(map[ecs.Kind]bool)
	}

	cm := scene.Components()
	for _, kind := range kq.cache.kinds {
		selected := kq.selectedKinds[kind]
		label := fmt.Sprintf("%s (%d)", kq.cache.names[kind], cm.Count(kind))
		if imgui.Checkbox(label, &selected) {
			if selected {
				kq.selectedKinds[kind] = true
			} else {
				delete(kq.selectedKinds, kind)
			}
		}
	}

	imgui.Separator()

	required := make([]ecs.Kind, 0, len(kq.selectedKinds))
	for kind := range kq.selectedKinds {
		required = append(required, kind)
	}

	if len(required) == 0 {
		imgui.Text("No kinds selected")
		imgui.End()
		return
	}

	matching := MatchKinds(cm, required)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Entity Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("KindQueryTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity")
			imgui.TableSetupColumn("All Components")
			imgui.TableHeadersRow()

			for _, entity := range matching[:min(len(matching), kq.maxRows)] {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", entity))

				imgui.TableSetColumnIndex(1)
				kinds := cm.KindsOf(entity)
				names := make([]string, len(kinds))
				for i, k := range kinds {
					names[i] = kq.cache.names[k]
				}
				imgui.Text(fmt.Sprintf("%v", names))
			}

			imgui.EndTable()
		}
		if len(matching) > kq.maxRows {
			imgui.Text(fmt.Sprintf("... %d more", len(matching)-kq.maxRows))
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (kq *KindQueryComponent) rebuildCacheIfNeeded(scene *ecs.Scene) {
	registry := scene.Registry()
	if kq.cache.lastKindsLen == registry.Len() {
		return
	}
	kq.cache.lastKindsLen = registry.Len()

	kq.cache.kinds = registry.Kinds()
	for _, kind := range kq.cache.kinds {
		kq.cache.names[kind] = registry.Name(kind)
	}
	sort.Slice(kq.cache.kinds, func(i, j int) bool {
		return kq.cache.names[kq.cache.kinds[i]] < kq.cache.names[kq.cache.kinds[j]]
	})
}

// MatchKinds returns, in ascending order, the entities of cm holding every kind
// in required. The smallest store drives the scan.
func MatchKinds(cm *ecs.ComponentManager, required []ecs.Kind) []ecs.Entity {
	if len(required) == 0 {
		return nil
	}

	driver := required[0]
	for _, kind := range required[1:] {
		if cm.Count(kind) < cm.Count(driver) {
			driver = kind
		}
	}

	var matching []ecs.Entity
	for _, entity := range cm.EntitiesWith(driver) {
		ok := true
		for _, kind := range required {
			if kind != driver && !cm.Has(kind, entity) {
				ok = false
				break
			}
		}
		if ok {
			matching = append(matching, entity)
		}
	}
	slices.Sort(matching)
	return matching
}
