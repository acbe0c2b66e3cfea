package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scene2d/ecs"
)

type EntityInfo struct {
	ID             ecs.Entity
	Kinds          []ecs.Kind
	ComponentTypes []string
	HasTransform   bool
	X, Y           float32
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	signature     [2]int
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		selectedEntity:     ecs.NullEntity,
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

// FilterKind limits the browser to entities holding kind. Nil clears the filter.
func (eb *EntityBrowserComponent) FilterKind(kind *ecs.Kind) {
	eb.filterKind = kind
	eb.currentPage = 0
}

// Render draws the browser and returns the entity clicked this frame, or ecs.NullEntity.
func (eb *EntityBrowserComponent) Render(scene *ecs.Scene) ecs.Entity {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return ecs.NullEntity
	}

	eb.rebuildCacheIfNeeded(scene)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterKind = nil
	}
	if eb.filterKind != nil {
		imgui.Text(fmt.Sprintf("Kind filter: %s", scene.Registry().Name(*eb.filterKind)))
	}

	clicked := ecs.NullEntity

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableSetupColumn("Position")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		filteredEntities := eb.getFilteredEntities()

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntity == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntity = entity.ID
				clicked = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(entity.Kinds)))

			imgui.TableNextColumn()
			if entity.HasTransform {
				imgui.Text(fmt.Sprintf("%.1f, %.1f", entity.X, entity.Y))
			} else {
				imgui.Text("-")
			}
		}

		imgui.EndTable()
	}

	filteredEntities := eb.getFilteredEntities()

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		eb.currentPage = min(eb.currentPage, totalPages-1)
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
	return clicked
}

// The cache is rebuilt when the number of entities or attached components changes.
// Positions are refreshed every frame.
func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(scene *ecs.Scene) {
	cm := scene.Components()
	components := 0
	for _, kind := range scene.Registry().Kinds() {
		components += cm.Count(kind)
	}

	signature := [2]int{scene.EntityCount(), components}
	if eb.cache.signature != signature {
		eb.cache.entities = nil
		eb.cache.signature = signature
	}

	if eb.cache.entities == nil {
		eb.rebuildCache(scene)
		return
	}

	for i := range eb.cache.entities {
		info := &eb.cache.entities[i]
		if info.HasTransform {
			info.X, info.Y = scene.Transform(info.ID).Position()
		}
	}
}

func (eb *EntityBrowserComponent) rebuildCache(scene *ecs.Scene) {
	cm := scene.Components()
	registry := scene.Registry()
	transformKind := ecs.KindOf[ecs.Transform2D](registry)

	eb.cache.entities = make([]EntityInfo, 0, scene.EntityCount())

	for _, entity := range scene.GetAllEntities() {
		kinds := cm.KindsOf(entity)
		componentTypes := make([]string, len(kinds))
		info := EntityInfo{ID: entity, Kinds: kinds}
		for i, kind := range kinds {
			componentTypes[i] = registry.Name(kind)
			if kind == transformKind {
				info.HasTransform = true
			}
		}
		info.ComponentTypes = componentTypes
		if info.HasTransform {
			info.X, info.Y = scene.Transform(entity).Position()
		}
		eb.cache.entities = append(eb.cache.entities, info)
	}

	eb.sortEntities()
}

func (eb *EntityBrowserComponent) sortEntities() {
	sort.Slice(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		var less bool

		switch eb.cache.sortColumn {
		case 1:
			less = strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 2:
			less = len(a.Kinds) < len(b.Kinds)
		case 3:
			less = a.X < b.X || (a.X == b.X && a.Y < b.Y)
		default:
			less = a.ID < b.ID
		}

		if !eb.cache.sortAscending {
			return !less
		}
		return less
	})
}

func (eb *EntityBrowserComponent) getFilteredEntities() []EntityInfo {
	if eb.filterText == "" && eb.filterKind == nil {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		if eb.filterKind != nil && !hasKind(entity.Kinds, *eb.filterKind) {
			continue
		}

		if eb.filterText != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) && !strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func hasKind(kinds []ecs.Kind, kind ecs.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (eb *EntityBrowserComponent) GetSelectedEntity() ecs.Entity {
	return eb.selectedEntity
}
