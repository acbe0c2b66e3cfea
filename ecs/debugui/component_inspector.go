package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/scene2d/ecs"
)

var transformType = reflect.TypeFor[ecs.Transform2D]()

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{selectedEntity: ecs.NullEntity}
}

// Render draws every component attached to selected. Edits are written straight
// into the stored components; Transform2D is edited through its storage slot.
func (ci *ComponentInspectorComponent) Render(scene *ecs.Scene, selected ecs.Entity) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntity = selected

	if ci.selectedEntity == ecs.NullEntity {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	if !scene.IsAlive(ci.selectedEntity) {
		imgui.Text(fmt.Sprintf("Entity %d has been destroyed", ci.selectedEntity))
		imgui.End()
		return
	}

	cm := scene.Components()
	kinds := cm.KindsOf(ci.selectedEntity)

	imgui.Text(fmt.Sprintf("Entity: %d", ci.selectedEntity))
	imgui.Text(fmt.Sprintf("Components: %d", len(kinds)))
	imgui.SameLine()
	if imgui.Button("Destroy") {
		scene.DestroyEntity(ci.selectedEntity)
		imgui.End()
		return
	}
	imgui.Separator()

	for _, kind := range kinds {
		component := cm.Get(kind, ci.selectedEntity)
		if component == nil {
			continue
		}

		compType := scene.Registry().Type(kind)
		if imgui.TreeNodeStr(scene.Registry().Name(kind)) {
			if compType == transformType {
				ci.renderTransform(scene, ci.selectedEntity)
			} else {
				ci.renderComponent(reflect.ValueOf(component).Elem())
			}
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspectorComponent) renderTransform(scene *ecs.Scene, entity ecs.Entity) {
	ref := scene.Transform(entity)
	if !ref.Valid() {
		imgui.Text("Slot: <released>")
		return
	}

	h := ref.Handle()
	imgui.Text(fmt.Sprintf("Slot: %d (gen %d)", h.Slot, h.Gen))

	x, y := ref.Position()
	if floatInput("X", &x) {
		ref.SetX(x)
	}
	if floatInput("Y", &y) {
		ref.SetY(y)
	}

	deg := ref.RotationDegrees()
	if floatInput("Rotation", &deg) {
		ref.SetRotationDegrees(deg)
	}

	sx, sy := ref.ScaleX(), ref.ScaleY()
	if floatInput("ScaleX", &sx) {
		ref.SetScaleXY(sx, sy)
	}
	if floatInput("ScaleY", &sy) {
		ref.SetScaleXY(sx, sy)
	}
}

func floatInput(name string, v *float32) bool {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
	return imgui.InputFloat(fmt.Sprintf("##%s", name), v)
}

func (ci *ComponentInspectorComponent) renderComponent(val reflect.Value) {
	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}

		ci.renderField(field, fieldVal)
	}
}

// renderField draws one field and writes edits back through val, which is
// addressable because components are reached by pointer.
func (ci *ComponentInspectorComponent) renderField(field FieldInfo, val reflect.Value) {
	name := field.Name
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	editable := !field.ReadOnly && val.CanSet()

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !editable {
			imgui.Text(fmt.Sprintf("%s: %d", name, val.Int()))
			return
		}
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && !val.OverflowInt(int64(v)) {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !editable {
			imgui.Text(fmt.Sprintf("%s: %d", name, val.Uint()))
			return
		}
		v := int32(min(val.Uint(), 1<<31-1))
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && !val.OverflowUint(uint64(v)) {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		if !editable {
			imgui.Text(fmt.Sprintf("%s: %g", name, val.Float()))
			return
		}
		v := float32(val.Float())
		if floatInput(name, &v) {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && editable {
			val.SetBool(v)
		}

	case reflect.String:
		if !editable {
			imgui.Text(fmt.Sprintf("%s: %q", name, val.String()))
			return
		}
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			ci.renderComponent(val)
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: <%s>", name, val.Type()))
		}
	}
}
