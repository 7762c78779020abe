package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/scene"
	"github.com/plus3/slidedeck/stage"
)

type inspector struct {
	storage *ecs.Storage
	browser *entityBrowser
}

func (in *inspector) render() {
	if !imgui.BeginV("Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	id := in.browser.Selected()
	if id.IsZero() {
		imgui.Text("No entity selected")
		return
	}

	imgui.Text(fmt.Sprintf("Entity %d (gen %d)", id.Index(), id.Generation()))
	imgui.Separator()

	for _, t := range in.storage.ComponentTypes(id) {
		comp := in.storage.GetComponent(id, t)
		if comp == nil {
			continue
		}
		if imgui.TreeNodeStr(t.String()) {
			in.renderComponent(id, t, comp)
			imgui.TreePop()
		}
	}
}

func (in *inspector) renderComponent(id ecs.EntityId, t reflect.Type, comp any) {
	switch c := comp.(type) {
	case *stage.Mover:
		m := c.SmoothMover
		imgui.Text(fmt.Sprintf("current: %v", m.Current()))
		imgui.Text(fmt.Sprintf("target: %v", m.Target()))
		imgui.Text(fmt.Sprintf("velocity: %v", m.Velocity()))
		imgui.Text(fmt.Sprintf("damping %.2f  speed %.2f  settled %t", m.Damping(), m.Speed(), m.Settled(0.01)))
		if imgui.Button("Snap to target") {
			m.Teleport(m.Target())
		}
		return
	case *stage.Emitter:
		for i, l := range c.Loops {
			imgui.BulletText(fmt.Sprintf("loop %d: every %.2fs, fired %d, next in %.2fs", i, l.Interval(), l.Fired(), l.Remaining()))
		}
		return
	case *stage.Tweens:
		for i, tw := range c.Active {
			imgui.BulletText(fmt.Sprintf("tween %d: %.0f%% value %.2f", i, tw.Progress()*100, tw.Value()))
		}
		return
	case *scene.Driver:
		r := c.Runner
		imgui.Text(fmt.Sprintf("script %q: %s at step %d/%d", r.Script().Name, r.State(), r.Step(), len(r.Script().Steps)))
		if label, ok := r.Waiting(); ok {
			imgui.Text("waiting: " + label)
		}
		return
	}

	val := reflect.ValueOf(comp).Elem()
	for _, f := range inspectedFields.of(t) {
		in.renderField(id, t, []int{f.Index}, f, val.Field(f.Index))
	}
}

// renderField draws one field; path is the field index path from the
// component root, so nested struct edits land on the right field.
func (in *inspector) renderField(id ecs.EntityId, compType reflect.Type, path []int, f fieldInfo, val reflect.Value) {
	if f.Pointer {
		if val.IsNil() {
			imgui.Text(f.Name + ": nil")
			return
		}
		imgui.Text(fmt.Sprintf("%s: %v", f.Name, val.Interface()))
		return
	}

	label := "##" + f.Name + fmt.Sprint(path)
	switch f.Kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(f.Name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) {
			setField(in.storage, id, compType, path, reflect.ValueOf(int64(v)))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(f.Name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &v) && v >= 0 {
			setField(in.storage, id, compType, path, reflect.ValueOf(uint64(v)))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(f.Name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(label, &v) {
			setField(in.storage, id, compType, path, reflect.ValueOf(float64(v)))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(f.Name, &v) {
			setField(in.storage, id, compType, path, reflect.ValueOf(v))
		}

	case reflect.String:
		v := val.String()
		imgui.Text(f.Name + ":")
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
			setField(in.storage, id, compType, path, reflect.ValueOf(v))
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(f.Name) {
			for _, nested := range inspectedFields.of(val.Type()) {
				in.renderField(id, compType, append(path[:len(path):len(path)], nested.Index), nested, val.Field(nested.Index))
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", f.Name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", f.Name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", f.Name, val.Interface()))
	}
}

// setField writes value into the field at path of id's compType component,
// converting between numeric kinds. It reports whether the write happened.
func setField(storage *ecs.Storage, id ecs.EntityId, compType reflect.Type, path []int, value reflect.Value) bool {
	comp := storage.GetComponent(id, compType)
	if comp == nil || len(path) == 0 {
		return false
	}

	field := reflect.ValueOf(comp).Elem()
	for _, i := range path {
		if field.Kind() != reflect.Struct || i >= field.NumField() {
			return false
		}
		field = field.Field(i)
	}
	if !field.CanSet() {
		return false
	}

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !value.CanInt() {
			return false
		}
		field.SetInt(value.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if !value.CanUint() {
			return false
		}
		if field.OverflowUint(value.Uint()) {
			return false
		}
		field.SetUint(value.Uint())
	case reflect.Float32, reflect.Float64:
		if !value.CanFloat() {
			return false
		}
		field.SetFloat(value.Float())
	case reflect.String:
		if value.Kind() != reflect.String {
			return false
		}
		field.SetString(value.String())
	case reflect.Bool:
		if value.Kind() != reflect.Bool {
			return false
		}
		field.SetBool(value.Bool())
	default:
		if !value.Type().AssignableTo(field.Type()) {
			return false
		}
		field.Set(value)
	}
	return true
}
