//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/b-hayes/room-planner-sub000/internal/config"
	"github.com/b-hayes/room-planner-sub000/internal/engine"
	"github.com/b-hayes/room-planner-sub000/internal/geom"
	"github.com/b-hayes/room-planner-sub000/internal/shape"
)

var (
	grid    *engine.Grid
	handles = map[int]engine.CallbackHandle{}
	nextID  int
)

func main() {
	var err error
	grid, err = engine.New(config.DefaultEditor().Options()...)
	if err != nil {
		js.Global().Get("console").Call("error", err.Error())
		return
	}

	// Create the engine API object
	plannerEngine := js.Global().Get("Object").New()

	// --- Input (page → engine) ---
	plannerEngine.Set("pointerDown", js.FuncOf(pointerDown))
	plannerEngine.Set("pointerMove", js.FuncOf(pointerMove))
	plannerEngine.Set("pointerUp", js.FuncOf(pointerUp))
	plannerEngine.Set("wheel", js.FuncOf(wheel))
	plannerEngine.Set("dispatch", js.FuncOf(dispatch))

	// --- Commands ---
	plannerEngine.Set("setMetrics", js.FuncOf(setMetrics))
	plannerEngine.Set("setScroll", js.FuncOf(setScroll))
	plannerEngine.Set("pan", js.FuncOf(pan))
	plannerEngine.Set("zoom", js.FuncOf(zoom))
	plannerEngine.Set("addShape", js.FuncOf(addShape))
	plannerEngine.Set("removeShape", js.FuncOf(removeShape))
	plannerEngine.Set("setPosition", js.FuncOf(setPosition))
	plannerEngine.Set("select", js.FuncOf(selectShape))
	plannerEngine.Set("focus", js.FuncOf(focus))
	plannerEngine.Set("tick", js.FuncOf(tick))

	// --- Queries ---
	plannerEngine.Set("render", js.FuncOf(render))
	plannerEngine.Set("hitTest", js.FuncOf(hitTest))
	plannerEngine.Set("getShape", js.FuncOf(getShape))
	plannerEngine.Set("getSelection", js.FuncOf(getSelection))

	// --- Notifications ---
	plannerEngine.Set("on", js.FuncOf(on))
	plannerEngine.Set("off", js.FuncOf(off))

	js.Global().Set("plannerEngine", plannerEngine)
	js.Global().Set("plannerWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) interface{} {
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func missing(what string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": "missing " + what})
}

func floatArg(args []js.Value, i int) float64 {
	if i >= len(args) || args[i].Type() != js.TypeNumber {
		return 0
	}
	return args[i].Float()
}

func boolArg(args []js.Value, i int) bool {
	return i < len(args) && args[i].Truthy()
}

// --- Input Handlers ---

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("pointer position")
	}
	buttons := engine.Buttons(floatArg(args, 2))
	return result(grid.PointerDown(args[0].Float(), args[1].Float(), buttons, boolArg(args, 3), boolArg(args, 4)))
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("pointer position")
	}
	buttons := engine.Buttons(floatArg(args, 2))
	return result(grid.PointerMove(args[0].Float(), args[1].Float(), buttons, boolArg(args, 3)))
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	grid.PointerUp()
	return nil
}

func wheel(this js.Value, args []js.Value) interface{} {
	return result(grid.Wheel(floatArg(args, 0), floatArg(args, 1), boolArg(args, 2), boolArg(args, 3)))
}

func dispatch(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("input JSON")
	}
	var in engine.Input
	if err := json.Unmarshal([]byte(args[0].String()), &in); err != nil {
		return result(err)
	}
	return result(grid.Dispatch(in))
}

// --- Command Handlers ---

func setMetrics(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("metrics JSON")
	}
	var m engine.Metrics
	if err := json.Unmarshal([]byte(args[0].String()), &m); err != nil {
		return result(err)
	}
	return result(grid.SetMetrics(m))
}

func setScroll(this js.Value, args []js.Value) interface{} {
	return result(grid.SetScroll(floatArg(args, 0), floatArg(args, 1)))
}

func pan(this js.Value, args []js.Value) interface{} {
	return result(grid.Pan(geom.Point{X: floatArg(args, 0), Y: floatArg(args, 1)}))
}

func zoom(this js.Value, args []js.Value) interface{} {
	return result(grid.Zoom(floatArg(args, 0)))
}

func parseFields(raw string) (map[string]any, error) {
	fields := map[string]any{}
	if raw == "" {
		return fields, nil
	}
	err := json.Unmarshal([]byte(raw), &fields)
	return fields, err
}

// addShape takes a JSON object of position fields and an optional "id". It
// returns the new shape's id.
func addShape(this js.Value, args []js.Value) interface{} {
	raw := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		raw = args[0].String()
	}
	fields, err := parseFields(raw)
	if err != nil {
		return result(err)
	}
	id, _ := fields["id"].(string)
	delete(fields, "id")

	pos, err := shape.ParsePatch(fields)
	if err != nil {
		return result(err)
	}
	s, err := grid.NewShape(id, pos)
	if err != nil {
		return result(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "id": s.ID()})
}

func removeShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("shape id")
	}
	return result(grid.RemoveShape(args[0].String()))
}

func setPosition(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return missing("shape id and position JSON")
	}
	s, ok := grid.Shape(args[0].String())
	if !ok {
		return result(engine.ErrNotFound)
	}
	fields, err := parseFields(args[1].String())
	if err != nil {
		return result(err)
	}
	pos, err := shape.ParsePatch(fields)
	if err != nil {
		return result(err)
	}
	return result(s.SetPosition(pos))
}

func selectShape(this js.Value, args []js.Value) interface{} {
	id := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		id = args[0].String()
	}
	return result(grid.Select(id))
}

func focus(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return missing("shape id")
	}
	return result(grid.Focus(args[0].String(), float32(floatArg(args, 1)), nil))
}

func tick(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(grid.Tick(float32(floatArg(args, 0))))
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(grid.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(grid.HitTest(args[0].Float(), args[1].Float()))
}

func getShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf("{}")
	}
	s, ok := grid.Shape(args[0].String())
	if !ok {
		return js.ValueOf("{}")
	}
	return js.ValueOf(engine.ShapeToJSON(s))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(grid.Selected())
}

// --- Notifications ---

// on subscribes a JS callback to a notification kind ("*" for all). The
// callback receives the notification as a JSON string.
func on(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 || args[1].Type() != js.TypeFunction {
		return missing("kind and callback")
	}
	callback := args[1]
	h := grid.On(engine.EventKind(args[0].String()), func(n engine.Notification) {
		data, err := json.Marshal(n)
		if err != nil {
			return
		}
		callback.Invoke(string(data))
	})
	nextID++
	handles[nextID] = h
	return js.ValueOf(nextID)
}

func off(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	id := args[0].Int()
	if h, ok := handles[id]; ok {
		h.Remove()
		delete(handles, id)
	}
	return nil
}
