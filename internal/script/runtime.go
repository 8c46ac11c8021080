package script

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
	"github.com/ezerfernandes/mdrender/internal/custom"
	"github.com/ezerfernandes/mdrender/internal/region"
)

var (
	errNoHeaderRow = errors.New("table has no rows")
	errDataName    = errors.New("dataset has no name")
	errNotFunction = errors.New("script body did not compile to a function")
)

// Line is one line of an evaluated script: source code or debug output.
type Line struct {
	Text   string
	Output bool
}

type entry struct {
	line int
	msg  string
}

// Runtime is the scripting state of one document render. Blocks must be run
// in source order; variables, functions and datasets defined by a block are
// visible to every later block.
type Runtime struct {
	vm       *goja.Runtime
	globals  string
	datasets []custom.Dataset

	units int
	unit  string
	lines int
	log   []entry
}

// NewRuntime returns a runtime with an empty scope.
func NewRuntime() *Runtime {
	rt := &Runtime{vm: goja.New()}

	if err := rt.vm.Set("debug", rt.debug); err != nil {
		panic(err)
	}

	return rt
}

func (rt *Runtime) debug(call goja.FunctionCall) goja.Value {
	parts := make([]string, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		parts = append(parts, format(rt.vm, arg))
	}

	line := rt.lines
	for _, frame := range rt.vm.CaptureCallStack(0, nil) {
		if frame.SrcName() != rt.unit {
			continue
		}

		if pos := frame.Position(); pos.Line > 0 && pos.Line <= rt.lines {
			line = pos.Line

			break
		}
	}

	rt.log = append(rt.log, entry{line: line, msg: strings.Join(parts, " ")})

	return goja.Undefined()
}

// SetGlobals replaces the global functions merged into every later unit.
// Only top-level function declarations of src are kept.
func (rt *Runtime) SetGlobals(src string) error {
	prg, err := parser.ParseFile(nil, "globals", src, 0)
	if err != nil {
		return fmt.Errorf("compilation error: %w", err)
	}

	var funcs []string

	for _, stmt := range prg.Body {
		if decl, ok := stmt.(*ast.FunctionDeclaration); ok {
			funcs = append(funcs, decl.Function.Source)
		}
	}

	rt.globals = strings.Join(funcs, "\n")
	tracer().Debugf("globals: %d function(s)", len(funcs))

	return nil
}

func (rt *Runtime) compile(name string, src string) (*goja.Program, error) {
	if len(rt.globals) != 0 {
		src = src + "\n" + rt.globals
	}

	prg, err := goja.Compile(name, src, false)
	if err != nil {
		return nil, fmt.Errorf("compilation error: %w", err)
	}

	return prg, nil
}

// Run evaluates a script in the persistent scope. Generated lines are
// stripped first; the result interleaves the source lines with the debug
// output each line produced.
func (rt *Runtime) Run(src string) ([]Line, error) {
	code := region.Lines(region.Strip(src, region.ScriptPrefix))

	rt.units++
	name := fmt.Sprintf("block%d", rt.units)

	prg, err := rt.compile(name, strings.Join(code, "\n"))
	if err != nil {
		return nil, err
	}

	rt.unit, rt.lines, rt.log = name, len(code), nil
	defer func() { rt.unit, rt.log = "", nil }()

	if _, err := rt.vm.RunProgram(prg); err != nil {
		return nil, fmt.Errorf("runtime error: %w", err)
	}

	tracer().Debugf("%s: %d line(s), %d debug message(s)", name, len(code), len(rt.log))

	out := make([]Line, 0, len(code)+len(rt.log))
	for i, text := range code {
		out = append(out, Line{Text: text})

		for _, e := range rt.log {
			if e.line == i+1 {
				out = appendOutput(out, e.msg)
			}
		}
	}

	for _, e := range rt.log {
		if e.line < 1 || e.line > len(code) {
			out = appendOutput(out, e.msg)
		}
	}

	return out, nil
}

func appendOutput(out []Line, msg string) []Line {
	for _, text := range strings.Split(msg, "\n") {
		out = append(out, Line{Text: text, Output: true})
	}

	return out
}

// Eval evaluates one expression in the persistent scope and returns its value
// formatted as text.
func (rt *Runtime) Eval(expr string) (string, error) {
	src := expr
	if len(rt.globals) != 0 {
		src = rt.globals + "\n" + expr
	}

	prg, err := goja.Compile("inline", src, false)
	if err != nil {
		return "", fmt.Errorf("compilation error: %w", err)
	}

	value, err := rt.vm.RunProgram(prg)
	if err != nil {
		return "", fmt.Errorf("runtime error: %w", err)
	}

	return format(rt.vm, value), nil
}

// disposable runs src as the body of a function in the persistent engine.
// src reads every binding of the persistent scope, the globals and the
// datasets; what it declares itself dies with the call. builtins become the
// parameters of the function. debug is accepted and discarded.
func (rt *Runtime) disposable(src string, builtins map[string]interface{}) error {
	names := make([]string, 0, len(builtins)+1)
	for name := range builtins {
		names = append(names, name)
	}

	sort.Strings(names)

	args := make([]goja.Value, 0, len(names)+1)
	for _, name := range names {
		args = append(args, rt.vm.ToValue(builtins[name]))
	}

	names = append(names, "debug")
	args = append(args, rt.vm.ToValue(func(goja.FunctionCall) goja.Value { return goja.Undefined() }))

	code := strings.Join(region.Lines(region.Strip(src, region.ScriptPrefix)), "\n")
	wrapped := "(function (" + strings.Join(names, ", ") + ") {\n" + code + "\n" + rt.globals + "\n})"

	prg, err := goja.Compile("disposable", wrapped, false)
	if err != nil {
		return fmt.Errorf("compilation error: %w", err)
	}

	value, err := rt.vm.RunProgram(prg)
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}

	fn, ok := goja.AssertFunction(value)
	if !ok {
		return errNotFunction
	}

	if _, err := fn(goja.Undefined(), args...); err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}

	return nil
}

// Table runs a table script. Every call of row(cells) adds a row; the first
// row is the header.
func (rt *Runtime) Table(src string) ([]string, [][]string, error) {
	var rows [][]string

	row := func(call goja.FunctionCall, vm *goja.Runtime) goja.Value {
		arr, ok := call.Argument(0).(*goja.Object)
		if !ok || arr.ClassName() != "Array" {
			panic(vm.NewTypeError("row expects an array of cells"))
		}

		var cells []string
		for _, key := range arr.Keys() {
			cells = append(cells, format(vm, arr.Get(key)))
		}

		rows = append(rows, cells)

		return goja.Undefined()
	}

	err := rt.disposable(src, map[string]interface{}{"row": row})
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, errNoHeaderRow
	}

	return rows[0], rows[1:], nil
}

// Chart runs a chart script. Every call of plot([[x, y], ...]) adds a series.
func (rt *Runtime) Chart(src string) ([][][]float64, error) {
	var series [][][]float64

	plot := func(call goja.FunctionCall, vm *goja.Runtime) goja.Value {
		var points [][]float64

		if err := vm.ExportTo(call.Argument(0), &points); err != nil {
			panic(vm.NewTypeError("plot expects a list of [x, y] points: %s", err))
		}

		for _, p := range points {
			if len(p) != 2 {
				panic(vm.NewTypeError("plot expects a list of [x, y] points"))
			}
		}

		series = append(series, points)

		return goja.Undefined()
	}

	if err := rt.disposable(src, map[string]interface{}{"plot": plot}); err != nil {
		return nil, err
	}

	return series, nil
}

// AddDataset defines a dataset as a read-only global array and retains it.
func (rt *Runtime) AddDataset(ds custom.Dataset) error {
	if len(ds.Name) == 0 {
		return errDataName
	}

	if err := define(rt.vm, ds); err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}

	rt.datasets = append(rt.datasets, ds)

	return nil
}

// Datasets returns the datasets defined so far, in definition order.
func (rt *Runtime) Datasets() []custom.Dataset {
	return rt.datasets
}

func define(vm *goja.Runtime, ds custom.Dataset) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dataset %s: %v", ds.Name, r)
		}
	}()

	freeze, ok := goja.AssertFunction(vm.Get("Object").ToObject(vm).Get("freeze"))
	if !ok {
		return errors.New("Object.freeze is not a function")
	}

	items := make([]interface{}, 0, len(ds.Rows))

	for _, row := range ds.Rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		obj := vm.NewObject()
		for _, k := range keys {
			if err := obj.Set(k, row[k]); err != nil {
				return err
			}
		}

		if _, err := freeze(goja.Undefined(), obj); err != nil {
			return err
		}

		items = append(items, obj)
	}

	arr := vm.NewArray(items...)
	if _, err := freeze(goja.Undefined(), arr); err != nil {
		return err
	}

	return vm.GlobalObject().DefineDataProperty(ds.Name, arr, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// format converts a value with the engine's string conversion. Objects and
// arrays are written as JSON.
func format(vm *goja.Runtime, value goja.Value) string {
	if value == nil || goja.IsUndefined(value) {
		return "undefined"
	}

	if goja.IsNull(value) {
		return "null"
	}

	obj, ok := value.(*goja.Object)
	if !ok {
		return value.String()
	}

	if _, isFunc := goja.AssertFunction(obj); isFunc {
		return value.String()
	}

	stringify, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify"))
	if !ok {
		return value.String()
	}

	s, err := stringify(goja.Undefined(), value)
	if err != nil || goja.IsUndefined(s) {
		return value.String()
	}

	return s.String()
}
