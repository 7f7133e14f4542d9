// Package script runs tengo macros that place tiles in bulk.
//
// A macro sees these globals:
//
//	cursor         {x: int, y: int}, the cell under the pointer
//	selected_tile  the palette tile id, or ""
//	tiles          every known tile id
//	place(t, x, y) queue tile t at cell (x, y)
//	has(x, y)      whether (x, y) is occupied or already queued
//
// Nothing touches the board while the macro runs; the caller applies the
// returned placements as a single undo step.
package script

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/gridpaint/grid"
)

const (
	// MaxAllocs bounds the objects one run may allocate.
	MaxAllocs = 1 << 20
	// MaxPlacements bounds the cells one run may queue.
	MaxPlacements = 4096
)

var ErrTooManyPlacements = errors.New("script: too many placements")

// Env is what a macro can observe.
type Env struct {
	Cursor       grid.Cell
	SelectedTile string
	Tiles        []string
	// Has reports board occupancy. Nil means an empty board.
	Has func(c grid.Cell) bool
}

type Placement struct {
	Type string
	Cell grid.Cell
}

// modules lists the stdlib imports a macro may use; os is left out.
func modules() *tengo.ModuleMap {
	names := slices.DeleteFunc(stdlib.AllModuleNames(), func(n string) bool { return n == "os" })
	return stdlib.GetModuleMap(names...)
}

// Run compiles and runs src. Placements come back in the order the macro
// queued them; a later placement on the same cell replaces the earlier one.
func Run(ctx context.Context, src []byte, env Env) ([]Placement, error) {
	known := make(map[string]struct{}, len(env.Tiles))
	tileObjs := make([]tengo.Object, 0, len(env.Tiles))
	for _, id := range env.Tiles {
		known[id] = struct{}{}
		tileObjs = append(tileObjs, &tengo.String{Value: id})
	}

	var out []Placement
	queued := make(map[grid.Cell]int)

	place := &tengo.UserFunction{Name: "place", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		typ, ok := tengo.ToString(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "type", Expected: "string", Found: args[0].TypeName()}
		}
		c, err := cellArgs(args[1], args[2])
		if err != nil {
			return nil, err
		}
		if _, ok := known[typ]; !ok {
			return nil, fmt.Errorf("script: place: unknown tile %q", typ)
		}
		if i, ok := queued[c]; ok {
			out[i].Type = typ
			return tengo.UndefinedValue, nil
		}
		if len(out) >= MaxPlacements {
			return nil, ErrTooManyPlacements
		}
		queued[c] = len(out)
		out = append(out, Placement{Type: typ, Cell: c})
		return tengo.UndefinedValue, nil
	}}

	has := &tengo.UserFunction{Name: "has", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		c, err := cellArgs(args[0], args[1])
		if err != nil {
			return nil, err
		}
		if _, ok := queued[c]; ok {
			return tengo.TrueValue, nil
		}
		if env.Has != nil && env.Has(c) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	s := tengo.NewScript(src)
	s.SetImports(modules())
	s.SetMaxAllocs(MaxAllocs)
	globals := map[string]tengo.Object{
		"cursor": &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"x": &tengo.Int{Value: int64(env.Cursor.X)},
			"y": &tengo.Int{Value: int64(env.Cursor.Y)},
		}},
		"selected_tile": &tengo.String{Value: env.SelectedTile},
		"tiles":         &tengo.ImmutableArray{Value: tileObjs},
		"place":         place,
		"has":           has,
	}
	for name, v := range globals {
		if err := s.Add(name, v); err != nil {
			return nil, fmt.Errorf("script: add %s: %w", name, err)
		}
	}

	if _, err := s.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	return out, nil
}

func cellArgs(x, y tengo.Object) (grid.Cell, error) {
	gx, ok := tengo.ToInt(x)
	if !ok {
		return grid.Cell{}, tengo.ErrInvalidArgumentType{Name: "x", Expected: "int", Found: x.TypeName()}
	}
	gy, ok := tengo.ToInt(y)
	if !ok {
		return grid.Cell{}, tengo.ErrInvalidArgumentType{Name: "y", Expected: "int", Found: y.TypeName()}
	}
	return grid.Cell{X: gx, Y: gy}, nil
}
