package marshal

import (
	"reflect"
	"slices"
	"sync"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
)

// Record is the host representation of a value object.
type Record = map[string]any

type valueType struct {
	name   string
	goType reflect.Type
	schema *wit.TypeDef
}

var (
	registryOnce sync.Once
	byName       map[string]*valueType
	byGoType     map[reflect.Type]*valueType
)

func record(name string, fields ...wit.Field) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: &wit.Record{Fields: fields}}
}

func field(name string, t wit.Type) wit.Field {
	return wit.Field{Name: name, Type: t}
}

func registry() {
	registryOnce.Do(func() {
		point := record("point", field("x", wit.S32{}), field("y", wit.S32{}))
		point2f := record("point2f", field("x", wit.F32{}), field("y", wit.F32{}))
		size := record("size", field("width", wit.S32{}), field("height", wit.S32{}))
		size2f := record("size2f", field("width", wit.F32{}), field("height", wit.F32{}))

		scalarName := "scalar"
		scalar := &wit.TypeDef{
			Name: &scalarName,
			Kind: &wit.Tuple{Types: []wit.Type{wit.F64{}, wit.F64{}, wit.F64{}, wit.F64{}}},
		}

		types := []*valueType{
			{name: "Point", goType: reflect.TypeFor[geom.Point](), schema: point},
			{name: "Point2f", goType: reflect.TypeFor[geom.Point2f](), schema: point2f},
			{name: "Size", goType: reflect.TypeFor[geom.Size](), schema: size},
			{name: "Size2f", goType: reflect.TypeFor[geom.Size2f](), schema: size2f},
			{name: "Rect", goType: reflect.TypeFor[geom.Rect](), schema: record("rect",
				field("x", wit.S32{}), field("y", wit.S32{}),
				field("width", wit.S32{}), field("height", wit.S32{}))},
			{name: "Rect2f", goType: reflect.TypeFor[geom.Rect2f](), schema: record("rect2f",
				field("x", wit.F32{}), field("y", wit.F32{}),
				field("width", wit.F32{}), field("height", wit.F32{}))},
			{name: "RotatedRect", goType: reflect.TypeFor[geom.RotatedRect](), schema: record("rotated-rect",
				field("center", point2f), field("size", size2f), field("angle", wit.F32{}))},
			{name: "TermCriteria", goType: reflect.TypeFor[geom.TermCriteria](), schema: record("term-criteria",
				field("type", wit.S32{}), field("maxCount", wit.S32{}), field("epsilon", wit.F64{}))},
			{name: "Circle", goType: reflect.TypeFor[geom.Circle](), schema: record("circle",
				field("center", point2f), field("radius", wit.F32{}))},
			{name: "MinMaxLoc", goType: reflect.TypeFor[geom.MinMaxLoc](), schema: record("min-max-loc",
				field("minVal", wit.F64{}), field("maxVal", wit.F64{}),
				field("minLoc", point), field("maxLoc", point))},
			{name: "Range", goType: reflect.TypeFor[geom.Range](), schema: record("range",
				field("start", wit.S32{}), field("end", wit.S32{}))},
			{name: "Scalar", goType: reflect.TypeFor[geom.Scalar](), schema: scalar},
		}

		byName = make(map[string]*valueType, len(types))
		byGoType = make(map[reflect.Type]*valueType, len(types))
		for _, vt := range types {
			byName[vt.name] = vt
			byGoType[vt.goType] = vt
		}
	})
}

// Names returns the host names of every value type, sorted.
func Names() []string {
	registry()
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Schema returns the WIT type describing the value type called name.
func Schema(name string) (wit.Type, error) {
	registry()
	vt, ok := byName[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseMarshal, "value type", name)
	}
	return vt.schema, nil
}

// SchemaFor returns the WIT type for a Go value type.
func SchemaFor(t reflect.Type) (wit.Type, bool) {
	registry()
	vt, ok := byGoType[t]
	if !ok {
		return nil, false
	}
	return vt.schema, true
}

// NameOf returns the host name of a Go value type.
func NameOf(t reflect.Type) (string, bool) {
	registry()
	vt, ok := byGoType[t]
	if !ok {
		return "", false
	}
	return vt.name, true
}

// IsValueType reports whether t crosses the boundary as a value object.
func IsValueType(t reflect.Type) bool {
	_, ok := SchemaFor(t)
	return ok
}
