package marshal

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/cvbridge/errors"
)

type codecKind uint8

const (
	kindS32 codecKind = iota
	kindF32
	kindF64
	kindRecord
	kindTuple
)

// codec converts one Go value type to and from its host form, following
// a WIT schema.
type codec struct {
	goType reflect.Type
	fields []codecField
	elems  []*codec
	kind   codecKind
}

type codecField struct {
	codec   *codec
	witName string
	index   int
}

type compiler struct {
	cache map[reflect.Type]*codec
	mu    sync.RWMutex
}

var codecs = &compiler{cache: make(map[reflect.Type]*codec)}

// codecFor returns the cached codec for a registered value type.
func codecFor(t reflect.Type) (*codec, error) {
	codecs.mu.RLock()
	cd, ok := codecs.cache[t]
	codecs.mu.RUnlock()
	if ok {
		return cd, nil
	}

	schema, ok := SchemaFor(t)
	if !ok {
		return nil, errors.Unsupported(errors.PhaseMarshal, fmt.Sprintf("%s is not a value type", t))
	}
	cd, err := codecs.compile(schema, t, nil)
	if err != nil {
		return nil, err
	}

	codecs.mu.Lock()
	codecs.cache[t] = cd
	codecs.mu.Unlock()
	return cd, nil
}

func (c *compiler) compile(t wit.Type, goType reflect.Type, path []string) (*codec, error) {
	switch v := t.(type) {
	case wit.S32:
		if !isIntKind(goType.Kind()) {
			return nil, errors.TypeMismatch(errors.PhaseMarshal, path, goType.String(), "s32")
		}
		return &codec{goType: goType, kind: kindS32}, nil
	case wit.F32:
		if goType.Kind() != reflect.Float32 && goType.Kind() != reflect.Float64 {
			return nil, errors.TypeMismatch(errors.PhaseMarshal, path, goType.String(), "f32")
		}
		return &codec{goType: goType, kind: kindF32}, nil
	case wit.F64:
		if goType.Kind() != reflect.Float64 {
			return nil, errors.TypeMismatch(errors.PhaseMarshal, path, goType.String(), "f64")
		}
		return &codec{goType: goType, kind: kindF64}, nil
	case *wit.TypeDef:
		switch kind := v.Kind.(type) {
		case *wit.Record:
			return c.compileRecord(kind, goType, path)
		case *wit.Tuple:
			return c.compileTuple(kind, goType, path)
		}
		return nil, errors.New(errors.PhaseMarshal, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported TypeDef kind: %T", v.Kind).
			Build()
	default:
		return nil, errors.New(errors.PhaseMarshal, errors.KindUnsupported).
			Path(path...).
			Detail("unsupported type: %T", t).
			Build()
	}
}

func (c *compiler) compileRecord(r *wit.Record, goType reflect.Type, path []string) (*codec, error) {
	if goType.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseMarshal, path, goType.String(), "record")
	}
	fields := make([]codecField, 0, len(r.Fields))
	for _, wf := range r.Fields {
		gf, ok := findGoField(goType, wf.Name)
		if !ok {
			return nil, errors.FieldMissing(errors.PhaseMarshal, path, wf.Name)
		}
		fc, err := c.compile(wf.Type, gf.Type, appendPath(path, wf.Name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, codecField{codec: fc, witName: wf.Name, index: gf.Index[0]})
	}
	return &codec{goType: goType, kind: kindRecord, fields: fields}, nil
}

func (c *compiler) compileTuple(t *wit.Tuple, goType reflect.Type, path []string) (*codec, error) {
	if goType.Kind() != reflect.Array || goType.Len() != len(t.Types) {
		return nil, errors.TypeMismatch(errors.PhaseMarshal, path, goType.String(), fmt.Sprintf("tuple of %d", len(t.Types)))
	}
	elems := make([]*codec, len(t.Types))
	for i, et := range t.Types {
		ec, err := c.compile(et, goType.Elem(), appendPath(path, fmt.Sprintf("[%d]", i)))
		if err != nil {
			return nil, err
		}
		elems[i] = ec
	}
	return &codec{goType: goType, kind: kindTuple, elems: elems}, nil
}

// findGoField matches by: 1) wit tag, 2) json tag, 3) case-insensitive name.
func findGoField(goType reflect.Type, witName string) (reflect.StructField, bool) {
	for i := 0; i < goType.NumField(); i++ {
		f := goType.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag := f.Tag.Get("wit"); tag != "" && tag == witName {
			return f, true
		}
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag == witName {
			return f, true
		}
		if strings.EqualFold(f.Name, witName) {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// lift decodes the host value v into dst.
func (cd *codec) lift(v any, dst reflect.Value, path []string) error {
	switch cd.kind {
	case kindS32:
		n, err := toInt32(v, path)
		if err != nil {
			return err
		}
		dst.SetInt(n)
	case kindF32, kindF64:
		f, err := toFloat(v, path, cd.hostType())
		if err != nil {
			return err
		}
		dst.SetFloat(f)
	case kindRecord:
		rec, ok := v.(Record)
		if !ok {
			return errors.TypeMismatch(errors.PhaseMarshal, path, fmt.Sprintf("%T", v), "record")
		}
		for _, f := range cd.fields {
			fv, ok := rec[f.witName]
			if !ok {
				return errors.FieldMissing(errors.PhaseMarshal, path, f.witName)
			}
			if err := f.codec.lift(fv, dst.Field(f.index), appendPath(path, f.witName)); err != nil {
				return err
			}
		}
	case kindTuple:
		items, err := toList(v, path)
		if err != nil {
			return err
		}
		if len(items) != len(cd.elems) {
			return errors.New(errors.PhaseMarshal, errors.KindShapeMismatch).
				Path(path...).
				Value(len(items)).
				Detail("expected %d elements, got %d", len(cd.elems), len(items)).
				Build()
		}
		for i, ec := range cd.elems {
			if err := ec.lift(items[i], dst.Index(i), appendPath(path, fmt.Sprintf("[%d]", i))); err != nil {
				return err
			}
		}
	}
	return nil
}

// lower encodes src into its host form. Integers lower to int and floats
// to float64.
func (cd *codec) lower(src reflect.Value) any {
	switch cd.kind {
	case kindS32:
		return int(src.Int())
	case kindF32, kindF64:
		return src.Float()
	case kindRecord:
		rec := make(Record, len(cd.fields))
		for _, f := range cd.fields {
			rec[f.witName] = f.codec.lower(src.Field(f.index))
		}
		return rec
	default:
		items := make([]any, len(cd.elems))
		for i, ec := range cd.elems {
			items[i] = ec.lower(src.Index(i))
		}
		return items
	}
}

func (cd *codec) hostType() string {
	switch cd.kind {
	case kindS32:
		return "s32"
	case kindF32:
		return "f32"
	case kindF64:
		return "f64"
	case kindRecord:
		return "record"
	default:
		return "tuple"
	}
}

func toFloat(v any, path []string, host string) (float64, error) {
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
	case isIntKind(rv.Kind()):
		return float64(rv.Int()), nil
	case isUintKind(rv.Kind()):
		return float64(rv.Uint()), nil
	case rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64:
		return rv.Float(), nil
	}
	return 0, errors.TypeMismatch(errors.PhaseMarshal, path, fmt.Sprintf("%T", v), host)
}

// toInt32 accepts any integer, or a float with an integral value, inside
// the int32 range.
func toInt32(v any, path []string) (int64, error) {
	f, err := toFloat(v, path, "s32")
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errors.New(errors.PhaseMarshal, errors.KindTypeMismatch).
			Path(path...).
			Value(v).
			HostType("s32").
			Detail("%v is not an integer", v).
			Build()
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, errors.New(errors.PhaseMarshal, errors.KindOutOfBounds).
			Path(path...).
			Value(v).
			Detail("%v overflows s32", v).
			Build()
	}
	return int64(f), nil
}

func toList(v any, path []string) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.TypeMismatch(errors.PhaseMarshal, path, fmt.Sprintf("%T", v), "list")
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

func isIntKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func appendPath(path []string, elem string) []string {
	return append(append([]string{}, path...), elem)
}
