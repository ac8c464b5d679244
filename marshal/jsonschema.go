package marshal

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/wippyai/cvbridge/errors"
)

// JSONSchema returns an indented JSON Schema document for the value type
// called name, for host-side tooling.
func JSONSchema(name string) ([]byte, error) {
	registry()
	vt, ok := byName[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseMarshal, "value type", name)
	}

	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(reflect.New(vt.goType).Interface())

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseMarshal, errors.KindInvalidInput, err, "marshal schema")
	}
	return data, nil
}
