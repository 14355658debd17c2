// Package rawdoc inspects serialized schema documents without a full typed
// decode. Generator output usually arrives as JSON bytes; these helpers
// answer structural questions about it cheaply.
package rawdoc

import (
	"errors"
	"fmt"
	"sort"

	"github.com/valyala/fastjson"
)

var (
	ErrNotAnObject   = errors.New("document is not a JSON object")
	ErrClassNotFound = errors.New("class not found in document")
)

// schemasObject locates the definitions mapping: components.schemas for a
// full OpenAPI document, otherwise the root object itself is taken to be a
// bare definitions mapping.
func schemasObject(v *fastjson.Value) (*fastjson.Object, error) {
	if v.Type() != fastjson.TypeObject {
		return nil, ErrNotAnObject
	}
	if s := v.Get("components", "schemas"); s != nil {
		return s.Object()
	}
	return v.Object()
}

// ClassNames returns the sorted class names defined by the document.
func ClassNames(b []byte) ([]string, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return nil, err
	}
	o, err := schemasObject(v)
	if err != nil {
		return nil, err
	}

	var names []string
	o.Visit(func(key []byte, _ *fastjson.Value) {
		names = append(names, string(key))
	})
	sort.Strings(names)
	return names, nil
}

// Properties returns the sorted flat property keys of one class.
func Properties(b []byte, class string) ([]string, error) {
	def, err := classValue(b, class)
	if err != nil {
		return nil, err
	}

	props := def.Get("properties")
	if props == nil {
		return nil, nil
	}
	po, err := props.Object()
	if err != nil {
		return nil, err
	}

	var keys []string
	po.Visit(func(key []byte, _ *fastjson.Value) {
		keys = append(keys, string(key))
	})
	sort.Strings(keys)
	return keys, nil
}

// IsComposed reports whether the class entry is already an allOf
// composition rather than a flat definition.
func IsComposed(b []byte, class string) (bool, error) {
	def, err := classValue(b, class)
	if err != nil {
		return false, err
	}
	return def.Exists("allOf") && !def.Exists("properties"), nil
}

// HasOpenAPIEnvelope reports whether the bytes hold a full OpenAPI document
// as opposed to a bare definitions mapping.
func HasOpenAPIEnvelope(b []byte) (bool, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return false, err
	}
	if v.Type() != fastjson.TypeObject {
		return false, ErrNotAnObject
	}
	return v.Get("components", "schemas") != nil, nil
}

func classValue(b []byte, class string) (*fastjson.Value, error) {
	v, err := fastjson.ParseBytes(b)
	if err != nil {
		return nil, err
	}
	o, err := schemasObject(v)
	if err != nil {
		return nil, err
	}

	var def *fastjson.Value
	o.Visit(func(key []byte, val *fastjson.Value) {
		if def == nil && string(key) == class {
			def = val
		}
	})
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrClassNotFound, class)
	}
	return def, nil
}
