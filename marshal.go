package openapihelper

import (
	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"
	"github.com/invopop/yaml"

	"github.com/polyforge/openapihelper/inherit"
	"github.com/polyforge/openapihelper/rawdoc"
)

// MarshalDocumentJSON serializes a document as indented JSON.
func MarshalDocumentJSON(doc *openapi3.T) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// MarshalDocumentYAML serializes a document as YAML. Goes through the JSON
// representation so extension blocks and kin-openapi marshalers are honored.
func MarshalDocumentYAML(doc *openapi3.T) ([]byte, error) {
	return yaml.Marshal(doc)
}

// RewriteDocumentJSON is the bytes-in, bytes-out form of inherit.Rewrite.
// It accepts either a full OpenAPI document or a bare definitions mapping.
// The payload is prechecked against the hierarchy before any typed decode so
// a bad mapping fails fast with the same errors Rewrite would return.
func RewriteDocumentJSON(b []byte, h *inherit.Hierarchy, opts ...inherit.Option) ([]byte, error) {
	if _, err := h.TopoOrder(); err != nil {
		return nil, err
	}

	names, err := rawdoc.ClassNames(b)
	if err != nil {
		return nil, err
	}
	defined := make(map[string]bool, len(names))
	for _, n := range names {
		defined[n] = true
	}
	for _, child := range h.Children() {
		if !defined[child] {
			return nil, &inherit.LookupError{Class: child}
		}
		base, _ := h.Base(child)
		if !defined[base] {
			return nil, &inherit.LookupError{Class: base, Ref: child}
		}
	}

	envelope, err := rawdoc.HasOpenAPIEnvelope(b)
	if err != nil {
		return nil, err
	}

	if envelope {
		var doc openapi3.T
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
		rewritten, err := inherit.Rewrite(doc.Components.Schemas, h, opts...)
		if err != nil {
			return nil, err
		}
		doc.Components.Schemas = rewritten
		return MarshalDocumentJSON(&doc)
	}

	var schemas openapi3.Schemas
	if err := json.Unmarshal(b, &schemas); err != nil {
		return nil, err
	}
	rewritten, err := inherit.Rewrite(schemas, h, opts...)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(rewritten, "", "  ")
}
