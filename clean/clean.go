// Package clean normalizes generated component schemas for downstream code
// generators and documentation viewers.
package clean

import (
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Formats fills in the number formats code generators expect: bare numbers
// become doubles, bare integers int32. Array items are visited too. Named
// refs are left alone, their targets are cleaned under their own entry.
func Formats(schemas openapi3.Schemas) {
	for _, ref := range schemas {
		if ref == nil || ref.Ref != "" || ref.Value == nil {
			continue
		}
		formatSchema(ref.Value)
	}
}

func formatSchema(s *openapi3.Schema) {
	for _, pref := range s.Properties {
		formatRef(pref)
	}
	for _, branch := range s.AllOf {
		if branch != nil && branch.Ref == "" && branch.Value != nil {
			formatSchema(branch.Value)
		}
	}
}

func formatRef(ref *openapi3.SchemaRef) {
	if ref == nil || ref.Ref != "" || ref.Value == nil {
		return
	}
	v := ref.Value
	switch v.Type {
	case openapi3.TypeNumber:
		if v.Format == "" {
			v.Format = "double"
		}
	case openapi3.TypeInteger:
		if v.Format == "" {
			v.Format = "int32"
		}
	case openapi3.TypeArray:
		// sometimes items is left empty, meaning any type goes
		formatRef(v.Items)
	}
}

// TypeDefaults pins the "type" property of each class to the class name
// where the generator left it without a default. The value doubles as the
// discriminator payload.
func TypeDefaults(schemas openapi3.Schemas) {
	for name, ref := range schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		typeDefault(name, ref.Value)
	}
}

func typeDefault(name string, s *openapi3.Schema) {
	if tp, ok := s.Properties["type"]; ok && tp.Ref == "" && tp.Value != nil && tp.Value.Default == nil {
		tp.Value.Default = name
	}
	for _, branch := range s.AllOf {
		if branch != nil && branch.Ref == "" && branch.Value != nil {
			typeDefault(name, branch.Value)
		}
	}
}

// Discriminator attaches a "type" discriminator to each named base schema
// present in the document so generators can pick the concrete subtype.
func Discriminator(schemas openapi3.Schemas, bases []string) {
	for _, b := range bases {
		ref, ok := schemas[b]
		if !ok || ref == nil || ref.Value == nil {
			continue
		}
		if ref.Value.Discriminator == nil {
			ref.Value.Discriminator = &openapi3.Discriminator{PropertyName: "type"}
		}
	}
}

// Tag builds the redoc viewer tag for one model. The tag name is what
// x-tagGroups references; viewers that do not know x-displayName ignore it.
func Tag(name string) (string, *openapi3.Tag) {
	model := strings.ToLower(name) + "_model"
	return model, &openapi3.Tag{
		Name:        model,
		Description: fmt.Sprintf("<SchemaDefinition schemaRef=\"#/components/schemas/%s\" />\n", name),
		Extensions:  map[string]interface{}{"x-displayName": name},
	}
}

// Tags builds one viewer tag per schema, ordered by class name, and returns
// the tag list together with the tag names for the x-tagGroups block.
func Tags(schemas openapi3.Schemas) (openapi3.Tags, []string) {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	tags := make(openapi3.Tags, 0, len(names))
	tagNames := make([]string, 0, len(names))
	for _, name := range names {
		tn, tag := Tag(name)
		tags = append(tags, tag)
		tagNames = append(tagNames, tn)
	}
	return tags, tagNames
}
