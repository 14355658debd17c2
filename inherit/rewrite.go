package inherit

import (
	"log/slog"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// DefaultRefPrefix is where component schemas live in an OpenAPI document.
const DefaultRefPrefix = "#/components/schemas/"

// DefaultBaseName is the synthetic root schema injected by WithBase. The
// name is part of the emitted document and matched by downstream bindings,
// so it is not a candidate for renaming.
const DefaultBaseName = "_OpenAPIGenBaseModel"

type rewriter struct {
	refPrefix string
	baseName  string
	strict    bool
	log       *slog.Logger
}

type Option func(*rewriter)

// WithRefPrefix overrides the $ref prefix used for base references. Useful
// when the document keeps definitions somewhere other than
// components.schemas.
func WithRefPrefix(prefix string) Option {
	return func(r *rewriter) { r.refPrefix = prefix }
}

// WithBase injects a synthetic base schema under name and wraps every root
// class in a composition referencing it. The synthetic base declares a
// single string property "type"; dotnet bindings need every model to share
// a common ancestor. An empty name selects DefaultBaseName.
func WithBase(name string) Option {
	return func(r *rewriter) {
		if name == "" {
			name = DefaultBaseName
		}
		r.baseName = name
	}
}

// WithStrictOverrides makes a subclass property whose type differs from the
// base declaration a ConflictError instead of a silent override.
func WithStrictOverrides() Option {
	return func(r *rewriter) { r.strict = true }
}

// WithLogger routes progress logging somewhere other than slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(r *rewriter) { r.log = l }
}

// Rewrite returns a copy of schemas where every subclass named by h has been
// replaced with an allOf composition: a $ref to its direct base followed by
// an object schema holding only the properties the subclass adds or
// overrides. The input map and the schema values it holds are not mutated;
// on error the caller's document is untouched.
//
// Entries that are already compositions (allOf present, no flat properties)
// are skipped, so running Rewrite over its own output is a no-op.
func Rewrite(schemas openapi3.Schemas, h *Hierarchy, opts ...Option) (openapi3.Schemas, error) {
	r := &rewriter{refPrefix: DefaultRefPrefix, log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}

	order, err := h.TopoOrder()
	if err != nil {
		return nil, err
	}

	// Validate the whole mapping before touching anything so a bad edge
	// cannot leave a half rewritten document behind.
	for _, child := range h.Children() {
		if !present(schemas, child) {
			return nil, &LookupError{Class: child}
		}
		base, _ := h.Base(child)
		if !present(schemas, base) {
			return nil, &LookupError{Class: base, Ref: child}
		}
	}

	// Snapshot the flat form of every class. Differentials are computed
	// against these, never against an entry rewritten earlier in the walk.
	flat := make(map[string]*openapi3.Schema, len(schemas))
	for name, ref := range schemas {
		flat[name] = ref.Value
	}

	out := make(openapi3.Schemas, len(schemas)+1)
	for name, ref := range schemas {
		out[name] = ref
	}

	for _, child := range order {
		def := flat[child]
		if composed(def) {
			r.log.Debug("already a composition, skipping", "class", child)
			continue
		}
		base, _ := h.Base(child)
		r.log.Debug("rewriting subclass", "class", child, "base", base)
		comp, err := r.compose(child, def, base, flat[base])
		if err != nil {
			return nil, err
		}
		out[child] = comp.NewRef()
	}

	if r.baseName != "" {
		r.wrapRoots(out, flat, h)
	}

	return out, nil
}

func present(schemas openapi3.Schemas, name string) bool {
	ref, ok := schemas[name]
	return ok && ref != nil && ref.Value != nil
}

func composed(s *openapi3.Schema) bool {
	return len(s.AllOf) > 0 && len(s.Properties) == 0
}

// compose builds the composition entry for one subclass from its original
// flat definition.
func (r *rewriter) compose(name string, def *openapi3.Schema, baseName string, base *openapi3.Schema) (*openapi3.Schema, error) {
	diff := &openapi3.Schema{
		Type:       openapi3.TypeObject,
		Properties: make(openapi3.Schemas),
	}

	for pn, pref := range def.Properties {
		bref, inBase := base.Properties[pn]
		if !inBase {
			r.log.Debug("extending", "class", name, "property", pn)
			diff.Properties[pn] = pref
			continue
		}
		if pn == "type" {
			// restated on every subclass so generators can discriminate
			diff.Properties[pn] = pref
			continue
		}
		if sameDefinition(pref, bref) {
			continue
		}
		if r.strict && typeMismatch(pref, bref) {
			return nil, &ConflictError{Class: name, Base: baseName, Property: pn}
		}
		r.log.Debug("overriding", "class", name, "property", pn)
		diff.Properties[pn] = pref
	}

	for _, rq := range def.Required {
		if _, ok := diff.Properties[rq]; ok {
			diff.Required = append(diff.Required, rq)
		}
	}
	sort.Strings(diff.Required)

	diff.AdditionalProperties = def.AdditionalProperties

	return &openapi3.Schema{
		Title:       def.Title,
		Description: def.Description,
		AllOf: openapi3.SchemaRefs{
			openapi3.NewSchemaRef(r.refPrefix+baseName, nil),
			diff.NewRef(),
		},
	}, nil
}

// wrapRoots adds the synthetic base schema and rewraps every class that has
// no declared base. Enums and entries that are already compositions keep
// their shape.
func (r *rewriter) wrapRoots(out openapi3.Schemas, flat map[string]*openapi3.Schema, h *Hierarchy) {
	names := make([]string, 0, len(out))
	for name := range out {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == r.baseName || h.IsSubclass(name) {
			continue
		}
		def := flat[name]
		if def == nil || len(def.Enum) > 0 || composed(def) {
			continue
		}
		r.log.Debug("wrapping root class", "class", name, "base", r.baseName)

		inner := *def
		inner.Title = ""
		inner.Description = ""
		out[name] = (&openapi3.Schema{
			Title:       def.Title,
			Description: def.Description,
			AllOf: openapi3.SchemaRefs{
				openapi3.NewSchemaRef(r.refPrefix+r.baseName, nil),
				inner.NewRef(),
			},
		}).NewRef()
	}

	out[r.baseName] = SyntheticBase().NewRef()
}

// SyntheticBase returns the schema injected by WithBase: an object with a
// single string "type" property every model ends up inheriting.
func SyntheticBase() *openapi3.Schema {
	return &openapi3.Schema{
		Type: openapi3.TypeObject,
		Properties: openapi3.Schemas{
			"type": openapi3.NewSchemaRef("", &openapi3.Schema{
				Type:        openapi3.TypeString,
				Default:     "InvalidType",
				Description: "A base class to use when there is no baseclass available to fall on.",
			}),
		},
	}
}

// sameDefinition reports whether two property declarations describe the same
// shape. Named refs compare by target; inline schemas compare by type,
// format and, for arrays, the item shape. A declaration with no type at all
// (oneOf/anyOf composite) never matches.
func sameDefinition(a, b *openapi3.SchemaRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Ref != "" || b.Ref != "" {
		return a.Ref == b.Ref
	}
	av, bv := a.Value, b.Value
	if av == nil || bv == nil {
		return av == bv
	}
	if av.Type == "" || bv.Type == "" {
		return false
	}
	if av.Type != bv.Type || av.Format != bv.Format {
		return false
	}
	if av.Type == openapi3.TypeArray {
		return sameDefinition(av.Items, bv.Items)
	}
	return true
}

func typeMismatch(a, b *openapi3.SchemaRef) bool {
	if a == nil || b == nil || a.Value == nil || b.Value == nil {
		return false
	}
	return a.Value.Type != "" && b.Value.Type != "" && a.Value.Type != b.Value.Type
}
