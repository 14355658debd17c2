// Package openapihelper assembles OpenAPI documents around generated
// component schemas and post-processes them with polymorphism support that
// schema generators do not emit on their own.
package openapihelper

import (
	"errors"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/polyforge/openapihelper/clean"
	"github.com/polyforge/openapihelper/inherit"
)

const DefaultOpenAPIVersion = "3.0.2"

// ErrMissingVersion is returned when neither WithVersion nor WithInfo
// provided a schema version for the info block.
var ErrMissingVersion = errors.New("openapihelper: schema version must be provided")

type config struct {
	title          string
	version        string
	description    string
	openapiVersion string
	info           *openapi3.Info
	externalDocs   *openapi3.ExternalDocs
	hierarchy      *inherit.Hierarchy
	inheritOpts    []inherit.Option
	discriminator  bool
}

type Option func(*config)

func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

func WithVersion(version string) Option {
	return func(c *config) { c.version = version }
}

func WithDescription(description string) Option {
	return func(c *config) { c.description = description }
}

// WithOpenAPIVersion overrides the OpenAPI version of the document itself,
// DefaultOpenAPIVersion when unset.
func WithOpenAPIVersion(version string) Option {
	return func(c *config) { c.openapiVersion = version }
}

// WithInfo supplies a complete info block. Title, version and description
// given through their own options still take precedence.
func WithInfo(info *openapi3.Info) Option {
	return func(c *config) { c.info = info }
}

func WithExternalDocs(docs *openapi3.ExternalDocs) Option {
	return func(c *config) { c.externalDocs = docs }
}

// WithInheritance rewrites subclass schemas into allOf compositions per the
// supplied base class mapping, injects the synthetic root base, and marks
// base schemas with a "type" discriminator. Extra rewriter behaviour such as
// inherit.WithStrictOverrides is passed through opts.
func WithInheritance(h *inherit.Hierarchy, opts ...inherit.Option) Option {
	return func(c *config) {
		c.hierarchy = h
		c.inheritOpts = opts
	}
}

// WithoutDiscriminator suppresses the discriminator blocks that
// WithInheritance would otherwise attach to base schemas.
func WithoutDiscriminator() Option {
	return func(c *config) { c.discriminator = false }
}

// NewDocument builds a complete OpenAPI document around the given component
// schemas: info block, viewer tags, an x-tagGroups model group, and number
// format cleanup. The schema values are cleaned in place; with
// WithInheritance the entries are additionally replaced by composition
// entries. Serialization is left to the caller.
func NewDocument(schemas openapi3.Schemas, opts ...Option) (*openapi3.T, error) {
	c := &config{openapiVersion: DefaultOpenAPIVersion, discriminator: true}
	for _, opt := range opts {
		opt(c)
	}

	info := &openapi3.Info{}
	if c.info != nil {
		v := *c.info
		info = &v
	}
	if c.title != "" {
		info.Title = c.title
	}
	if c.version != "" {
		info.Version = c.version
	}
	if c.description != "" {
		info.Description = c.description
	}
	if info.Version == "" {
		return nil, ErrMissingVersion
	}

	if c.hierarchy != nil {
		ho := append([]inherit.Option{inherit.WithBase(inherit.DefaultBaseName)}, c.inheritOpts...)
		rewritten, err := inherit.Rewrite(schemas, c.hierarchy, ho...)
		if err != nil {
			return nil, err
		}
		schemas = rewritten
	}

	clean.Formats(schemas)
	clean.TypeDefaults(schemas)

	tags, tagNames := clean.Tags(schemas)

	if c.hierarchy != nil && c.discriminator {
		bases := append(c.hierarchy.Bases(), inherit.DefaultBaseName)
		clean.Discriminator(schemas, bases)
	}

	return &openapi3.T{
		OpenAPI:      c.openapiVersion,
		Info:         info,
		Paths:        openapi3.Paths{},
		Servers:      openapi3.Servers{},
		Tags:         tags,
		Components:   &openapi3.Components{Schemas: schemas},
		ExternalDocs: c.externalDocs,
		Extensions: map[string]interface{}{
			"x-tagGroups": []interface{}{
				map[string]interface{}{"name": "Models", "tags": tagNames},
			},
		},
	}, nil
}
