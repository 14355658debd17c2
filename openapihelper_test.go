package openapihelper

import (
	"errors"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"

	"github.com/polyforge/openapihelper/inherit"
)

func strProp() *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", &openapi3.Schema{Type: openapi3.TypeString})
}

func animalDogSchemas() openapi3.Schemas {
	return openapi3.Schemas{
		"Animal": openapi3.NewSchemaRef("", &openapi3.Schema{
			Type:       openapi3.TypeObject,
			Properties: openapi3.Schemas{"name": strProp()},
		}),
		"Dog": openapi3.NewSchemaRef("", &openapi3.Schema{
			Type:       openapi3.TypeObject,
			Properties: openapi3.Schemas{"name": strProp(), "breed": strProp()},
		}),
	}
}

func TestNewDocumentRequiresVersion(t *testing.T) {
	_, err := NewDocument(animalDogSchemas(), WithTitle("Zoo"))
	assert.True(t, errors.Is(err, ErrMissingVersion))
}

func TestNewDocumentBasic(t *testing.T) {
	doc, err := NewDocument(animalDogSchemas(), WithTitle("Zoo"), WithVersion("1.2.3"))
	assert.Nil(t, err)

	assert.Equal(t, "3.0.2", doc.OpenAPI)
	assert.Equal(t, "Zoo", doc.Info.Title)
	assert.Equal(t, "1.2.3", doc.Info.Version)
	assert.Equal(t, 2, len(doc.Components.Schemas))

	assert.Equal(t, 2, len(doc.Tags))
	assert.Equal(t, "animal_model", doc.Tags[0].Name)
	assert.Equal(t, "Animal", doc.Tags[0].Extensions["x-displayName"])

	groups, ok := doc.Extensions["x-tagGroups"].([]interface{})
	assert.True(t, ok)
	assert.Equal(t, 1, len(groups))
}

func TestNewDocumentInfoPrecedence(t *testing.T) {
	info := &openapi3.Info{Title: "From info", Version: "0.0.1", Description: "d"}

	doc, err := NewDocument(animalDogSchemas(), WithInfo(info))
	assert.Nil(t, err)
	assert.Equal(t, "0.0.1", doc.Info.Version)

	doc, err = NewDocument(animalDogSchemas(), WithInfo(info), WithVersion("9.9.9"), WithTitle("Override"))
	assert.Nil(t, err)
	assert.Equal(t, "9.9.9", doc.Info.Version)
	assert.Equal(t, "Override", doc.Info.Title)

	// the caller's info block is not written to
	assert.Equal(t, "0.0.1", info.Version)
}

func TestNewDocumentOpenAPIVersion(t *testing.T) {
	doc, err := NewDocument(animalDogSchemas(), WithVersion("1"), WithOpenAPIVersion("3.1.0"))
	assert.Nil(t, err)
	assert.Equal(t, "3.1.0", doc.OpenAPI)
}

func TestNewDocumentInheritance(t *testing.T) {
	h := inherit.NewHierarchy()
	h.Set("Dog", "Animal")

	doc, err := NewDocument(animalDogSchemas(), WithVersion("1"), WithInheritance(h))
	assert.Nil(t, err)

	schemas := doc.Components.Schemas
	dog := schemas["Dog"].Value
	assert.Equal(t, 2, len(dog.AllOf))
	assert.Equal(t, "#/components/schemas/Animal", dog.AllOf[0].Ref)

	assert.NotNil(t, schemas[inherit.DefaultBaseName])

	// bases carry the discriminator, leaves do not
	assert.NotNil(t, schemas["Animal"].Value.Discriminator)
	assert.Equal(t, "type", schemas["Animal"].Value.Discriminator.PropertyName)
	assert.Nil(t, dog.Discriminator)
}

func TestNewDocumentWithoutDiscriminator(t *testing.T) {
	h := inherit.NewHierarchy()
	h.Set("Dog", "Animal")

	doc, err := NewDocument(animalDogSchemas(), WithVersion("1"), WithInheritance(h), WithoutDiscriminator())
	assert.Nil(t, err)
	assert.Nil(t, doc.Components.Schemas["Animal"].Value.Discriminator)
}

func TestNewDocumentInheritanceErrorPassesThrough(t *testing.T) {
	h := inherit.NewHierarchy()
	h.Set("Dog", "Ghost")

	_, err := NewDocument(animalDogSchemas(), WithVersion("1"), WithInheritance(h))
	var lerr *inherit.LookupError
	assert.True(t, errors.As(err, &lerr))
	assert.Equal(t, "Ghost", lerr.Class)
}
