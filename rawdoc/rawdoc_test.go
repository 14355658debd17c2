package rawdoc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

const bareDoc = `{
	"Animal": {"properties": {"name": {"type": "string"}}},
	"Dog": {
		"allOf": [
			{"$ref": "#/components/schemas/Animal"},
			{"type": "object", "properties": {"breed": {"type": "string"}}}
		]
	}
}`

const envelopeDoc = `{
	"openapi": "3.0.2",
	"info": {"title": "t", "version": "1"},
	"paths": {},
	"components": {"schemas": {"Animal": {"properties": {"name": {"type": "string"}, "age": {"type": "integer"}}}}}
}`

func TestClassNames(t *testing.T) {
	names, err := ClassNames([]byte(bareDoc))
	assert.Nil(t, err)
	assert.Equal(t, []string{"Animal", "Dog"}, names)

	names, err = ClassNames([]byte(envelopeDoc))
	assert.Nil(t, err)
	assert.Equal(t, []string{"Animal"}, names)
}

func TestProperties(t *testing.T) {
	keys, err := Properties([]byte(envelopeDoc), "Animal")
	assert.Nil(t, err)
	assert.Equal(t, []string{"age", "name"}, keys)
}

func TestPropertiesMissingClass(t *testing.T) {
	_, err := Properties([]byte(bareDoc), "Ghost")
	assert.True(t, errors.Is(err, ErrClassNotFound))
}

func TestIsComposed(t *testing.T) {
	composed, err := IsComposed([]byte(bareDoc), "Dog")
	assert.Nil(t, err)
	assert.True(t, composed)

	composed, err = IsComposed([]byte(bareDoc), "Animal")
	assert.Nil(t, err)
	assert.False(t, composed)
}

func TestHasOpenAPIEnvelope(t *testing.T) {
	envelope, err := HasOpenAPIEnvelope([]byte(envelopeDoc))
	assert.Nil(t, err)
	assert.True(t, envelope)

	envelope, err = HasOpenAPIEnvelope([]byte(bareDoc))
	assert.Nil(t, err)
	assert.False(t, envelope)
}

func TestNotAnObject(t *testing.T) {
	_, err := ClassNames([]byte(`[1, 2, 3]`))
	assert.True(t, errors.Is(err, ErrNotAnObject))
}

func TestInvalidJSON(t *testing.T) {
	_, err := ClassNames([]byte(`{`))
	assert.NotNil(t, err)
}
