package op

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaBaseURL = "https://actionwire.local/ops/"

const (
	selectorSchema = `{
		"type": "object",
		"required": ["type", "id"],
		"properties": {"id": {"type": "string", "minLength": 1}}
	}`

	nameOrPropertiesSchema = `{
		"type": "object",
		"required": ["type", "id"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string", "minLength": 1},
			"properties": {"type": "object"}
		},
		"anyOf": [{"required": ["name"]}, {"required": ["properties"]}]
	}`

	namedSchema = `{
		"type": "object",
		"required": ["type", "id", "name"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string", "minLength": 1}
		}
	}`

	optionalNameSchema = `{
		"type": "object",
		"required": ["type", "id"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": ["string", "null"]}
		}
	}`

	markupSchema = `{
		"type": "object",
		"required": ["type", "id", "value"],
		"properties": {"id": {"type": "string", "minLength": 1}}
	}`

	keyedSchema = `{
		"type": "object",
		"required": ["type", "id"],
		"properties": {"id": {"type": ["string", "number"]}}
	}`
)

// builtinSchemas holds the JSON Schema for each built-in type that has
// required fields. Types absent here are accepted as-is.
var builtinSchemas = map[string]string{
	TypeNotification: `{
		"type": "object",
		"properties": {
			"title": {"type": "string"},
			"text": {"type": "string"},
			"sticky": {"type": "boolean"}
		}
	}`,
	TypeOpenPage: `{
		"type": "object",
		"required": ["type", "url"],
		"properties": {"url": {"type": "string", "minLength": 1}}
	}`,
	TypeOpenWindow: `{
		"type": "object",
		"required": ["type", "url"],
		"properties": {
			"url": {"type": "string", "minLength": 1},
			"name": {"type": "string"},
			"options": {"type": "string"}
		}
	}`,
	TypeDomAddClass:      markupSchema,
	TypeDomToggleClass:   markupSchema,
	TypeDomRemoveClass:   optionalNameSchema,
	TypeDomAfter:         markupSchema,
	TypeDomBefore:        markupSchema,
	TypeDomAppend:        markupSchema,
	TypeDomPrepend:       markupSchema,
	TypeDomReplaceWith:   markupSchema,
	TypeDomSetAttr:       nameOrPropertiesSchema,
	TypeDomSetCSS:        nameOrPropertiesSchema,
	TypeDomSetProp:       nameOrPropertiesSchema,
	TypeDomRemoveAttr:    namedSchema,
	TypeDomRemoveProp:    namedSchema,
	TypeDomDetach:        selectorSchema,
	TypeDomRemoveElement: selectorSchema,
	TypeDomMakeEmpty:     selectorSchema,
	TypeDomHTML:          markupSchema,
	TypeDomText:          markupSchema,
	TypeDomSetHeight:     selectorSchema,
	TypeDomSetWidth:      selectorSchema,
	TypeDomSetScrollLeft: markupSchema,
	TypeDomSetScrollTop:  markupSchema,
	TypeDomSetOffset: `{
		"type": "object",
		"required": ["type", "id", "coordinates"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"coordinates": {
				"type": "object",
				"properties": {"top": {"type": "number"}, "left": {"type": "number"}}
			}
		}
	}`,
	TypeDomFade: markupSchema,
	TypeError: `{
		"type": "object",
		"required": ["type", "message"],
		"properties": {"message": {"type": "string"}}
	}`,
	TypeModal:       keyedSchema,
	TypeRemoveModal: keyedSchema,
	TypeTabShow:     selectorSchema,
}

// Validator checks records against per-type JSON Schemas.
type Validator struct {
	mu      sync.RWMutex
	schemas map[string]*jsonschema.Schema
}

// NewValidator returns a validator loaded with the built-in schemas.
func NewValidator() (*Validator, error) {
	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(builtinSchemas))}
	for typeName, src := range builtinSchemas {
		if err := v.Add(typeName, src); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Add compiles and installs the schema for a type, replacing any previous
// one.
func (v *Validator) Add(typeName, schema string) error {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := schemaBaseURL + typeName + ".json"
	if err := c.AddResource(url, strings.NewReader(schema)); err != nil {
		return fmt.Errorf("op: load schema for %q: %w", typeName, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return fmt.Errorf("op: compile schema for %q: %w", typeName, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.schemas[typeName] = compiled
	return nil
}

// Has reports whether a schema is installed for the type.
func (v *Validator) Has(typeName string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.schemas[typeName]
	return ok
}

// Validate checks rec against its type's schema. Records whose type has no
// schema are valid.
func (v *Validator) Validate(rec Record) error {
	v.mu.RLock()
	schema, ok := v.schemas[rec.Type()]
	v.mu.RUnlock()
	if !ok {
		return nil
	}

	var doc any
	if err := json.Unmarshal([]byte(rec.Raw()), &doc); err != nil {
		return &ValidationError{Type: rec.Type(), Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return &ValidationError{Type: rec.Type(), Err: err}
	}
	return nil
}
