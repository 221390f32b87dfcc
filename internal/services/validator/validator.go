package validator

import (
	"fmt"
	"strings"

	"github.com/asakaida/troschema/internal/entities"
)

// Validator validates a document schema declaration
type Validator struct {
	schema *entities.DocumentSchema
	errors []string
}

// NewValidator creates a new Validator
func NewValidator(schema *entities.DocumentSchema) *Validator {
	return &Validator{
		schema: schema,
		errors: []string{},
	}
}

// Validate validates the schema and returns error if invalid
func (v *Validator) Validate() error {
	if v.schema == nil {
		return fmt.Errorf("validation errors:\nschema is nil")
	}

	v.validateHeader()
	v.validateFields(v.schema.Name, v.schema.Fields)
	v.validatePreview(v.schema.Name, v.schema.Preview, func(path string) bool {
		return v.schema.Lookup(path) != nil
	})

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(v.errors, "\n"))
	}
	return nil
}

// Errors returns the messages collected by the last Validate call
func (v *Validator) Errors() []string {
	return v.errors
}

func (v *Validator) addf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

// validateHeader checks the document-level name, title and type tag
func (v *Validator) validateHeader() {
	if v.schema.Name == "" {
		v.addf("schema name is required")
	}
	if v.schema.Title == "" {
		v.addf("schema %s: title is required", v.schema.Name)
	}
	if v.schema.Type != entities.TypeDocument {
		v.addf("schema %s: type must be %s, got %q", v.schema.Name, entities.TypeDocument, v.schema.Type)
	}
	if len(v.schema.Fields) == 0 {
		v.addf("schema %s: at least one field is required", v.schema.Name)
	}
}

// validateFields checks one nesting level: unique names, then each field's shape
func (v *Validator) validateFields(scope string, fields []*entities.FieldDescriptor) {
	seen := make(map[string]bool)
	for _, field := range fields {
		if field == nil {
			v.addf("%s: nil field definition", scope)
			continue
		}
		if field.Name == "" {
			v.addf("%s: field name is required", scope)
			continue
		}
		if seen[field.Name] {
			v.addf("%s: duplicate field name: %s", scope, field.Name)
		}
		seen[field.Name] = true

		v.validateField(scope+"."+field.Name, field)
	}
}

func (v *Validator) validateField(path string, field *entities.FieldDescriptor) {
	if field.Title == "" {
		v.addf("%s: title is required", path)
	}
	if !field.Type.IsValid() {
		v.addf("%s: invalid field type: %q", path, field.Type)
		return
	}

	if field.Type != entities.FieldTypeArray && len(field.Of) > 0 {
		v.addf("%s: only array fields may declare members", path)
	}
	if field.Type != entities.FieldTypeObject && len(field.Fields) > 0 {
		v.addf("%s: only object fields may declare nested fields", path)
	}

	switch field.Type {
	case entities.FieldTypeArray:
		v.validateArray(path, field)
	case entities.FieldTypeObject:
		v.validateObject(path, field)
	}
}

// validateArray checks the single homogeneous member of an array field
func (v *Validator) validateArray(path string, field *entities.FieldDescriptor) {
	if len(field.Of) != 1 {
		v.addf("%s: array must declare exactly one member type, got %d", path, len(field.Of))
		return
	}

	member := field.Of[0]
	if member == nil {
		v.addf("%s: nil array member", path)
		return
	}
	memberPath := path + "[]"

	switch member.Type {
	case entities.FieldTypeString:
		if len(member.Fields) > 0 || len(member.Of) > 0 {
			v.addf("%s: string member cannot declare nested structure", memberPath)
		}
	case entities.FieldTypeObject:
		if member.Name == "" {
			v.addf("%s: object member name is required", memberPath)
		}
		v.validateObject(memberPath, member)
		v.validatePreview(memberPath, member.Preview, func(p string) bool {
			return member.GetField(p) != nil
		})
	default:
		v.addf("%s: unsupported array member type: %q", memberPath, member.Type)
	}
}

// validateObject checks that an object has flat, primitive nested fields
func (v *Validator) validateObject(path string, object *entities.FieldDescriptor) {
	if len(object.Fields) == 0 {
		v.addf("%s: object must declare at least one field", path)
		return
	}

	v.validateFields(path, object.Fields)
	for _, nested := range object.Fields {
		if nested != nil && nested.Type.IsValid() && !nested.Type.IsPrimitive() {
			v.addf("%s.%s: nested objects must be flat, got %s", path, nested.Name, nested.Type)
		}
	}
}

// validatePreview checks that select keys are unique and paths resolve
func (v *Validator) validatePreview(scope string, cfg *entities.PreviewConfig, resolves func(string) bool) {
	if cfg == nil {
		return
	}

	keys := make(map[string]bool)
	for _, entry := range cfg.Select {
		if entry.Key == "" {
			v.addf("%s: preview select key is required", scope)
			continue
		}
		if keys[entry.Key] {
			v.addf("%s: duplicate preview select key: %s", scope, entry.Key)
		}
		keys[entry.Key] = true

		if !resolves(entry.Path) {
			v.addf("%s: preview select %s references undefined field: %s", scope, entry.Key, entry.Path)
		}
	}
}
