package entities

// FieldType is the semantic type tag of a field
type FieldType string

const (
	FieldTypeString FieldType = "string" // Short single-line string
	FieldTypeText   FieldType = "text"   // Long-form string
	FieldTypeDate   FieldType = "date"   // Calendar date (YYYY-MM-DD)
	FieldTypeArray  FieldType = "array"  // Homogeneous list, see FieldDescriptor.Of
	FieldTypeObject FieldType = "object" // Nested record, see FieldDescriptor.Fields
)

// IsPrimitive reports whether the type carries a scalar value
func (t FieldType) IsPrimitive() bool {
	switch t {
	case FieldTypeString, FieldTypeText, FieldTypeDate:
		return true
	}
	return false
}

// IsValid reports whether the type belongs to the closed tag set
func (t FieldType) IsValid() bool {
	return t.IsPrimitive() || t == FieldTypeArray || t == FieldTypeObject
}

// FieldDescriptor represents a single field definition
// Example: {name: "lawDate", title: "Law Date", type: "date"}
type FieldDescriptor struct {
	Name        string             // Storage key, unique within its level (empty for primitive array members)
	Title       string             // Editor label
	Type        FieldType          // Type tag
	Description string             // Optional editor help text
	Of          []*FieldDescriptor // Array member (arrays only, exactly one)
	Fields      []*FieldDescriptor // Nested fields (objects only)
	Preview     *PreviewConfig     // Per-instance preview (object members only)
}

// GetField returns the nested field definition by name
func (f *FieldDescriptor) GetField(name string) *FieldDescriptor {
	for _, nested := range f.Fields {
		if nested.Name == name {
			return nested
		}
	}
	return nil
}

// Member returns the array member definition, or nil for non-array fields
func (f *FieldDescriptor) Member() *FieldDescriptor {
	if f.Type != FieldTypeArray || len(f.Of) == 0 {
		return nil
	}
	return f.Of[0]
}

// TimelineEvent is one dated entry of a case timeline
type TimelineEvent struct {
	Key         string `json:"_key,omitempty"`
	Type        string `json:"_type,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}
