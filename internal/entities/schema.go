package entities

import (
	"strings"
	"time"
)

// TypeDocument is the type tag of a top-level DocumentSchema
const TypeDocument = "document"

// DocumentSchema represents the complete definition of a CMS document type
type DocumentSchema struct {
	Name    string             // Document type name (e.g., "tro_post")
	Title   string             // Display title (e.g., "TRO Post")
	Type    string             // Always TypeDocument
	Fields  []*FieldDescriptor // Field definitions in editor order
	Preview *PreviewConfig     // List-view preview
}

// SchemaRevision represents one published rendition of a document schema
type SchemaRevision struct {
	ID         string    // Revision identifier (UUID)
	SchemaName string    // Document type name
	Checksum   string    // sha256 of the canonical JSON rendition
	Definition []byte    // Canonical JSON rendition
	CreatedAt  time.Time // When the revision was published
}

// GetField returns the top-level field definition by name
func (s *DocumentSchema) GetField(name string) *FieldDescriptor {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FieldNames returns the top-level field names in declaration order
func (s *DocumentSchema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Lookup resolves a dotted path ("timeline.description") to a field definition.
// Path segments step through array members transparently.
func (s *DocumentSchema) Lookup(path string) *FieldDescriptor {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil
	}

	field := s.GetField(segments[0])
	for _, seg := range segments[1:] {
		if field == nil {
			return nil
		}
		if member := field.Member(); member != nil {
			field = member
		}
		field = field.GetField(seg)
	}
	return field
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '.' })
}
