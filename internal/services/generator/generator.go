package generator

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/asakaida/troschema/internal/entities"
	"gopkg.in/yaml.v3"
)

// Format names an output rendition
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatOutline Format = "outline"
)

// ParseFormat converts a flag value into a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatOutline:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format: %s (want json, yaml or outline)", s)
}

// Generator renders document schemas in their registration formats
type Generator struct {
	indent string
}

// NewGenerator creates a new Generator
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
	}
}

// schemaDoc is the registration payload shape
type schemaDoc struct {
	Name    string      `json:"name" yaml:"name"`
	Title   string      `json:"title" yaml:"title"`
	Type    string      `json:"type" yaml:"type"`
	Fields  []fieldDoc  `json:"fields" yaml:"fields"`
	Preview *previewDoc `json:"preview,omitempty" yaml:"preview,omitempty"`
}

type fieldDoc struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Title       string      `json:"title,omitempty" yaml:"title,omitempty"`
	Type        string      `json:"type" yaml:"type"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Of          []fieldDoc  `json:"of,omitempty" yaml:"of,omitempty"`
	Fields      []fieldDoc  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Preview     *previewDoc `json:"preview,omitempty" yaml:"preview,omitempty"`
}

type previewDoc struct {
	Select map[string]string `json:"select" yaml:"select"`
}

// Render renders schema in the given format
func (g *Generator) Render(schema *entities.DocumentSchema, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.JSON(schema)
	case FormatYAML:
		return g.YAML(schema)
	case FormatOutline:
		return []byte(g.Outline(schema)), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// JSON renders the canonical registration payload. Output is stable for a
// given schema, so it doubles as the checksum input.
func (g *Generator) JSON(schema *entities.DocumentSchema) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", g.indent)
	if err := enc.Encode(toDoc(schema)); err != nil {
		return nil, fmt.Errorf("failed to encode schema %s: %w", schema.Name, err)
	}
	return buf.Bytes(), nil
}

// YAML renders the registration payload as YAML
func (g *Generator) YAML(schema *entities.DocumentSchema) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(len(g.indent))
	if err := enc.Encode(toDoc(schema)); err != nil {
		return nil, fmt.Errorf("failed to encode schema %s: %w", schema.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Checksum returns the sha256 of the canonical JSON rendition
func (g *Generator) Checksum(schema *entities.DocumentSchema) (string, error) {
	data, err := g.JSON(schema)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Outline renders a human-readable tree of the schema
func (g *Generator) Outline(schema *entities.DocumentSchema) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("document %s %q {\n", schema.Name, schema.Title))
	for _, field := range schema.Fields {
		g.writeField(&sb, field, 1)
	}
	if schema.Preview != nil {
		sb.WriteString(g.indent)
		sb.WriteString(g.generatePreview(schema.Preview))
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")

	return sb.String()
}

func (g *Generator) writeField(sb *strings.Builder, field *entities.FieldDescriptor, depth int) {
	prefix := strings.Repeat(g.indent, depth)

	if field.Description != "" {
		sb.WriteString(prefix)
		sb.WriteString("// ")
		sb.WriteString(field.Description)
		sb.WriteString("\n")
	}

	sb.WriteString(prefix)
	sb.WriteString(fmt.Sprintf("%s: %s", field.Name, g.generateType(field)))
	if field.Title != "" {
		sb.WriteString(fmt.Sprintf(" %q", field.Title))
	}

	nested := field.Fields
	var memberPreview *entities.PreviewConfig
	if member := field.Member(); member != nil {
		nested = member.Fields
		memberPreview = member.Preview
	}
	if len(nested) == 0 {
		sb.WriteString("\n")
		return
	}

	sb.WriteString(" {\n")
	for _, f := range nested {
		g.writeField(sb, f, depth+1)
	}
	if memberPreview != nil {
		sb.WriteString(strings.Repeat(g.indent, depth+1))
		sb.WriteString(g.generatePreview(memberPreview))
		sb.WriteString("\n")
	}
	sb.WriteString(prefix)
	sb.WriteString("}\n")
}

// generateType renders "array<member>" for arrays and the bare tag otherwise
func (g *Generator) generateType(field *entities.FieldDescriptor) string {
	member := field.Member()
	if member == nil {
		return string(field.Type)
	}
	if member.Name != "" {
		return fmt.Sprintf("array<%s>", member.Name)
	}
	return fmt.Sprintf("array<%s>", member.Type)
}

func (g *Generator) generatePreview(cfg *entities.PreviewConfig) string {
	parts := make([]string, 0, len(cfg.Select))
	for _, e := range cfg.Select {
		parts = append(parts, fmt.Sprintf("%s=%s", e.Key, e.Path))
	}
	return fmt.Sprintf("preview(%s)", strings.Join(parts, ", "))
}

func toDoc(schema *entities.DocumentSchema) schemaDoc {
	return schemaDoc{
		Name:    schema.Name,
		Title:   schema.Title,
		Type:    schema.Type,
		Fields:  toFieldDocs(schema.Fields),
		Preview: toPreviewDoc(schema.Preview),
	}
}

func toFieldDocs(fields []*entities.FieldDescriptor) []fieldDoc {
	if len(fields) == 0 {
		return nil
	}
	docs := make([]fieldDoc, 0, len(fields))
	for _, f := range fields {
		docs = append(docs, fieldDoc{
			Name:        f.Name,
			Title:       f.Title,
			Type:        string(f.Type),
			Description: f.Description,
			Of:          toFieldDocs(f.Of),
			Fields:      toFieldDocs(f.Fields),
			Preview:     toPreviewDoc(f.Preview),
		})
	}
	return docs
}

func toPreviewDoc(cfg *entities.PreviewConfig) *previewDoc {
	if cfg == nil {
		return nil
	}
	sel := make(map[string]string, len(cfg.Select))
	for _, e := range cfg.Select {
		sel[e.Key] = e.Path
	}
	return &previewDoc{Select: sel}
}
