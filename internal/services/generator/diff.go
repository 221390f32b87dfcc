package generator

import (
	"encoding/json"
	"fmt"

	"github.com/asakaida/troschema/internal/entities"
)

// DiffSchemas lists field-level differences between two schema declarations
func DiffSchemas(before, after *entities.DocumentSchema) []entities.FieldChange {
	return diffFields("", toFieldDocs(before.Fields), toFieldDocs(after.Fields))
}

// DiffJSON lists field-level differences between two canonical JSON renditions
func DiffJSON(before, after []byte) ([]entities.FieldChange, error) {
	var a, b schemaDoc
	if err := json.Unmarshal(before, &a); err != nil {
		return nil, fmt.Errorf("failed to decode base rendition: %w", err)
	}
	if err := json.Unmarshal(after, &b); err != nil {
		return nil, fmt.Errorf("failed to decode target rendition: %w", err)
	}
	return diffFields("", a.Fields, b.Fields), nil
}

func diffFields(prefix string, before, after []fieldDoc) []entities.FieldChange {
	var changes []entities.FieldChange

	index := make(map[string]fieldDoc, len(after))
	for _, f := range after {
		index[f.Name] = f
	}

	seen := make(map[string]bool, len(before))
	for _, old := range before {
		seen[old.Name] = true
		path := joinPath(prefix, old.Name)

		cur, ok := index[old.Name]
		if !ok {
			changes = append(changes, entities.FieldChange{Path: path, Kind: entities.ChangeRemoved, Detail: old.Type})
			continue
		}
		changes = append(changes, diffField(path, old, cur)...)
	}

	for _, f := range after {
		if !seen[f.Name] {
			changes = append(changes, entities.FieldChange{Path: joinPath(prefix, f.Name), Kind: entities.ChangeAdded, Detail: f.Type})
		}
	}

	return changes
}

func diffField(path string, before, after fieldDoc) []entities.FieldChange {
	changed := func(format string, args ...any) entities.FieldChange {
		return entities.FieldChange{Path: path, Kind: entities.ChangeChanged, Detail: fmt.Sprintf(format, args...)}
	}

	if before.Type != after.Type {
		return []entities.FieldChange{changed("type %s -> %s", before.Type, after.Type)}
	}

	var changes []entities.FieldChange
	if before.Title != after.Title {
		changes = append(changes, changed("title %q -> %q", before.Title, after.Title))
	}
	if before.Description != after.Description {
		changes = append(changes, changed("description %q -> %q", before.Description, after.Description))
	}

	changes = append(changes, diffFields(path, before.Fields, after.Fields)...)

	if len(before.Of) != 1 || len(after.Of) != 1 {
		if len(before.Of) != len(after.Of) {
			changes = append(changes, changed("members %d -> %d", len(before.Of), len(after.Of)))
		}
		return changes
	}

	bm, am := before.Of[0], after.Of[0]
	if bm.Type != am.Type || bm.Name != am.Name {
		changes = append(changes, changed("member %s -> %s", memberLabel(bm), memberLabel(am)))
		return changes
	}
	return append(changes, diffFields(path+"[]", bm.Fields, am.Fields)...)
}

func memberLabel(m fieldDoc) string {
	if m.Name != "" {
		return m.Name
	}
	return m.Type
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
