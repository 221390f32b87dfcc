package descriptor

import (
	"testing"

	"github.com/asakaida/troschema/internal/entities"
)

func TestBuildSchema_Header(t *testing.T) {
	schema := BuildSchema()

	if schema.Name != "tro_post" {
		t.Errorf("Name = %s, want tro_post", schema.Name)
	}
	if schema.Title != "TRO Post" {
		t.Errorf("Title = %s, want TRO Post", schema.Title)
	}
	if schema.Type != entities.TypeDocument {
		t.Errorf("Type = %s, want document", schema.Type)
	}
}

func TestBuildSchema_Fields(t *testing.T) {
	schema := BuildSchema()

	tests := []struct {
		name        string
		title       string
		fieldType   entities.FieldType
		description string
	}{
		{"caseNumber", "Case Number", entities.FieldTypeString, ""},
		{"title", "Title", entities.FieldTypeString, ""},
		{"content", "Content", entities.FieldTypeText, ""},
		{"brand", "Brand", entities.FieldTypeString, ""},
		{"brandInfo", "Brand Info", entities.FieldTypeText, "JSON string of brand information"},
		{"lawDate", "Law Date", entities.FieldTypeDate, ""},
		{"lawFrom", "Law From", entities.FieldTypeString, ""},
		{"lawFirm", "Law Firm", entities.FieldTypeString, ""},
		{"lawType", "Law Type", entities.FieldTypeString, ""},
		{"courtInfo", "法院信息", entities.FieldTypeString, ""},
		{"relatedCases", "相关案件", entities.FieldTypeArray, ""},
		{"goodsCategories", "Goods Categories", entities.FieldTypeString, ""},
		{"images", "Images", entities.FieldTypeText, "JSON string of images data"},
		{"timeline", "Timeline", entities.FieldTypeArray, ""},
		{"caseTimeLine", "Case Time Line", entities.FieldTypeArray, "案件时间线，来自 Tro61 full_timelines"},
	}

	if len(schema.Fields) != len(tests) {
		t.Fatalf("expected %d fields, got %d: %v", len(tests), len(schema.Fields), schema.FieldNames())
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := schema.Fields[i]
			if f.Name != tt.name {
				t.Fatalf("field %d = %s, want %s (order matters for the editor)", i, f.Name, tt.name)
			}
			if f.Title != tt.title {
				t.Errorf("Title = %s, want %s", f.Title, tt.title)
			}
			if f.Type != tt.fieldType {
				t.Errorf("Type = %s, want %s", f.Type, tt.fieldType)
			}
			if f.Description != tt.description {
				t.Errorf("Description = %q, want %q", f.Description, tt.description)
			}
		})
	}
}

func TestBuildSchema_Members(t *testing.T) {
	schema := BuildSchema()

	related := schema.GetField("relatedCases")
	if len(related.Of) != 1 || related.Of[0].Type != entities.FieldTypeString || related.Of[0].Name != "" {
		t.Errorf("relatedCases member = %+v, want unnamed string", related.Of)
	}

	for field, member := range map[string]string{"timeline": "timelineEvent", "caseTimeLine": "caseTimelineEvent"} {
		t.Run(field, func(t *testing.T) {
			f := schema.GetField(field)
			if len(f.Of) != 1 {
				t.Fatalf("expected one member, got %d", len(f.Of))
			}
			m := f.Of[0]
			if m.Name != member || m.Type != entities.FieldTypeObject {
				t.Errorf("member = %s/%s, want %s/object", m.Name, m.Type, member)
			}
			if d := m.GetField("date"); d == nil || d.Type != entities.FieldTypeDate {
				t.Errorf("date field = %+v", d)
			}
			if d := m.GetField("description"); d == nil || d.Type != entities.FieldTypeText {
				t.Errorf("description field = %+v", d)
			}
			if len(m.Fields) != 2 {
				t.Errorf("expected flat date+description, got %d fields", len(m.Fields))
			}
			if m.Preview == nil || m.Preview.Prepare == nil {
				t.Fatal("expected member preview")
			}
		})
	}
}

func TestBuildSchema_UniqueNamesPerLevel(t *testing.T) {
	var check func(level string, fields []*entities.FieldDescriptor)
	check = func(level string, fields []*entities.FieldDescriptor) {
		seen := make(map[string]bool)
		for _, f := range fields {
			if f.Name != "" {
				if seen[f.Name] {
					t.Errorf("%s: duplicate field name %s", level, f.Name)
				}
				seen[f.Name] = true
			}
			check(level+"."+f.Name, f.Fields)
			for _, m := range f.Of {
				check(level+"."+f.Name+"[]", m.Fields)
			}
		}
	}
	check("tro_post", BuildSchema().Fields)
}

func TestBuildSchema_Idempotent(t *testing.T) {
	a, b := BuildSchema(), BuildSchema()
	if a == b {
		t.Fatal("expected a fresh value per call")
	}
	if !sameFields(a.Fields, b.Fields) {
		t.Error("two builds are not structurally equal")
	}

	// mutating one build must not leak into the next
	a.Fields[0].Title = "changed"
	if BuildSchema().Fields[0].Title != "Case Number" {
		t.Error("BuildSchema shares state between calls")
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog()

	names := c.Names()
	if len(names) != 1 || names[0] != TroPostName {
		t.Errorf("Names() = %v, want [tro_post]", names)
	}

	schema, err := c.Lookup("tro_post")
	if err != nil {
		t.Fatalf("Lookup(tro_post) error = %v", err)
	}
	if schema.Name != TroPostName {
		t.Errorf("Lookup(tro_post).Name = %s", schema.Name)
	}

	if _, err := c.Lookup("unknown"); err == nil {
		t.Error("expected error for unknown document type")
	}
}

func sameFields(a, b []*entities.FieldDescriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Name != y.Name || x.Title != y.Title || x.Type != y.Type || x.Description != y.Description {
			return false
		}
		if (x.Preview == nil) != (y.Preview == nil) {
			return false
		}
		if !sameFields(x.Of, y.Of) || !sameFields(x.Fields, y.Fields) {
			return false
		}
	}
	return true
}
