package preview

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/asakaida/troschema/internal/entities"
)

func ptr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestFormatEventPreview(t *testing.T) {
	long := strings.Repeat("x", 45)
	exact := strings.Repeat("y", 40)

	tests := []struct {
		name         string
		description  *string
		date         *string
		wantTitle    string
		wantSubtitle *string
	}{
		{
			name:         "absent description falls back to Event",
			description:  nil,
			date:         ptr("2024-01-01"),
			wantTitle:    "Event",
			wantSubtitle: ptr("2024-01-01"),
		},
		{
			name:         "empty description falls back to Event",
			description:  ptr(""),
			date:         ptr("2024-01-01"),
			wantTitle:    "Event",
			wantSubtitle: ptr("2024-01-01"),
		},
		{
			name:         "short description is kept as is",
			description:  ptr("short text"),
			date:         ptr("2024-01-01"),
			wantTitle:    "short text",
			wantSubtitle: ptr("2024-01-01"),
		},
		{
			name:         "exactly 40 characters has no ellipsis",
			description:  ptr(exact),
			wantTitle:    exact,
			wantSubtitle: nil,
		},
		{
			name:         "long description is truncated with ellipsis",
			description:  ptr(long),
			date:         nil,
			wantTitle:    strings.Repeat("x", 40) + "…",
			wantSubtitle: nil,
		},
		{
			name:         "empty date passes through unchanged",
			description:  ptr("filed"),
			date:         ptr(""),
			wantTitle:    "filed",
			wantSubtitle: ptr(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatEventPreview(tt.description, tt.date)
			if got.Title != tt.wantTitle {
				t.Errorf("FormatEventPreview().Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if (got.Subtitle == nil) != (tt.wantSubtitle == nil) || deref(got.Subtitle) != deref(tt.wantSubtitle) {
				t.Errorf("FormatEventPreview().Subtitle = %s, want %s", deref(got.Subtitle), deref(tt.wantSubtitle))
			}
		})
	}
}

func TestFormatEventPreview_TruncatedLength(t *testing.T) {
	got := FormatEventPreview(ptr(strings.Repeat("x", 45)), nil)
	if n := utf8.RuneCountInString(got.Title); n != 41 {
		t.Errorf("expected 41 characters (40 + ellipsis), got %d", n)
	}
	if got.Subtitle != nil {
		t.Errorf("expected absent subtitle, got %q", *got.Subtitle)
	}
}

func TestFormatEventPreview_MultiByte(t *testing.T) {
	desc := strings.Repeat("案", 41)
	got := FormatEventPreview(&desc, nil)
	want := strings.Repeat("案", 40) + "…"
	if got.Title != want {
		t.Errorf("FormatEventPreview().Title = %q, want %q", got.Title, want)
	}
	if !utf8.ValidString(got.Title) {
		t.Error("truncated title is not valid UTF-8")
	}
}

func TestFormatEventPreview_DoesNotAliasDate(t *testing.T) {
	date := "2024-01-01"
	got := FormatEventPreview(nil, &date)
	date = "changed"
	if deref(got.Subtitle) != "2024-01-01" {
		t.Errorf("subtitle changed with input: %s", deref(got.Subtitle))
	}
}

func TestFormatDocumentPreview(t *testing.T) {
	tests := []struct {
		name         string
		title        *string
		subtitle     *string
		wantTitle    string
		wantSubtitle *string
	}{
		{
			name:      "both absent",
			wantTitle: "Untitled",
		},
		{
			name:         "title and case number",
			title:        ptr("My Title"),
			subtitle:     ptr("TRO-123"),
			wantTitle:    "My Title",
			wantSubtitle: ptr("Case: TRO-123"),
		},
		{
			name:      "empty title falls back",
			title:     ptr(""),
			wantTitle: "Untitled",
		},
		{
			name:         "absent title with case number",
			subtitle:     ptr("2025-cv-06628"),
			wantTitle:    "Untitled",
			wantSubtitle: ptr("Case: 2025-cv-06628"),
		},
		{
			name:      "empty case number stays absent",
			title:     ptr("My Title"),
			subtitle:  ptr(""),
			wantTitle: "My Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDocumentPreview(tt.title, tt.subtitle)
			if got.Title != tt.wantTitle {
				t.Errorf("FormatDocumentPreview().Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if (got.Subtitle == nil) != (tt.wantSubtitle == nil) || deref(got.Subtitle) != deref(tt.wantSubtitle) {
				t.Errorf("FormatDocumentPreview().Subtitle = %s, want %s", deref(got.Subtitle), deref(tt.wantSubtitle))
			}
		})
	}
}

func TestPrepareFuncs(t *testing.T) {
	event := PrepareEvent(entities.Selection{"description": ptr("Complaint filed"), "date": ptr("2025-02-12")})
	if event.Title != "Complaint filed" || deref(event.Subtitle) != "2025-02-12" {
		t.Errorf("PrepareEvent() = %+v", event)
	}

	doc := PrepareDocument(entities.Selection{"title": nil, "subtitle": ptr("TRO-1")})
	if doc.Title != "Untitled" || deref(doc.Subtitle) != "Case: TRO-1" {
		t.Errorf("PrepareDocument() = %+v", doc)
	}

	empty := PrepareDocument(nil)
	if empty.Title != "Untitled" || empty.Subtitle != nil {
		t.Errorf("PrepareDocument(nil) = %+v", empty)
	}
}
