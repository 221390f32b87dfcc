package document

import (
	"reflect"
	"testing"
)

func TestNormalizeCaseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"25-cv-06628", "2025-cv-06628"},
		{"2025-cv-6628", "2025-cv-06628"},
		{"25-CV-123", "2025-cv-00123"},
		{"  24-cv-12345 ", "2024-cv-12345"},
		{"2025-cv-1234567", "2025-cv-1234567"},
		{"325-cv-1", "0325-cv-00001"},
		{"1:25-cv-06628", "1:25-cv-06628"},
		{"not a case", "not a case"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeCaseNumber(tt.raw); got != tt.want {
				t.Errorf("NormalizeCaseNumber(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFindCaseNumbers(t *testing.T) {
	text := "Case 25-cv-6628 filed; see also 2025-cv-06628 and 24-cv-00999. Related: 24-CV-999."
	got := FindCaseNumbers(text)
	want := []string{"2025-cv-06628", "2024-cv-00999"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindCaseNumbers() = %v, want %v", got, want)
	}

	if got := FindCaseNumbers("no dockets here"); got != nil {
		t.Errorf("FindCaseNumbers() = %v, want nil", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "iso", raw: "2025-02-12", want: "2025-02-12", wantOK: true},
		{name: "loose iso", raw: "2025-2-3", want: "2025-02-03", wantOK: true},
		{name: "month first", raw: "02/13/2025", want: "2025-02-13", wantOK: true},
		{name: "day first", raw: "13/02/2025", want: "2025-02-13", wantOK: true},
		{name: "ambiguous is month first", raw: "03/04/2025", want: "2025-03-04", wantOK: true},
		{name: "full-width label", raw: "日期：02/13/2025", want: "2025-02-13", wantOK: true},
		{name: "ascii label", raw: "Date: 2025-6-1", want: "2025-06-01", wantOK: true},
		{name: "rfc3339", raw: "2025-06-13T09:30:00Z", want: "2025-06-13", wantOK: true},
		{name: "month out of range", raw: "2025-13-01", wantOK: false},
		{name: "text", raw: "sometime in June", wantOK: false},
		{name: "empty", raw: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeDate(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"elaine kay maier", "Elaine Kay Maier"},
		{"NIKE", "NIKE"},
		{"gbc LLC", "Gbc Llc"},
		{"", ""},
		{"123", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := TitleCase(tt.in); got != tt.want {
				t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRelatedCases(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "empty string", in: "  ", want: nil},
		{name: "json list", in: `["2025-cv-1", " 2025-cv-2 ", ""]`, want: []string{"2025-cv-1", "2025-cv-2"}},
		{name: "json scalar", in: `"2025-cv-1"`, want: []string{"2025-cv-1"}},
		{name: "comma separated", in: "2025-cv-1, 2025-cv-2,", want: []string{"2025-cv-1", "2025-cv-2"}},
		{name: "decoded list", in: []any{"a", nil, 3.0}, want: []string{"a", "3"}},
		{name: "string slice", in: []string{"x", ""}, want: []string{"x"}},
		{name: "free-form text kept", in: "see Schedule A cases", want: []string{"see Schedule A cases"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRelatedCases(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRelatedCases(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
