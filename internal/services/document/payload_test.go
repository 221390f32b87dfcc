package document

import (
	"errors"
	"reflect"
	"testing"
)

func TestBrandInfoCodec(t *testing.T) {
	info := BrandInfo{Name: "Nike", Contact: "legal@nike.example"}

	text, err := EncodeBrandInfo(info)
	if err != nil {
		t.Fatalf("EncodeBrandInfo() error = %v", err)
	}
	want := `{"name":"Nike","contact":"legal@nike.example"}`
	if text != want {
		t.Errorf("EncodeBrandInfo() = %s, want %s", text, want)
	}

	got, err := DecodeBrandInfo(text)
	if err != nil {
		t.Fatalf("DecodeBrandInfo() error = %v", err)
	}
	if got != info {
		t.Errorf("DecodeBrandInfo() = %+v, want %+v", got, info)
	}
}

func TestDecodeBrandInfo(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    BrandInfo
		wantErr bool
	}{
		{name: "empty", text: "", want: BrandInfo{}},
		{name: "whitespace", text: "  \n", want: BrandInfo{}},
		{name: "description only", text: `{"description":"sportswear"}`, want: BrandInfo{Description: "sportswear"}},
		{name: "not json", text: "Nike Inc.", wantErr: true},
		{name: "wrong shape", text: `["Nike"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBrandInfo(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPayload) {
					t.Fatalf("DecodeBrandInfo() error = %v, want ErrInvalidPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeBrandInfo() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeBrandInfo() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBrandInfo_IsZero(t *testing.T) {
	if !(BrandInfo{}).IsZero() {
		t.Error("empty BrandInfo should be zero")
	}
	if (BrandInfo{Contact: "x"}).IsZero() {
		t.Error("BrandInfo with contact should not be zero")
	}
}

func TestImagesCodec(t *testing.T) {
	images := make(Images)
	images.Add("product", "https://img.example/a.jpg")
	images.Add("", "https://img.example/b.jpg")
	images.Add("product", "https://img.example/c.jpg")

	want := Images{
		"product":        {"https://img.example/a.jpg", "https://img.example/c.jpg"},
		DefaultImageType: {"https://img.example/b.jpg"},
	}
	if !reflect.DeepEqual(images, want) {
		t.Fatalf("Add() = %v, want %v", images, want)
	}

	text, err := EncodeImages(images)
	if err != nil {
		t.Fatalf("EncodeImages() error = %v", err)
	}
	got, err := DecodeImages(text)
	if err != nil {
		t.Fatalf("DecodeImages() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeImages() = %v, want %v", got, want)
	}
}

func TestDecodeImages(t *testing.T) {
	got, err := DecodeImages("")
	if err != nil || got != nil {
		t.Errorf("DecodeImages(\"\") = %v, %v, want nil, nil", got, err)
	}

	if _, err := DecodeImages(`{"product":"not a list"}`); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("DecodeImages() error = %v, want ErrInvalidPayload", err)
	}
}

func TestPayloadSchemas(t *testing.T) {
	schemas := PayloadSchemas()

	if len(schemas) != 2 {
		t.Fatalf("PayloadSchemas() returned %d schemas, want 2", len(schemas))
	}

	brand, ok := schemas["brandInfo"]
	if !ok {
		t.Fatal("brandInfo schema missing")
	}
	if brand.Type != "object" {
		t.Errorf("brandInfo type = %q, want object", brand.Type)
	}
	for _, prop := range []string{"name", "contact", "description"} {
		if _, ok := brand.Properties.Get(prop); !ok {
			t.Errorf("brandInfo schema missing property %q", prop)
		}
	}
	required := map[string]bool{}
	for _, r := range brand.Required {
		required[r] = true
	}
	if !required["name"] || !required["contact"] || required["description"] {
		t.Errorf("brandInfo required = %v, want [name contact]", brand.Required)
	}

	images, ok := schemas["images"]
	if !ok {
		t.Fatal("images schema missing")
	}
	if images.Type != "object" {
		t.Errorf("images type = %q, want object", images.Type)
	}
	if images.AdditionalProperties == nil || images.AdditionalProperties.Type != "array" {
		t.Errorf("images additionalProperties should be an array schema")
	}
}

func TestParseJSONText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    map[string]any
		wantErr bool
	}{
		{name: "empty", text: "", want: nil},
		{name: "plain object", text: `{"案件编号": "25-cv-1"}`, want: map[string]any{"案件编号": "25-cv-1"}},
		{name: "fenced", text: "```json\n{\"a\": \"b\"}\n```", want: map[string]any{"a": "b"}},
		{name: "fence with prose", text: "Here you go:\n```\n{\"a\": 1}\n```\nDone.", want: map[string]any{"a": float64(1)}},
		{name: "list", text: `["a"]`, wantErr: true},
		{name: "garbage", text: "no json here", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSONText(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPayload) {
					t.Fatalf("ParseJSONText() error = %v, want ErrInvalidPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseJSONText() unexpected error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseJSONText() = %v, want %v", got, tt.want)
			}
		})
	}
}
