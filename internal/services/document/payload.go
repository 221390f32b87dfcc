package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/invopop/jsonschema"
)

// ErrInvalidPayload is returned when a JSON-in-text field does not hold the expected JSON
var ErrInvalidPayload = errors.New("invalid JSON payload")

// BrandInfo is the structure stored, serialized, in the brandInfo text field
type BrandInfo struct {
	Name        string `json:"name" jsonschema:"title=Brand name"`
	Contact     string `json:"contact" jsonschema:"title=Brand contact"`
	Description string `json:"description,omitempty" jsonschema:"title=Brand description"`
}

// IsZero reports whether no brand data is present
func (b BrandInfo) IsZero() bool {
	return b.Name == "" && b.Contact == "" && b.Description == ""
}

// Images groups image URLs by image type; stored serialized in the images text field
type Images map[string][]string

// DefaultImageType is used for URLs without a declared type
const DefaultImageType = "default"

// EncodeBrandInfo serializes brand data for the brandInfo field
func EncodeBrandInfo(info BrandInfo) (string, error) {
	return encodePayload(info)
}

// DecodeBrandInfo parses the brandInfo field. Empty text yields a zero BrandInfo.
func DecodeBrandInfo(text string) (BrandInfo, error) {
	var info BrandInfo
	if strings.TrimSpace(text) == "" {
		return info, nil
	}
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		return BrandInfo{}, fmt.Errorf("brandInfo: %w: %v", ErrInvalidPayload, err)
	}
	return info, nil
}

// EncodeImages serializes grouped image URLs for the images field
func EncodeImages(images Images) (string, error) {
	return encodePayload(images)
}

// DecodeImages parses the images field. Empty text yields nil.
func DecodeImages(text string) (Images, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var images Images
	if err := json.Unmarshal([]byte(text), &images); err != nil {
		return nil, fmt.Errorf("images: %w: %v", ErrInvalidPayload, err)
	}
	return images, nil
}

// Add appends url under imageType, or under DefaultImageType when the type is empty
func (im Images) Add(imageType, url string) {
	if imageType == "" {
		imageType = DefaultImageType
	}
	im[imageType] = append(im[imageType], url)
}

// PayloadSchemas returns the JSON Schema of every JSON-in-text field, keyed by field name
func PayloadSchemas() map[string]*jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}

	brand := r.Reflect(&BrandInfo{})
	brand.Description = "JSON string of brand information"

	images := r.Reflect(&Images{})
	images.Description = "JSON string of images data, URLs grouped by image type"

	return map[string]*jsonschema.Schema{
		"brandInfo": brand,
		"images":    images,
	}
}

var fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// ParseJSONText parses a JSON object that may be wrapped in a ```json fence,
// as model responses often are. Empty text yields nil without error.
func ParseJSONText(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}

	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &obj); err == nil {
			return obj, nil
		}
	}

	return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidPayload)
}

func encodePayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(data), nil
}
