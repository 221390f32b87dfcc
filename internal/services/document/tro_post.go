package document

import (
	"encoding/json"
	"fmt"

	"github.com/asakaida/troschema/internal/entities"
)

// TroPost is one tro_post document as exchanged with the content platform.
// JSON names match the field names declared by the tro_post schema.
type TroPost struct {
	ID              string                   `json:"_id,omitempty"`
	Type            string                   `json:"_type"`
	CaseNumber      string                   `json:"caseNumber,omitempty"`
	Title           string                   `json:"title,omitempty"`
	Content         string                   `json:"content,omitempty"`
	Brand           string                   `json:"brand,omitempty"`
	BrandInfo       string                   `json:"brandInfo,omitempty"`
	LawDate         string                   `json:"lawDate,omitempty"`
	LawFrom         string                   `json:"lawFrom,omitempty"`
	LawFirm         string                   `json:"lawFirm,omitempty"`
	LawType         string                   `json:"lawType,omitempty"`
	CourtInfo       string                   `json:"courtInfo,omitempty"`
	RelatedCases    []string                 `json:"relatedCases,omitempty"`
	GoodsCategories string                   `json:"goodsCategories,omitempty"`
	Images          string                   `json:"images,omitempty"`
	Timeline        []entities.TimelineEvent `json:"timeline,omitempty"`
	CaseTimeLine    []entities.TimelineEvent `json:"caseTimeLine,omitempty"`
}

// BrandPayload decodes the brandInfo payload
func (p *TroPost) BrandPayload() (BrandInfo, error) {
	return DecodeBrandInfo(p.BrandInfo)
}

// ImagesPayload decodes the images payload
func (p *TroPost) ImagesPayload() (Images, error) {
	return DecodeImages(p.Images)
}

// SetBrandPayload serializes info into the brandInfo field; a zero value clears it
func (p *TroPost) SetBrandPayload(info BrandInfo) error {
	if info.IsZero() {
		p.BrandInfo = ""
		return nil
	}
	text, err := EncodeBrandInfo(info)
	if err != nil {
		return err
	}
	p.BrandInfo = text
	return nil
}

// SetImagesPayload serializes images into the images field; empty clears it
func (p *TroPost) SetImagesPayload(images Images) error {
	if len(images) == 0 {
		p.Images = ""
		return nil
	}
	text, err := EncodeImages(images)
	if err != nil {
		return err
	}
	p.Images = text
	return nil
}

// CheckPayloads verifies that both JSON-in-text fields parse
func (p *TroPost) CheckPayloads() error {
	if _, err := p.BrandPayload(); err != nil {
		return err
	}
	if _, err := p.ImagesPayload(); err != nil {
		return err
	}
	return nil
}

// Map returns the generic document view used for preview selection
func (p *TroPost) Map() (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
