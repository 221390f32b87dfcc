package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asakaida/troschema/internal/entities"
	"github.com/asakaida/troschema/internal/services/descriptor"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrMissingCaseNumber is returned when no source yields a case number
var ErrMissingCaseNumber = errors.New("case number not found in any source")

// Keys of the AI extraction payload
const (
	extractCaseNumber = "案件编号"
	extractTitle      = "案件标题"
	extractLawDate    = "起诉日期"
	extractPlaintiff  = "原告"
	extractLawFirm    = "律所"
	extractLawType    = "维权类型"
	extractBrand      = "品牌方"
	extractBrandInfo  = "品牌方信息"
	extractGoods      = "涉及的商品类型"
	extractRelated    = "关联案件"
)

// Row carries the raw crawl columns a post is assembled from.
// JSON columns hold text exactly as stored.
type Row struct {
	Extraction        string `json:"extraction"`        // AI extraction response (JSON, possibly fenced)
	BasicInfo         string `json:"basicInfo"`         // case detail feed item (JSON)
	TimelineInfo      string `json:"timelineInfo"`      // case timeline feed item (JSON)
	CrawlItem         string `json:"crawlItem"`         // raw crawled article (JSON)
	ExtractCaseNumber string `json:"extractCaseNumber"` // case number column
	ExtractCourt      string `json:"extractCourt"`      // court column
	CaseNumbers       string `json:"caseNumbers"`       // related case numbers (JSON list or comma separated)
	ImageURLs         string `json:"imageUrls"`         // comma separated
	ImageTypes        string `json:"imageTypes"`        // comma separated, aligned with ImageURLs
}

// Assembler builds tro_post documents from crawl rows
type Assembler struct {
	logger zerolog.Logger
}

// NewAssembler creates a new Assembler
func NewAssembler(logger zerolog.Logger) *Assembler {
	return &Assembler{logger: logger}
}

type sources struct {
	extraction map[string]any
	timeline   map[string]any
	basic      map[string]any
	crawl      map[string]any
}

// first returns the first non-empty value among the candidates
func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func get(src map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := stringValue(src[k]); v != "" {
			return v
		}
	}
	return ""
}

// Assemble merges the row's sources into a document. Each field takes the
// first non-empty value in the order: extraction, timeline feed, basic feed,
// crawl item, row columns.
func (a *Assembler) Assemble(row Row) (*TroPost, error) {
	src := sources{
		extraction: a.parse("extraction", row.Extraction),
		timeline:   a.parse("timeline", row.TimelineInfo),
		basic:      a.parse("basic", row.BasicInfo),
		crawl:      a.parse("crawl", row.CrawlItem),
	}

	caseNumber := first(
		get(src.extraction, extractCaseNumber),
		get(src.timeline, "case_number"),
		get(src.basic, "case_number"),
		strings.TrimSpace(row.ExtractCaseNumber),
	)
	if caseNumber == "" {
		return nil, ErrMissingCaseNumber
	}
	caseNumber = NormalizeCaseNumber(caseNumber)

	post := &TroPost{
		ID:         caseNumber,
		Type:       descriptor.TroPostName,
		CaseNumber: caseNumber,
		Title: first(
			get(src.extraction, extractTitle),
			get(src.timeline, "title"),
			get(src.crawl, "title"),
		),
		LawFrom: TitleCase(first(
			get(src.extraction, extractPlaintiff),
			get(src.crawl, "lawFrom", "law_from"),
		)),
		LawFirm: first(
			get(src.extraction, extractLawFirm),
			get(src.timeline, "law_firm"),
			get(src.basic, "law_firm"),
			get(src.crawl, "lawFirm", "law_firm"),
		),
		LawType: first(
			get(src.extraction, extractLawType),
			get(src.crawl, "lawType", "law_type"),
		),
		Brand: TitleCase(first(
			get(src.extraction, extractBrand),
			get(src.timeline, "brand"),
			get(src.basic, "brand"),
			get(src.crawl, "brand"),
		)),
		CourtInfo: first(
			get(src.timeline, "court"),
			strings.TrimSpace(row.ExtractCourt),
		),
		GoodsCategories: goodsCategories(first(
			get(src.extraction, extractGoods),
			get(src.crawl, "goodsCategories", "goods_categories"),
		)),
	}

	rawDate := first(
		get(src.extraction, extractLawDate),
		get(src.timeline, "release_time"),
		get(src.basic, "prosecution_time"),
		get(src.crawl, "lawDate", "law_date"),
	)
	if rawDate != "" {
		if date, ok := NormalizeDate(rawDate); ok {
			post.LawDate = date
		} else {
			a.logger.Warn().Str("case", caseNumber).Str("value", rawDate).Msg("unrecognized law date")
		}
	}

	post.RelatedCases = ParseRelatedCases(src.extraction[extractRelated])
	if len(post.RelatedCases) == 0 {
		post.RelatedCases = ParseRelatedCases(row.CaseNumbers)
	}

	brand := BrandInfo{
		Name:        first(get(src.extraction, extractBrand), get(src.basic, "brand")),
		Description: get(src.extraction, extractBrandInfo),
	}
	if err := post.SetBrandPayload(brand); err != nil {
		return nil, fmt.Errorf("failed to set brandInfo: %w", err)
	}

	if err := post.SetImagesPayload(groupImages(row.ImageURLs, row.ImageTypes)); err != nil {
		return nil, fmt.Errorf("failed to set images: %w", err)
	}

	post.Timeline = a.events(caseNumber, "timelineEvent", src.timeline["progress"])
	post.CaseTimeLine = a.events(caseNumber, "caseTimelineEvent", src.timeline["full_timelines"])

	a.logger.Debug().
		Str("case", caseNumber).
		Int("timeline", len(post.Timeline)).
		Int("caseTimeLine", len(post.CaseTimeLine)).
		Msg("assembled tro_post")

	return post, nil
}

func (a *Assembler) parse(source, text string) map[string]any {
	obj, err := ParseJSONText(text)
	if err != nil {
		a.logger.Warn().Err(err).Str("source", source).Msg("ignoring unparseable source")
		return nil
	}
	return obj
}

// events converts feed entries ({time|date, event|description}) into timeline
// members. Keys are derived from the case number so re-assembly is stable.
func (a *Assembler) events(caseNumber, memberType string, raw any) []entities.TimelineEvent {
	items, _ := raw.([]any)
	if len(items) == 0 {
		return nil
	}

	events := make([]entities.TimelineEvent, 0, len(items))
	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			a.logger.Warn().Str("case", caseNumber).Int("index", i).Msg("skipping malformed timeline entry")
			continue
		}

		ev := entities.TimelineEvent{
			Key:         eventKey(caseNumber, memberType, i),
			Type:        memberType,
			Description: get(entry, "event", "description"),
		}
		if rawDate := get(entry, "time", "date"); rawDate != "" {
			if date, ok := NormalizeDate(rawDate); ok {
				ev.Date = date
			}
		}
		events = append(events, ev)
	}
	return events
}

func eventKey(caseNumber, memberType string, index int) string {
	name := fmt.Sprintf("%s/%s/%d", caseNumber, memberType, index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func groupImages(urls, types string) Images {
	if strings.TrimSpace(urls) == "" {
		return nil
	}

	urlList := compact(strings.Split(urls, ","))
	typeList := compact(strings.Split(types, ","))

	images := make(Images)
	for i, url := range urlList {
		imageType := ""
		if i < len(typeList) {
			imageType = typeList[i]
		}
		images.Add(imageType, url)
	}
	return images
}

// goodsCategories flattens a JSON list into a comma separated string, since
// the schema declares goodsCategories as a plain string.
func goodsCategories(v string) string {
	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		if items := parseList(v); len(items) > 0 {
			return strings.Join(items, ", ")
		}
	}
	return v
}
