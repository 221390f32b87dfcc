package preview

import "github.com/asakaida/troschema/internal/entities"

const (
	eventTitleLimit      = 40
	ellipsis             = "…"
	defaultEventTitle    = "Event"
	defaultDocumentTitle = "Untitled"
	caseSubtitlePrefix   = "Case: "
)

// FormatEventPreview renders a timeline event for list views.
// The title is the description cut to 40 characters, followed by an ellipsis
// only when something was cut. The date passes through as the subtitle.
func FormatEventPreview(description, date *string) entities.Preview {
	title := defaultEventTitle
	if description != nil && *description != "" {
		title = truncate(*description, eventTitleLimit)
	}
	return entities.Preview{Title: title, Subtitle: clone(date)}
}

// FormatDocumentPreview renders a document for list views
func FormatDocumentPreview(title, subtitle *string) entities.Preview {
	p := entities.Preview{Title: defaultDocumentTitle}
	if title != nil && *title != "" {
		p.Title = *title
	}
	if subtitle != nil && *subtitle != "" {
		s := caseSubtitlePrefix + *subtitle
		p.Subtitle = &s
	}
	return p
}

// PrepareEvent adapts FormatEventPreview to a selection of description and date
func PrepareEvent(sel entities.Selection) entities.Preview {
	return FormatEventPreview(sel.Get("description"), sel.Get("date"))
}

// PrepareDocument adapts FormatDocumentPreview to a selection of title and subtitle
func PrepareDocument(sel entities.Selection) entities.Preview {
	return FormatDocumentPreview(sel.Get("title"), sel.Get("subtitle"))
}

// truncate counts runes, not bytes, so multi-byte text is never split mid-character.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
