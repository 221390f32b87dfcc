package document

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	caseNumberExact = regexp.MustCompile(`(?i)^(\d{2,4})-cv-(\d+)$`)
	caseNumberAny   = regexp.MustCompile(`(?i)\b(\d{2,4})-cv-(\d+)\b`)

	isoLooseDate = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	slashDate    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)

	titleCaser = cases.Title(language.Und)
)

// NormalizeCaseNumber rewrites docket numbers to the 2025-cv-06628 form:
// four-digit year, "-cv-", five-digit sequence. Other input is returned unchanged.
func NormalizeCaseNumber(raw string) string {
	m := caseNumberExact.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return raw
	}
	return formatCaseNumber(m[1], m[2])
}

// FindCaseNumbers extracts every docket number in text, normalized and
// de-duplicated in order of first appearance.
func FindCaseNumbers(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range caseNumberAny.FindAllStringSubmatch(text, -1) {
		n := formatCaseNumber(m[1], m[2])
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func formatCaseNumber(year, seq string) string {
	if len(year) == 2 {
		year = "20" + year
	} else {
		year = zeroPad(year, 4)
	}
	return fmt.Sprintf("%s-cv-%s", year, zeroPad(seq, 5))
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// NormalizeDate converts the date spellings seen in crawl data to YYYY-MM-DD.
// Accepted: RFC 3339 timestamps, "2025-2-12", "02/13/2025" (month first) and
// "13/02/2025" (day first when the first part exceeds 12), optionally behind a
// "日期：" style label. ok is false when the input is not a recognizable date.
func NormalizeDate(raw string) (date string, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.DateOnly), true
	}

	if strings.ContainsAny(s, ":：") {
		s = strings.ReplaceAll(s, "：", ":")
		s = strings.TrimSpace(s[strings.LastIndex(s, ":")+1:])
	}

	if m := isoLooseDate.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}

	if m := slashDate.FindStringSubmatch(s); m != nil {
		first, _ := strconv.Atoi(m[1])
		if first > 12 {
			return buildDate(m[3], m[2], m[1])
		}
		return buildDate(m[3], m[1], m[2])
	}

	return "", false
}

func buildDate(year, month, day string) (string, bool) {
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return "", false
	}
	return fmt.Sprintf("%s-%02d-%02d", year, m, d), true
}

// TitleCase capitalizes each word unless the text is already all upper case,
// which keeps acronyms and stylized brand names such as "NIKE" intact.
func TitleCase(s string) string {
	if s == "" || isUpper(s) {
		return s
	}
	return titleCaser.String(s)
}

func isUpper(s string) bool {
	return strings.ToUpper(s) == s && strings.ToLower(s) != s
}

// ParseRelatedCases turns an extracted related-cases value into a list of
// case references. Accepts a list, a JSON list or scalar in a string, or a
// comma separated string. Entries are free-form text.
func ParseRelatedCases(v any) []string {
	return parseList(v)
}

func parseList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case []string:
		return compact(val)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, stringValue(item))
		}
		return compact(items)
	case string:
		text := strings.TrimSpace(val)
		if text == "" {
			return nil
		}
		var decoded any
		if err := json.Unmarshal([]byte(text), &decoded); err == nil {
			if _, isList := decoded.([]any); isList {
				return parseList(decoded)
			}
			return compact([]string{stringValue(decoded)})
		}
		return compact(strings.Split(text, ","))
	default:
		return compact([]string{stringValue(val)})
	}
}

func compact(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// stringValue renders an extracted JSON value as text; lists are joined with ", "
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
