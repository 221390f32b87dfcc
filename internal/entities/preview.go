package entities

// Preview is the list-view rendering of a document or array member.
// A nil Subtitle means the subtitle is absent.
type Preview struct {
	Title    string  `json:"title"`
	Subtitle *string `json:"subtitle,omitempty"`
}

// Selection holds the values picked by a PreviewConfig; nil means the path was absent
type Selection map[string]*string

// Get returns the selected value for key, or nil
func (s Selection) Get(key string) *string {
	if s == nil {
		return nil
	}
	return s[key]
}

// PrepareFunc turns a Selection into a Preview
type PrepareFunc func(Selection) Preview

// SelectEntry binds a preview key to a dotted field path
type SelectEntry struct {
	Key  string // Preview input key (e.g., "subtitle")
	Path string // Field path in the document (e.g., "caseNumber")
}

// PreviewConfig describes how a preview is derived from a record
type PreviewConfig struct {
	Select  []SelectEntry
	Prepare PrepareFunc
}

// FieldChange describes one difference between two schema renditions
type FieldChange struct {
	Path   string // Dotted field path
	Kind   ChangeKind
	Detail string
}

// ChangeKind classifies a FieldChange
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeChanged ChangeKind = "changed"
)
