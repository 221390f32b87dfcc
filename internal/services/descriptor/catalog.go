package descriptor

import (
	"fmt"
	"sort"

	"github.com/asakaida/troschema/internal/entities"
)

// Builder produces a document schema declaration
type Builder func() *entities.DocumentSchema

// Catalog maps document type names to their builders
type Catalog struct {
	builders map[string]Builder
}

// NewCatalog creates a Catalog holding every declared document type
func NewCatalog() *Catalog {
	return &Catalog{
		builders: map[string]Builder{
			TroPostName: BuildSchema,
		},
	}
}

// Lookup builds the schema registered under name
func (c *Catalog) Lookup(name string) (*entities.DocumentSchema, error) {
	build, ok := c.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown document type: %s", name)
	}
	return build(), nil
}

// Names returns the registered document type names in sorted order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.builders))
	for name := range c.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
