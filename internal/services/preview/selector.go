package preview

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/asakaida/troschema/internal/entities"
	"github.com/asakaida/troschema/pkg/cache"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/traits"
)

var segmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Selector resolves preview select paths against documents using CEL
type Selector struct {
	env      *cel.Env
	programs cache.Cache[cel.Program]
}

// DocumentPreview is the rendered preview of a document and of its array members
type DocumentPreview struct {
	Document entities.Preview              `json:"document"`
	Members  map[string][]entities.Preview `json:"members,omitempty"`
}

// NewSelector creates a Selector. Compiled programs are kept in programs, keyed by path.
func NewSelector(programs cache.Cache[cel.Program]) (*Selector, error) {
	env, err := cel.NewEnv(
		cel.Variable("doc", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Selector{env: env, programs: programs}, nil
}

// Select evaluates every entry of the select list against doc
func (s *Selector) Select(ctx context.Context, entries []entities.SelectEntry, doc map[string]any) (entities.Selection, error) {
	if doc == nil {
		doc = map[string]any{}
	}

	sel := make(entities.Selection, len(entries))
	for _, e := range entries {
		value, err := s.resolve(ctx, e.Path, doc)
		if err != nil {
			return nil, fmt.Errorf("failed to select %s: %w", e.Key, err)
		}
		sel[e.Key] = value
	}
	return sel, nil
}

// Render selects and prepares a preview. Without a prepare function the
// "title" and "subtitle" keys are used as they are.
func (s *Selector) Render(ctx context.Context, cfg *entities.PreviewConfig, doc map[string]any) (entities.Preview, error) {
	if cfg == nil {
		return entities.Preview{}, nil
	}

	sel, err := s.Select(ctx, cfg.Select, doc)
	if err != nil {
		return entities.Preview{}, err
	}

	if cfg.Prepare == nil {
		p := entities.Preview{Subtitle: sel.Get("subtitle")}
		if title := sel.Get("title"); title != nil {
			p.Title = *title
		}
		return p, nil
	}
	return cfg.Prepare(sel), nil
}

// RenderDocument renders the document preview and one preview per member of
// every array field whose member declares a preview.
func (s *Selector) RenderDocument(ctx context.Context, schema *entities.DocumentSchema, doc map[string]any) (*DocumentPreview, error) {
	top, err := s.Render(ctx, schema.Preview, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s preview: %w", schema.Name, err)
	}

	out := &DocumentPreview{Document: top}
	for _, field := range schema.Fields {
		member := field.Member()
		if member == nil || member.Preview == nil {
			continue
		}

		items, _ := doc[field.Name].([]any)
		previews := make([]entities.Preview, 0, len(items))
		for i, item := range items {
			record, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: expected object, got %T", field.Name, i, item)
			}
			p, err := s.Render(ctx, member.Preview, record)
			if err != nil {
				return nil, fmt.Errorf("failed to render %s[%d] preview: %w", field.Name, i, err)
			}
			previews = append(previews, p)
		}

		if out.Members == nil {
			out.Members = make(map[string][]entities.Preview)
		}
		out.Members[field.Name] = previews
	}

	return out, nil
}

func (s *Selector) resolve(ctx context.Context, path string, doc map[string]any) (*string, error) {
	program, err := s.compile(ctx, path)
	if err != nil {
		return nil, err
	}

	out, _, err := program.Eval(map[string]any{"doc": doc})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate path %s: %w", path, err)
	}

	lister, ok := out.(traits.Lister)
	if !ok {
		return nil, fmt.Errorf("path %s: unexpected result type %v", path, out.Type())
	}
	if lister.Size() == types.IntZero {
		return nil, nil
	}

	elem := lister.Get(types.IntZero)
	if _, isNull := elem.(types.Null); isNull {
		return nil, nil
	}
	var value string
	if str, ok := elem.Value().(string); ok {
		value = str
	} else {
		value = fmt.Sprint(elem.Value())
	}
	return &value, nil
}

func (s *Selector) compile(ctx context.Context, path string) (cel.Program, error) {
	if program, ok := s.programs.Get(ctx, path); ok {
		return program, nil
	}

	expr, err := selectExpression(path)
	if err != nil {
		return nil, err
	}

	ast, issues := s.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile path %s: %w", path, issues.Err())
	}

	program, err := s.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	if err := s.programs.Set(ctx, path, program, 0); err != nil {
		return nil, fmt.Errorf("failed to cache program: %w", err)
	}
	return program, nil
}

// selectExpression builds a CEL expression yielding a zero- or one-element
// list, so that absent keys never raise an evaluation error.
// "a.b" becomes: has(doc.a) && has(doc.a.b) ? [doc.a.b] : []
func selectExpression(path string) (string, error) {
	segments := strings.Split(path, ".")
	guards := make([]string, 0, len(segments))
	access := "doc"
	for _, seg := range segments {
		if !segmentPattern.MatchString(seg) {
			return "", fmt.Errorf("invalid select path: %q", path)
		}
		access += "." + seg
		guards = append(guards, fmt.Sprintf("has(%s)", access))
	}
	return fmt.Sprintf("%s ? [%s] : []", strings.Join(guards, " && "), access), nil
}
