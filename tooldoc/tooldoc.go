package tooldoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ErrInvalidDetail is returned for an unknown DetailLevel.
var ErrInvalidDetail = errors.New("invalid detail level")

// Caps applied to rendered documentation.
const (
	MaxSummaryLen = 200
	MaxArgsDepth  = 5
	MaxArgsKeys   = 50
)

// DetailLevel selects how much documentation Describe returns.
type DetailLevel string

const (
	DetailSummary DetailLevel = "summary"
	DetailSchema  DetailLevel = "schema"
	DetailFull    DetailLevel = "full"
)

// IsValid reports whether l is a known level.
func (l DetailLevel) IsValid() bool {
	switch l {
	case DetailSummary, DetailSchema, DetailFull:
		return true
	}
	return false
}

// ParseDetailLevel matches s case-insensitively. An empty string is
// DetailSummary.
func ParseDetailLevel(s string) (DetailLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DetailSummary, nil
	}
	l := DetailLevel(s)
	if !l.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDetail, s)
	}
	return l, nil
}

// SchemaInfo is derived from an input schema.
type SchemaInfo struct {
	Required []string            `json:"required,omitempty"`
	Defaults map[string]any      `json:"defaults,omitempty"`
	Types    map[string][]string `json:"types,omitempty"`
}

// ToolExample is an example invocation.
type ToolExample struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Args        map[string]any `json:"args"`
}

// ToolDoc is the documentation of one entry at one detail level.
type ToolDoc struct {
	ID          string         `json:"id"`
	Level       DetailLevel    `json:"level"`
	Summary     string         `json:"summary"`
	Tool        *model.Tool    `json:"tool,omitempty"`
	SchemaInfo  *SchemaInfo    `json:"schemaInfo,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Examples    []ToolExample  `json:"examples,omitempty"`
}

// Describe renders entry at level.
func Describe(entry catalog.Entry, level DetailLevel) (ToolDoc, error) {
	if !level.IsValid() {
		return ToolDoc{}, fmt.Errorf("%w: %q", ErrInvalidDetail, level)
	}
	tool := ToolFor(entry)
	doc := ToolDoc{
		ID:      tool.ToolID(),
		Level:   level,
		Summary: Summary(entry),
	}
	if level == DetailSummary {
		return doc, nil
	}

	doc.Tool = &tool
	doc.SchemaInfo = schemaInfo(entry)
	doc.Annotations = annotationsFromTool(tool.Annotations)
	if level == DetailSchema {
		return doc, nil
	}

	notes := notesFor(entry)
	if len(entry.Example) > 0 {
		if argsWithinCaps(entry.Example) {
			doc.Examples = []ToolExample{{
				Title: "Example " + string(entry.Operation),
				Args:  copyArgs(entry.Example),
			}}
		} else {
			notes = append(notes, "Example payload omitted: exceeds size caps.")
		}
	}
	doc.Notes = strings.Join(notes, "\n")
	return doc, nil
}

// Summary returns the short description of entry.
func Summary(entry catalog.Entry) string {
	s := strings.TrimSpace(entry.Summary)
	if s == "" {
		s = fmt.Sprintf("%s %s in %s", titleCase(string(entry.Operation)), humanize(entry.Resource), entry.Domain)
	}
	return truncate(s, MaxSummaryLen)
}

// ToolFor builds the tool descriptor of entry. Entries without an input
// schema get an empty object schema.
func ToolFor(entry catalog.Entry) model.Tool {
	schema := entry.InputSchema
	if len(schema) == 0 {
		schema = map[string]any{"type": "object"}
	}
	tags := append([]string{entry.Resource, string(entry.Operation)}, entry.Tags...)
	if entry.DangerLevel != "" {
		tags = append(tags, "danger-"+string(entry.DangerLevel))
	}
	return model.Tool{
		Tool: mcp.Tool{
			Name:        entry.Name,
			Title:       titleCase(string(entry.Operation)) + " " + humanize(entry.Resource),
			Description: Summary(entry),
			InputSchema: schema,
			Annotations: Annotations(entry),
		},
		Namespace: entry.Domain,
		Tags:      model.NormalizeTags(tags),
	}
}

// Annotations derives MCP hints from the operation and danger level.
func Annotations(entry catalog.Entry) *mcp.ToolAnnotations {
	readOnly := entry.Operation == catalog.OpGet || entry.Operation == catalog.OpList
	destructive := entry.Operation == catalog.OpDelete || entry.DangerLevel == catalog.DangerHigh
	openWorld := true
	ann := &mcp.ToolAnnotations{
		ReadOnlyHint:  readOnly,
		OpenWorldHint: &openWorld,
		Title:         titleCase(string(entry.Operation)) + " " + humanize(entry.Resource),
	}
	switch entry.Operation {
	case catalog.OpGet, catalog.OpList, catalog.OpUpdate, catalog.OpDelete:
		ann.IdempotentHint = true
	}
	if !readOnly {
		ann.DestructiveHint = &destructive
	}
	return ann
}

func schemaInfo(entry catalog.Entry) *SchemaInfo {
	info := &SchemaInfo{}
	seen := map[string]bool{}
	for _, r := range append(stringSliceFromAny(entry.InputSchema["required"]), entry.RequiredFields...) {
		if !seen[r] {
			seen[r] = true
			info.Required = append(info.Required, r)
		}
	}
	props, _ := entry.InputSchema["properties"].(map[string]any)
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if def, ok := prop["default"]; ok {
			if info.Defaults == nil {
				info.Defaults = map[string]any{}
			}
			info.Defaults[name] = def
		}
		if types := typesOf(prop["type"]); len(types) > 0 {
			if info.Types == nil {
				info.Types = map[string][]string{}
			}
			info.Types[name] = types
		}
	}
	return info
}

func typesOf(v any) []string {
	if s, ok := v.(string); ok {
		return []string{s}
	}
	return stringSliceFromAny(v)
}

func notesFor(entry catalog.Entry) []string {
	var notes []string
	if entry.Method != "" || entry.Path != "" {
		notes = append(notes, strings.TrimSpace(fmt.Sprintf("Calls %s %s", entry.Method, entry.Path)))
	}
	notes = append(notes, fmt.Sprintf("Danger level: %s.", entry.DangerLevel))
	if entry.IsDangerous() {
		notes = append(notes, "This operation can destroy data; confirm before calling.")
	}
	if len(entry.RequiredFields) > 0 {
		notes = append(notes, "Required fields: "+strings.Join(entry.RequiredFields, ", ")+".")
	}
	return notes
}

func humanize(s string) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut] + "..."
}
