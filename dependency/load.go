package dependency

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Error values for graph loading.
var (
	ErrInvalidGraph    = errors.New("invalid dependency graph")
	ErrUnsupportedFile = errors.New("unsupported dependency file type")
)

// File is the on-disk graph layout. Resources are keyed by "domain/resource";
// a node may omit domain and resource when its key carries them.
type File struct {
	Version     string          `json:"version" yaml:"version"`
	GeneratedAt time.Time       `json:"generatedAt" yaml:"generatedAt"`
	Resources   map[string]Node `json:"resources" yaml:"resources"`
}

// LoadFile reads a graph from a .json, .yaml or .yml file.
func LoadFile(path string) (*Graph, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dependency graph: %w", err)
	}
	g, err := Decode(b, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("load dependency graph %s: %w", path, err)
	}
	return g, nil
}

// Decode parses and validates graph bytes; ext selects the format.
func Decode(b []byte, ext string) (*Graph, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("parse dependency json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("parse dependency yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	return FromFile(f)
}

// FromFile validates f and builds the graph.
func FromFile(f File) (*Graph, error) {
	keys := make([]string, 0, len(f.Resources))
	for k := range f.Resources {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	nodes := make([]Node, 0, len(keys))
	for _, k := range keys {
		n := f.Resources[k]
		if n.Domain == "" || n.Resource == "" {
			domain, resource, ok := strings.Cut(k, "/")
			if !ok {
				errs = append(errs, fmt.Errorf("%w: key %q is not domain/resource", ErrInvalidGraph, k))
				continue
			}
			if n.Domain == "" {
				n.Domain = domain
			}
			if n.Resource == "" {
				n.Resource = resource
			}
		}
		for i, req := range n.Requires {
			if req.Domain == "" || req.ResourceType == "" {
				errs = append(errs, fmt.Errorf("%w: %s requires[%d] needs domain and resourceType", ErrInvalidGraph, k, i))
			}
		}
		for i, grp := range n.OneOfGroups {
			if grp.ChoiceField == "" || len(grp.Options) == 0 {
				errs = append(errs, fmt.Errorf("%w: %s oneOfGroups[%d] needs choiceField and options", ErrInvalidGraph, k, i))
			}
		}
		for i, sub := range n.SubscriptionRequirements {
			if sub.AddonServiceID == "" {
				errs = append(errs, fmt.Errorf("%w: %s subscriptionRequirements[%d] needs addonServiceId", ErrInvalidGraph, k, i))
			}
		}
		nodes = append(nodes, n)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return NewGraph(f.Version, f.GeneratedAt, nodes), nil
}
