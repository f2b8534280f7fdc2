package discovery

import (
	"strings"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/dependency"
	"github.com/jonwraymond/apicatalog/query"
)

// graphHints builds dependency hints from g. Catalog resources are often
// hyphenated where the graph uses underscores, so both spellings are tried.
func graphHints(g *dependency.Graph) query.HintProvider {
	return query.HintFunc(func(entry catalog.Entry) *query.DependencyHint {
		node, ok := lookupNode(g, entry.Domain, entry.Resource)
		if !ok {
			return nil
		}
		hint := &query.DependencyHint{Prerequisites: []string{}}
		for _, req := range node.Requires {
			if req.Required {
				hint.Prerequisites = append(hint.Prerequisites, req.Ref().String())
			} else {
				hint.Optional = append(hint.Optional, req.Ref().String())
			}
		}
		for _, group := range node.OneOfGroups {
			hint.OneOfFields = append(hint.OneOfFields, group.ChoiceField)
		}
		for _, sub := range node.SubscriptionRequirements {
			hint.Subscriptions = append(hint.Subscriptions, sub.AddonServiceID)
		}
		return hint
	})
}

func lookupNode(g *dependency.Graph, domain, resource string) (*dependency.Node, bool) {
	if node, ok := g.Node(domain, resource); ok {
		return node, true
	}
	if alt := strings.ReplaceAll(resource, "-", "_"); alt != resource {
		return g.Node(domain, alt)
	}
	return nil, false
}

// existingResources maps "domain/resource" entries to graph spelling. Bare
// names match any domain, so both spellings are kept.
func existingResources(g *dependency.Graph, existing []string) []string {
	out := make([]string, 0, len(existing))
	for _, e := range existing {
		if domain, resource, ok := strings.Cut(e, "/"); ok {
			out = append(out, domain+"/"+graphResource(g, domain, resource))
			continue
		}
		out = append(out, e)
		if alt := strings.ReplaceAll(e, "-", "_"); alt != e {
			out = append(out, alt)
		}
	}
	return out
}

// graphResource returns the graph's spelling of resource, or resource itself
// when the graph does not know it.
func graphResource(g *dependency.Graph, domain, resource string) string {
	if node, ok := lookupNode(g, domain, resource); ok {
		return node.Resource
	}
	return resource
}
