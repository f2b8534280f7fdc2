package query

import (
	"strings"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/index"
)

type operationKeywords struct {
	op       catalog.Operation
	keywords []string
}

// operationPriority is evaluated in order; the first keyword present wins.
var operationPriority = []operationKeywords{
	{catalog.OpCreate, []string{"create", "add", "new", "make"}},
	{catalog.OpDelete, []string{"delete", "remove", "destroy"}},
	{catalog.OpUpdate, []string{"update", "modify", "edit", "change"}},
	{catalog.OpPatch, []string{"patch"}},
	{catalog.OpList, []string{"list", "all", "enumerate"}},
	{catalog.OpGet, []string{"get", "show", "describe", "read", "fetch", "view"}},
}

// DetectOperation returns the operation named by a keyword in raw, or "".
// Keywords must appear as whole words.
func DetectOperation(raw string) catalog.Operation {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(index.Normalize(raw)) {
		words[w] = struct{}{}
	}
	for _, group := range operationPriority {
		for _, kw := range group.keywords {
			if _, ok := words[kw]; ok {
				return group.op
			}
		}
	}
	return ""
}
