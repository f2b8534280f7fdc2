// Package search provides a bleve-backed full-text ranking for catalog
// entries.
//
// It complements the lexical index package: where [index.Search] scores exact,
// prefix and edit-distance term matches, [BM25Searcher] ranks entries with
// bleve's term-frequency scoring across weighted fields. Catalog summaries are
// free text, so a full-text ranking often surfaces tools the term index
// misses.
//
// # Usage
//
//	searcher := search.NewBM25Searcher(search.BM25Config{})
//	defer searcher.Close()
//
//	hits, err := searcher.Search("load balancer origin", 10, snapshot.Entries())
//
// # Configuration
//
// [BM25Config] allows customization of field boosts and safety limits:
//
//	cfg := search.BM25Config{
//	    NameBoost:     3,    // Boost name matches (default: 3)
//	    DomainBoost:   2,    // Boost domain matches (default: 2)
//	    ResourceBoost: 2,    // Boost resource matches (default: 2)
//	    MaxDocs:       5000, // Limit entries to index (0 = unlimited)
//	    MaxDocTextLen: 2000, // Truncate long summaries (0 = unlimited)
//	}
//
// # Thread Safety
//
// BM25Searcher is safe for concurrent use. It uses an internal RWMutex to
// protect index state and caches the bleve index based on a fingerprint of
// the indexed documents, only rebuilding when the entry set changes.
//
// # Behavior
//
// Empty queries return no hits. Non-empty queries are ranked with
// deterministic tie-breaking (score DESC, then name ASC).
package search
