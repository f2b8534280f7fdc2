package search

import (
	"errors"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/index"
)

// ErrClosed is returned by Search after Close.
var ErrClosed = errors.New("search: searcher closed")

// Default field boosts.
const (
	DefaultNameBoost     = 3
	DefaultDomainBoost   = 2
	DefaultResourceBoost = 2
)

// BM25Config configures a BM25Searcher. Zero values take defaults.
type BM25Config struct {
	NameBoost     float64
	DomainBoost   float64
	ResourceBoost float64

	// MaxDocs limits how many entries are indexed. 0 means unlimited.
	MaxDocs int

	// MaxDocTextLen truncates summary text. 0 means unlimited.
	MaxDocTextLen int
}

func (c BM25Config) withDefaults() BM25Config {
	if c.NameBoost <= 0 {
		c.NameBoost = DefaultNameBoost
	}
	if c.DomainBoost <= 0 {
		c.DomainBoost = DefaultDomainBoost
	}
	if c.ResourceBoost <= 0 {
		c.ResourceBoost = DefaultResourceBoost
	}
	return c
}

// Hit is one ranked entry.
type Hit struct {
	Entry catalog.Entry `json:"entry"`
	Score float64       `json:"score"`
}

// BM25Searcher ranks catalog entries with a bleve full-text index. The bleve
// index is cached and rebuilt only when the entry set changes.
type BM25Searcher struct {
	cfg BM25Config

	mu          sync.RWMutex
	idx         bleve.Index
	fingerprint string
	closed      bool
}

// NewBM25Searcher returns a searcher with cfg.
func NewBM25Searcher(cfg BM25Config) *BM25Searcher {
	return &BM25Searcher{cfg: cfg.withDefaults()}
}

// Search returns up to limit entries matching q, best first. Ties are broken
// by entry name. An empty query matches nothing.
func (s *BM25Searcher) Search(q string, limit int, entries []catalog.Entry) ([]Hit, error) {
	q = strings.TrimSpace(index.Normalize(q))
	if q == "" || limit <= 0 || len(entries) == 0 {
		return []Hit{}, nil
	}

	docs := s.documents(entries)
	if err := s.ensureIndex(docs); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	req := bleve.NewSearchRequestOptions(s.query(q), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	res, err := s.idx.Search(req)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]catalog.Entry, len(docs))
	for _, d := range docs {
		byID[d.entry.Name] = d.entry
	}
	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		e, ok := byID[h.ID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{Entry: e, Score: h.Score})
	}
	return hits, nil
}

func (s *BM25Searcher) query(q string) query.Query {
	field := func(name string, boost float64) query.Query {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(name)
		mq.SetBoost(boost)
		return mq
	}
	return bleve.NewDisjunctionQuery(
		field("name", s.cfg.NameBoost),
		field("domain", s.cfg.DomainBoost),
		field("resource", s.cfg.ResourceBoost),
		field("operation", 1),
		field("text", 1),
		field("tags", 1),
	)
}

// ensureIndex rebuilds the bleve index when docs differ from the cached set.
func (s *BM25Searcher) ensureIndex(docs []document) error {
	fp := computeFingerprint(docs)

	s.mu.RLock()
	current := s.idx != nil && s.fingerprint == fp
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if current {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.idx != nil && s.fingerprint == fp {
		return nil
	}

	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return err
	}
	batch := idx.NewBatch()
	for _, d := range docs {
		if err := batch.Index(d.entry.Name, d.fields()); err != nil {
			_ = idx.Close()
			return err
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return err
	}

	if s.idx != nil {
		_ = s.idx.Close()
	}
	s.idx = idx
	s.fingerprint = fp
	return nil
}

// Close releases the bleve index. Search fails with ErrClosed afterwards.
func (s *BM25Searcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.idx == nil {
		return nil
	}
	err := s.idx.Close()
	s.idx = nil
	return err
}

// document is the indexed form of an entry. Names are pre-normalized so the
// bleve analyzer splits on '_' like the catalog tokenizer does.
type document struct {
	entry     catalog.Entry
	name      string
	domain    string
	resource  string
	operation string
	text      string
	tags      string
}

func (s *BM25Searcher) documents(entries []catalog.Entry) []document {
	if s.cfg.MaxDocs > 0 && len(entries) > s.cfg.MaxDocs {
		entries = entries[:s.cfg.MaxDocs]
	}
	docs := make([]document, 0, len(entries))
	for _, e := range entries {
		text := e.Summary
		if s.cfg.MaxDocTextLen > 0 && len(text) > s.cfg.MaxDocTextLen {
			text = truncate(text, s.cfg.MaxDocTextLen)
		}
		docs = append(docs, document{
			entry:     e,
			name:      index.Normalize(e.Name),
			domain:    index.Normalize(e.Domain),
			resource:  index.Normalize(e.Resource),
			operation: string(e.Operation),
			text:      index.Normalize(text),
			tags:      index.Normalize(strings.Join(e.Tags, " ")),
		})
	}
	return docs
}

func (d document) fields() map[string]any {
	return map[string]any{
		"name":      d.name,
		"domain":    d.domain,
		"resource":  d.resource,
		"operation": d.operation,
		"text":      d.text,
		"tags":      d.tags,
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	for n > 0 && n < len(s) && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
