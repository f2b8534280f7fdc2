package discovery

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/consolidate"
	"github.com/jonwraymond/apicatalog/cost"
	"github.com/jonwraymond/apicatalog/dependency"
	"github.com/jonwraymond/apicatalog/index"
	"github.com/jonwraymond/apicatalog/query"
	"github.com/jonwraymond/apicatalog/search"
)

// Error values for discovery operations.
var (
	ErrNotFound        = errors.New("not found")
	ErrNoLoader        = errors.New("catalog loader is required")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Defaults applied by New.
const (
	DefaultMaxLimit    = 50
	DefaultHybridAlpha = 0.5
)

// Options configures a Discovery instance.
type Options struct {
	// Loader supplies the catalog. Required.
	Loader catalog.Loader

	// Graph is the dependency graph. If nil, an empty graph is used and every
	// resource has no known prerequisites.
	Graph *dependency.Graph

	// Logger receives build and rebuild events. If nil, logging is disabled.
	Logger *zap.Logger

	// Index configures tokenization.
	Index index.BuildOptions

	// Match configures fuzzy term matching.
	Match index.SearchOptions

	// DefaultLimit applies when a search passes no limit. Default: 10
	DefaultLimit int

	// MaxLimit caps every search limit. Default: 50
	MaxLimit int

	// MinScore is the default score threshold. Nil means 0.1; zero keeps
	// every match.
	MinScore *float64

	// BM25Config configures the full-text searcher.
	BM25Config search.BM25Config

	// HybridAlpha is the lexical weight for hybrid search (0.0 to 1.0).
	// Full-text weight is 1-HybridAlpha. Default: 0.5
	HybridAlpha float64

	// Cost configures the cost estimator.
	Cost cost.Config
}

// state is everything derived from one catalog load. It is immutable once
// published.
type state struct {
	snapshot  *catalog.Snapshot
	index     *index.Index
	engine    *query.Engine
	resources *consolidate.Index
	estimator *cost.Estimator
}

// Discovery is the catalog engine facade. The catalog is loaded and indexed
// on first use; concurrent first callers share one build and never observe a
// partially built index. All methods are safe for concurrent use.
type Discovery struct {
	opts     Options
	log      *zap.Logger
	graph    *dependency.Graph
	hints    query.HintProvider
	searcher *search.BM25Searcher

	mu      sync.Mutex // serializes builds
	current atomic.Pointer[state]
}

// New creates a Discovery instance. The catalog is not loaded until the first
// call that needs it, or EnsureBuilt.
func New(opts Options) (*Discovery, error) {
	if opts.Loader == nil {
		return nil, ErrNoLoader
	}
	if opts.HybridAlpha < 0 || opts.HybridAlpha > 1 {
		return nil, fmt.Errorf("%w: hybrid alpha %v outside [0, 1]", ErrInvalidArgument, opts.HybridAlpha)
	}
	if opts.HybridAlpha == 0 {
		opts.HybridAlpha = DefaultHybridAlpha
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = query.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = DefaultMaxLimit
	}
	if opts.MinScore == nil {
		minScore := query.DefaultMinScore
		opts.MinScore = &minScore
	} else if *opts.MinScore < 0 || *opts.MinScore > 1 {
		return nil, fmt.Errorf("%w: min score %v outside [0, 1]", ErrInvalidArgument, *opts.MinScore)
	}
	if opts.Graph == nil {
		opts.Graph = dependency.NewGraph("", time.Time{}, nil)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	d := &Discovery{
		opts:     opts,
		log:      log.Named("discovery"),
		graph:    opts.Graph,
		searcher: search.NewBM25Searcher(opts.BM25Config),
	}
	d.hints = graphHints(d.graph)
	return d, nil
}

// EnsureBuilt loads and indexes the catalog if that has not happened yet.
// It is idempotent; a load error is returned and the next call retries.
func (d *Discovery) EnsureBuilt() error {
	_, err := d.state()
	return err
}

// Invalidate drops the built catalog. The next call rebuilds it.
func (d *Discovery) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current.Store(nil)
	d.log.Debug("catalog invalidated")
}

// Rebuild reloads the catalog and atomically replaces the built state.
// Readers keep the previous state until the new one is published; on error
// the previous state stays in place.
func (d *Discovery) Rebuild() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, err := d.build()
	if err != nil {
		return err
	}
	d.current.Store(st)
	return nil
}

// Close releases the full-text index.
func (d *Discovery) Close() error {
	return d.searcher.Close()
}

func (d *Discovery) state() (*state, error) {
	if st := d.current.Load(); st != nil {
		return st, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if st := d.current.Load(); st != nil {
		return st, nil
	}
	st, err := d.build()
	if err != nil {
		return nil, err
	}
	d.current.Store(st)
	return st, nil
}

// build must be called with d.mu held.
func (d *Discovery) build() (*state, error) {
	start := time.Now()
	snap, err := d.opts.Loader.Load()
	if err != nil {
		d.log.Error("catalog load failed", zap.Error(err))
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	idx := index.Build(snap.Entries(), d.opts.Index)
	st := &state{
		snapshot:  snap,
		index:     idx,
		engine:    query.NewEngine(idx, query.EngineOptions{Match: d.opts.Match}),
		resources: consolidate.Build(snap.Entries()),
		estimator: cost.NewEstimator(snap, d.opts.Cost),
	}
	d.log.Info("catalog built",
		zap.Int("entries", idx.Len()),
		zap.Int("terms", len(idx.Terms())),
		zap.Int("resources", len(st.resources.Resources())),
		zap.String("fingerprint", idx.Fingerprint()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return st, nil
}

// limit applies the default and the cap.
func (d *Discovery) limit(n int) int {
	if n <= 0 {
		n = d.opts.DefaultLimit
	}
	return min(n, d.opts.MaxLimit)
}

// Snapshot returns the loaded catalog.
func (d *Discovery) Snapshot() (*catalog.Snapshot, error) {
	st, err := d.state()
	if err != nil {
		return nil, err
	}
	return st.snapshot, nil
}

// Graph returns the dependency graph.
func (d *Discovery) Graph() *dependency.Graph {
	return d.graph
}

// IndexStats describes the built search index.
func (d *Discovery) IndexStats() (index.Stats, error) {
	st, err := d.state()
	if err != nil {
		return index.Stats{}, err
	}
	return index.GetStats(st.index), nil
}

// Stats summarizes the catalog, its consolidation and the dependency graph.
type Stats struct {
	Index         index.Stats       `json:"index"`
	Consolidation consolidate.Stats `json:"consolidation"`
	Dependencies  dependency.Stats  `json:"dependencies"`
}

// Stats returns statistics for every derived structure.
func (d *Discovery) Stats() (Stats, error) {
	st, err := d.state()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Index:         index.GetStats(st.index),
		Consolidation: st.resources.Stats(),
		Dependencies:  d.graph.Stats(),
	}, nil
}
