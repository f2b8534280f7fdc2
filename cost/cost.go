package cost

import (
	"encoding/json"
	"time"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/shopspring/decimal"
)

// Defaults used by DefaultConfig.
const (
	DefaultBaseLatency      = 150 * time.Millisecond
	DefaultPerFieldLatency  = 3 * time.Millisecond
	DefaultPricePerThousand = "0.003"

	// bytesPerToken approximates tokenizer output for JSON and English text.
	bytesPerToken = 4
)

// Config holds the estimation constants.
type Config struct {
	BaseLatency            time.Duration
	PerFieldLatency        time.Duration
	PricePerThousandTokens decimal.Decimal
}

// DefaultConfig returns the default constants.
func DefaultConfig() Config {
	return Config{
		BaseLatency:            DefaultBaseLatency,
		PerFieldLatency:        DefaultPerFieldLatency,
		PricePerThousandTokens: decimal.RequireFromString(DefaultPricePerThousand),
	}
}

// EntrySource looks up catalog entries by tool name. *catalog.Snapshot
// satisfies it.
type EntrySource interface {
	Lookup(name string) (catalog.Entry, bool)
}

// Breakdown itemizes a tool estimate.
type Breakdown struct {
	NameTokens    int           `json:"nameTokens"`
	SchemaTokens  int           `json:"schemaTokens"`
	ExampleTokens int           `json:"exampleTokens"`
	BaseLatency   time.Duration `json:"baseLatency"`
	FieldLatency  time.Duration `json:"fieldLatency"`
}

// ToolCost is the estimate for one tool.
type ToolCost struct {
	Tool      string          `json:"tool"`
	Tokens    int             `json:"tokens"`
	Fields    int             `json:"fields"`
	Latency   time.Duration   `json:"latency"`
	Cost      decimal.Decimal `json:"cost"`
	Breakdown *Breakdown      `json:"breakdown,omitempty"`
}

// Estimator computes cost figures. It holds no mutable state and is safe for
// concurrent use.
type Estimator struct {
	src EntrySource
	cfg Config
}

// NewEstimator returns an Estimator over src. Zero Config fields take their
// defaults.
func NewEstimator(src EntrySource, cfg Config) *Estimator {
	def := DefaultConfig()
	if cfg.BaseLatency <= 0 {
		cfg.BaseLatency = def.BaseLatency
	}
	if cfg.PerFieldLatency <= 0 {
		cfg.PerFieldLatency = def.PerFieldLatency
	}
	if cfg.PricePerThousandTokens.IsZero() {
		cfg.PricePerThousandTokens = def.PricePerThousandTokens
	}
	return &Estimator{src: src, cfg: cfg}
}

// Config returns the effective constants.
func (e *Estimator) Config() Config {
	return e.cfg
}

// Estimate returns the cost of calling the named tool, with breakdown.
func (e *Estimator) Estimate(name string) (ToolCost, bool) {
	entry, ok := e.src.Lookup(name)
	if !ok {
		return ToolCost{}, false
	}
	return e.EstimateEntry(entry), true
}

// EstimateEntry returns the cost of calling entry, with breakdown.
func (e *Estimator) EstimateEntry(entry catalog.Entry) ToolCost {
	b := Breakdown{
		NameTokens:    tokens(len(entry.Name) + 1 + len(entry.Summary)),
		SchemaTokens:  tokens(jsonLen(entry.InputSchema)),
		ExampleTokens: tokens(jsonLen(entry.Example)),
		BaseLatency:   e.cfg.BaseLatency,
	}
	fields := countFields(entry)
	b.FieldLatency = time.Duration(fields) * e.cfg.PerFieldLatency

	total := b.NameTokens + b.SchemaTokens + b.ExampleTokens
	return ToolCost{
		Tool:      entry.Name,
		Tokens:    total,
		Fields:    fields,
		Latency:   b.BaseLatency + b.FieldLatency,
		Cost:      e.price(total),
		Breakdown: &b,
	}
}

func (e *Estimator) price(tokens int) decimal.Decimal {
	return decimal.NewFromInt(int64(tokens)).
		Mul(e.cfg.PricePerThousandTokens).
		Div(decimal.NewFromInt(1000))
}

func tokens(n int) int {
	return (n + bytesPerToken - 1) / bytesPerToken
}

// jsonLen is the compact JSON size of v, zero for empty values.
func jsonLen(v map[string]any) int {
	if len(v) == 0 {
		return 0
	}
	b, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(b)
}

// countFields counts schema properties at every nesting level. Without a
// schema the declared required fields are counted.
func countFields(entry catalog.Entry) int {
	if n := countProperties(entry.InputSchema); n > 0 {
		return n
	}
	return len(entry.RequiredFields)
}

func countProperties(schema map[string]any) int {
	n := 0
	if props, ok := schema["properties"].(map[string]any); ok {
		for _, p := range props {
			n++
			if sub, ok := p.(map[string]any); ok {
				n += countProperties(sub)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		n += countProperties(items)
	}
	return n
}
