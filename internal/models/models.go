package models

// Metric is one of the fixed canonical performance metrics the engine
// understands, independent of how the source spreadsheet names its columns.
type Metric string

const (
	MetricImpressions Metric = "impressions"
	MetricClicks      Metric = "clicks"
	MetricSpend       Metric = "spend"
	MetricConversions Metric = "conversions"
	MetricRevenue     Metric = "revenue"
	MetricReach       Metric = "reach"
	MetricResults     Metric = "results"
	MetricCPA         Metric = "cpa"
	MetricROAS        Metric = "roas"
)

// Metrics lists every canonical metric in resolution order. The order is part
// of the column-resolution contract: earlier metrics claim headers first.
var Metrics = []Metric{
	MetricImpressions,
	MetricClicks,
	MetricSpend,
	MetricConversions,
	MetricRevenue,
	MetricReach,
	MetricResults,
	MetricCPA,
	MetricROAS,
}

// RawTable is one decoded spreadsheet: ordered headers plus ordered rows of
// raw cell text. Immutable after decoding.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ColumnMapping maps header indexes of one RawTable to canonical metrics.
// Partial: unmapped columns are dropped. EntityCol/DateCol are -1 when the
// table has no recognizable campaign-name or date column.
type ColumnMapping struct {
	Columns   map[int]Metric
	EntityCol int
	DateCol   int
}

// NormalizedRow is one source row after numeric normalization. A metric
// absent from the map was absent from the source, which is distinct from a
// present-but-zero value.
type NormalizedRow struct {
	Values map[Metric]float64
	Entity string
	Date   string
	Status string
}

// Totals is the per-metric sum over a set of normalized rows.
type Totals map[Metric]float64

// Ratios are the derived metrics computed from Totals. Zero denominator
// always yields zero, never Inf or NaN.
type Ratios struct {
	CTRPct float64 `json:"ctrPct"`
	CPC    float64 `json:"cpc"`
	CPA    float64 `json:"cpa"`
	ROAS   float64 `json:"roas"`
	CRPct  float64 `json:"cr"`
}

// EntityAggregate is the rollup for one distinct campaign label.
type EntityAggregate struct {
	Name        string  `json:"name"`
	Status      string  `json:"status,omitempty"`
	Spend       float64 `json:"spend"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Reach       float64 `json:"reach"`
	Results     float64 `json:"results"`
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	CPA         float64 `json:"cpa"`
	ROAS        float64 `json:"roas"`
}

// TimeBucket is the rollup for one distinct date label, ordered by the raw
// label treated as an opaque sort key.
type TimeBucket struct {
	Date        string  `json:"date"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Conversions float64 `json:"conversions"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	CTRPct      float64 `json:"ctrPct"`
	CPC         float64 `json:"cpc"`
	CPA         float64 `json:"cpa"`
}

// FileKind is the classification bucket for one uploaded artifact.
type FileKind string

const (
	KindTabular FileKind = "tabular"
	KindImage   FileKind = "image"
	KindUnknown FileKind = "unknown"
)

// FileInput is one uploaded artifact: name plus raw bytes.
type FileInput struct {
	Name  string `json:"name"`
	Bytes []byte `json:"-"`
}

// CampaignInput is one pre-structured campaign row, the shape the front end
// posts when it already extracted the numbers itself. Numeric fields accept
// both JSON numbers and locale-formatted strings; both go through the same
// normalizer as spreadsheet cells.
type CampaignInput struct {
	Name          string `json:"name"`
	Status        string `json:"status,omitempty"`
	Spend         any    `json:"spend,omitempty"`
	Impressions   any    `json:"impressions,omitempty"`
	Reach         any    `json:"reach,omitempty"`
	Results       any    `json:"results,omitempty"`
	CPA           any    `json:"cpa,omitempty"`
	ROAS          any    `json:"roas,omitempty"`
	Conversations any    `json:"conversations,omitempty"`
}

// EngineInput is the engine's sole request shape: either uploaded files or a
// pre-structured campaign list, plus echoed report context.
type EngineInput struct {
	Brand        string          `json:"brand,omitempty"`
	Channel      string          `json:"channel,omitempty"`
	Period       string          `json:"period,omitempty"`
	Observations string          `json:"observations,omitempty"`
	Files        []FileInput     `json:"-"`
	Campaigns    []CampaignInput `json:"campaigns,omitempty"`
}

// KPISummary is the flattened totals-plus-ratios block of the result.
type KPISummary struct {
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	Results     float64 `json:"results"`
	CTRPct      float64 `json:"ctrPct"`
	CPC         float64 `json:"cpc"`
	CPA         float64 `json:"cpa"`
	WeightedCPA float64 `json:"weightedCpa"`
	ROAS        float64 `json:"roas"`
	CRPct       float64 `json:"cr"`
}

// EngineResult is the engine's single externally visible artifact. It is
// always complete and well-typed: per-file problems degrade into Notes, never
// into a missing result.
type EngineResult struct {
	KPIs       KPISummary        `json:"kpis"`
	Entities   []EntityAggregate `json:"entities"`
	Timeseries []TimeBucket      `json:"timeseries"`
	Narrative  string            `json:"narrative"`
	Notes      []string          `json:"notes"`
}
