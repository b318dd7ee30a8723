// Package engine turns heterogeneous exported ad-platform spreadsheets into a
// normalized, arithmetically consistent report: classification, resilient CSV
// and XLSX decoding, canonical-column resolution, locale-safe numeric
// normalization, multi-file aggregation and a deterministic pt-BR narrative.
//
// The engine is synchronous, holds no state between requests and performs no
// network access. Per-file and per-cell problems degrade into diagnostic
// notes on the result; only a malformed top-level request fails upstream of
// this package.
package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

// Options bound each request. Zero values fall back to the defaults below.
type Options struct {
	RowCap  int     // max data rows kept per file
	SortKey SortKey // entity presentation order
	TopN    int     // 0 = all entities
}

const defaultRowCap = 50000

// NoteUndecodable is the stable fragment of the decode-failure note, so the
// hosting layer can count those failures without re-decoding anything.
const NoteUndecodable = "could not be decoded"

// Engine is the ingestion and aggregation pipeline. Safe for concurrent use:
// every call builds its result from scratch.
type Engine struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options, log *slog.Logger) *Engine {
	if opts.RowCap <= 0 {
		opts.RowCap = defaultRowCap
	}
	if opts.SortKey == "" {
		opts.SortKey = SortBySpend
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{opts: opts, log: log}
}

// Run executes the full pipeline for one request and always returns a
// complete result. Pre-structured campaigns and decoded file rows merge into
// one logical sequence, campaigns first, then files in upload order.
func (e *Engine) Run(in models.EngineInput) models.EngineResult {
	var rows []models.NormalizedRow
	var notes []string

	rows = append(rows, CampaignRows(in.Campaigns)...)

	sawEntityCol := len(in.Campaigns) > 0
	tabularSeen := 0
	for _, f := range in.Files {
		fileRows, fileNotes, hadEntity := e.ingestFile(f)
		rows = append(rows, fileRows...)
		notes = append(notes, fileNotes...)
		if fileRows != nil {
			tabularSeen++
			sawEntityCol = sawEntityCol || hadEntity
		}
	}
	if tabularSeen > 0 && !sawEntityCol {
		notes = append(notes, "no campaign-name column found, per-entity breakdown skipped")
	}

	agg := Aggregate(rows, e.opts.SortKey, e.opts.TopN)
	doc := Synthesize(ReportContext{
		Brand:        in.Brand,
		Channel:      in.Channel,
		Period:       in.Period,
		Observations: in.Observations,
	}, agg)

	e.log.Info("report built",
		slog.Int("rows", len(rows)),
		slog.Int("entities", len(agg.Entities)),
		slog.Int("notes", len(notes)))

	return assemble(agg, doc, notes)
}

// ingestFile runs classify → decode → resolve → normalize for one artifact.
// Every failure path returns nil rows plus a note; nothing aborts the
// request.
func (e *Engine) ingestFile(f models.FileInput) (rows []models.NormalizedRow, notes []string, hadEntity bool) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, []string{"unnamed file skipped"}, false
	}

	switch Classify(name) {
	case models.KindImage:
		return nil, []string{fmt.Sprintf("image file %q skipped, no tabular data", name)}, false
	case models.KindUnknown:
		return nil, []string{fmt.Sprintf("file %q ignored, unrecognized type", name)}, false
	}

	var (
		tbl       models.RawTable
		truncated bool
		err       error
	)
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		tbl, truncated, err = DecodeXLSX(f.Bytes, e.opts.RowCap)
	} else {
		tbl, truncated, err = DecodeCSV(f.Bytes, e.opts.RowCap)
	}
	if err != nil {
		e.log.Warn("decode failure", slog.String("file", name))
		return nil, []string{fmt.Sprintf("file %q %s", name, NoteUndecodable)}, false
	}
	if truncated {
		notes = append(notes, fmt.Sprintf("file %q truncated at %d rows", name, e.opts.RowCap))
	}

	mapping := ResolveColumns(tbl.Headers)
	if len(mapping.Columns) == 0 {
		notes = append(notes, fmt.Sprintf("file %q had no recognizable metric columns", name))
	}
	return BuildRows(tbl, mapping), notes, mapping.EntityCol >= 0
}

// assemble is the pure final step: it packages aggregates, narrative and
// notes into the one externally visible value. No new computation happens
// here.
func assemble(agg Aggregation, doc Document, notes []string) models.EngineResult {
	if notes == nil {
		notes = []string{}
	}
	res := models.EngineResult{
		KPIs: models.KPISummary{
			Impressions: agg.Totals[models.MetricImpressions],
			Clicks:      agg.Totals[models.MetricClicks],
			Spend:       agg.Totals[models.MetricSpend],
			Conversions: agg.Totals[models.MetricConversions],
			Revenue:     agg.Totals[models.MetricRevenue],
			Results:     entityResults(agg.Totals),
			CTRPct:      agg.Ratios.CTRPct,
			CPC:         agg.Ratios.CPC,
			CPA:         agg.Ratios.CPA,
			WeightedCPA: agg.WeightedCPA,
			ROAS:        agg.Ratios.ROAS,
			CRPct:       agg.Ratios.CRPct,
		},
		Entities:   agg.Entities,
		Timeseries: agg.Timeseries,
		Narrative:  doc.Render(),
		Notes:      notes,
	}
	if res.Entities == nil {
		res.Entities = []models.EntityAggregate{}
	}
	if res.Timeseries == nil {
		res.Timeseries = []models.TimeBucket{}
	}
	return res
}
