package engine

import (
	"sort"
	"strings"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

// SortKey selects how entity rollups are ordered for presentation.
type SortKey string

const (
	SortBySpend   SortKey = "spend"
	SortByResults SortKey = "results"
)

// Aggregation is everything the aggregator derives from the merged rows. It
// is rebuilt from scratch on every request.
type Aggregation struct {
	Totals      models.Totals
	Ratios      models.Ratios
	Entities    []models.EntityAggregate
	Timeseries  []models.TimeBucket
	WeightedCPA float64

	// entity rollups in first-encountered input order; highlight selection
	// tie-breaks on this order, not the presentation sort
	inputOrder []models.EntityAggregate
}

// BuildRows applies a column mapping to a raw table and yields one
// NormalizedRow per source row. Label columns pass through as text; every
// metric cell goes through ParseNumber.
func BuildRows(tbl models.RawTable, mapping models.ColumnMapping) []models.NormalizedRow {
	rows := make([]models.NormalizedRow, 0, len(tbl.Rows))
	for _, rec := range tbl.Rows {
		nr := models.NormalizedRow{Values: make(map[models.Metric]float64)}
		for idx, metric := range mapping.Columns {
			if idx >= len(rec) {
				continue
			}
			nr.Values[metric] = ParseNumber(rec[idx])
		}
		if mapping.EntityCol >= 0 && mapping.EntityCol < len(rec) {
			nr.Entity = strings.TrimSpace(rec[mapping.EntityCol])
		}
		if mapping.DateCol >= 0 && mapping.DateCol < len(rec) {
			nr.Date = strings.TrimSpace(rec[mapping.DateCol])
		}
		rows = append(rows, nr)
	}
	return rows
}

// CampaignRows converts the pre-structured campaign list into the same row
// shape the file pipeline produces, so both inputs share one aggregation
// path. Conversations count toward conversions.
func CampaignRows(camps []models.CampaignInput) []models.NormalizedRow {
	rows := make([]models.NormalizedRow, 0, len(camps))
	for _, c := range camps {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = "Campanha"
		}
		nr := models.NormalizedRow{
			Values: make(map[models.Metric]float64),
			Entity: name,
			Status: strings.TrimSpace(c.Status),
		}
		setIfPresent(nr.Values, models.MetricSpend, c.Spend)
		setIfPresent(nr.Values, models.MetricImpressions, c.Impressions)
		setIfPresent(nr.Values, models.MetricReach, c.Reach)
		setIfPresent(nr.Values, models.MetricResults, c.Results)
		setIfPresent(nr.Values, models.MetricCPA, c.CPA)
		setIfPresent(nr.Values, models.MetricROAS, c.ROAS)
		setIfPresent(nr.Values, models.MetricConversions, c.Conversations)
		rows = append(rows, nr)
	}
	return rows
}

func setIfPresent(values map[models.Metric]float64, m models.Metric, v any) {
	switch x := v.(type) {
	case nil:
		return
	case float64:
		values[m] = x
	case int:
		values[m] = float64(x)
	case string:
		values[m] = ParseNumber(x)
	default:
		return
	}
}

// Aggregate merges rows from all sources (append order = upload order) and
// computes totals, derived ratios, per-entity rollups and the per-date time
// series. sortKey orders entities descending, name ascending on ties; topN
// truncates after sorting when positive.
func Aggregate(rows []models.NormalizedRow, sortKey SortKey, topN int) Aggregation {
	agg := Aggregation{Totals: sumRows(rows)}
	agg.Ratios = deriveRatios(agg.Totals)
	agg.inputOrder = entityAggregates(rows)
	agg.Entities = sortEntities(agg.inputOrder, sortKey, topN)
	agg.Timeseries = timeBuckets(rows)
	agg.WeightedCPA = weightedCPA(agg.inputOrder)
	return agg
}

func sumRows(rows []models.NormalizedRow) models.Totals {
	totals := make(models.Totals)
	for _, r := range rows {
		for m, v := range r.Values {
			totals[m] += v
		}
	}
	return totals
}

// safeDiv guards every derived ratio: a non-positive denominator yields 0,
// never Inf or NaN.
func safeDiv(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

func deriveRatios(t models.Totals) models.Ratios {
	conversions := t[models.MetricConversions]
	if conversions <= 0 {
		conversions = t[models.MetricResults]
	}
	return models.Ratios{
		CTRPct: safeDiv(t[models.MetricClicks], t[models.MetricImpressions]) * 100,
		CPC:    safeDiv(t[models.MetricSpend], t[models.MetricClicks]),
		CPA:    safeDiv(t[models.MetricSpend], conversions),
		ROAS:   safeDiv(t[models.MetricRevenue], t[models.MetricSpend]),
		CRPct:  safeDiv(t[models.MetricConversions], t[models.MetricClicks]) * 100,
	}
}

func entityAggregates(rows []models.NormalizedRow) []models.EntityAggregate {
	groups := make(map[string][]models.NormalizedRow)
	var order []string
	for _, r := range rows {
		if r.Entity == "" {
			continue
		}
		if _, seen := groups[r.Entity]; !seen {
			order = append(order, r.Entity)
		}
		groups[r.Entity] = append(groups[r.Entity], r)
	}

	out := make([]models.EntityAggregate, 0, len(order))
	for _, name := range order {
		grp := groups[name]
		t := sumRows(grp)
		rt := deriveRatios(t)
		ea := models.EntityAggregate{
			Name:        name,
			Spend:       t[models.MetricSpend],
			Impressions: t[models.MetricImpressions],
			Clicks:      t[models.MetricClicks],
			Reach:       t[models.MetricReach],
			Results:     entityResults(t),
			Conversions: t[models.MetricConversions],
			Revenue:     t[models.MetricRevenue],
			CPA:         entityCPA(t, rt, len(grp)),
			ROAS:        entityROAS(t, rt, len(grp)),
		}
		for _, r := range grp {
			if r.Status != "" {
				ea.Status = r.Status
				break
			}
		}
		out = append(out, ea)
	}
	return out
}

func sortEntities(in []models.EntityAggregate, sortKey SortKey, topN int) []models.EntityAggregate {
	out := make([]models.EntityAggregate, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := sortValue(out[i], sortKey), sortValue(out[j], sortKey)
		if a != b {
			return a > b
		}
		return out[i].Name < out[j].Name
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// entityResults treats conversions as results when the source had no results
// column, so file-based and pre-structured inputs rank the same way.
func entityResults(t models.Totals) float64 {
	if v, ok := t[models.MetricResults]; ok && v > 0 {
		return v
	}
	return t[models.MetricConversions]
}

// entityCPA prefers the source's own CPA cell when the group is a single row
// (the pre-structured campaign case, where the sheet already computed it).
// CPA is not additive, so once sumRows has merged several rows the summed
// cell is meaningless and the derived value is used instead.
func entityCPA(t models.Totals, rt models.Ratios, groupSize int) float64 {
	if v, ok := t[models.MetricCPA]; ok && v > 0 && groupSize == 1 {
		return v
	}
	return rt.CPA
}

func entityROAS(t models.Totals, rt models.Ratios, groupSize int) float64 {
	if v, ok := t[models.MetricROAS]; ok && v > 0 && groupSize == 1 {
		return v
	}
	return rt.ROAS
}

func sortValue(ea models.EntityAggregate, key SortKey) float64 {
	if key == SortByResults {
		return ea.Results
	}
	return ea.Spend
}

func timeBuckets(rows []models.NormalizedRow) []models.TimeBucket {
	groups := make(map[string]models.Totals)
	for _, r := range rows {
		if r.Date == "" {
			continue
		}
		t, ok := groups[r.Date]
		if !ok {
			t = make(models.Totals)
			groups[r.Date] = t
		}
		for m, v := range r.Values {
			t[m] += v
		}
	}

	dates := make([]string, 0, len(groups))
	for d := range groups {
		dates = append(dates, d)
	}
	// raw date text is an opaque chronological key; pre-formatted YYYY-MM-DD
	// labels sort correctly and anything else sorts deterministically
	sort.Strings(dates)

	out := make([]models.TimeBucket, 0, len(dates))
	for _, d := range dates {
		t := groups[d]
		rt := deriveRatios(t)
		out = append(out, models.TimeBucket{
			Date:        d,
			Impressions: t[models.MetricImpressions],
			Clicks:      t[models.MetricClicks],
			Conversions: t[models.MetricConversions],
			Spend:       t[models.MetricSpend],
			Revenue:     t[models.MetricRevenue],
			CTRPct:      rt.CTRPct,
			CPC:         rt.CPC,
			CPA:         rt.CPA,
		})
	}
	return out
}

// weightedCPA averages per-entity CPA weighted by each entity's result
// volume, restricted to entities with positive results. A naive mean would
// let a zero-volume campaign's CPA distort the figure.
func weightedCPA(entities []models.EntityAggregate) float64 {
	var num, den float64
	for _, e := range entities {
		if e.Results > 0 {
			num += e.CPA * e.Results
			den += e.Results
		}
	}
	return safeDiv(num, den)
}
