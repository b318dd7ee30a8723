package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

// Column synonyms per canonical metric, in priority order. These tables are
// the single authority for header recognition: exported Meta/Google reports
// arrive in English or Portuguese with no guaranteed casing or accents, so
// matching happens on the normalized form and accepts substring hits.
var metricSynonyms = map[models.Metric][]string{
	models.MetricImpressions: {"impressions", "impressoes", "impr", "impressao", "exibicoes"},
	models.MetricClicks:      {"clicks", "cliques", "click", "clique"},
	models.MetricSpend:       {"spend", "gasto", "investimento", "amount spent", "custo", "valor gasto"},
	models.MetricConversions: {"conversions", "conversoes", "purchases", "compras", "leads", "resultados", "conversion"},
	models.MetricRevenue:     {"revenue", "receita", "faturamento", "conversion value", "valor de conversao"},
	models.MetricReach:       {"reach", "alcance"},
	models.MetricResults:     {"results", "resultado"},
	models.MetricCPA:         {"cpa", "custo por resultado", "cost per result"},
	models.MetricROAS:        {"roas", "retorno sobre"},
}

var entitySynonyms = []string{"campaign name", "nome da campanha", "campaign", "campanha", "anuncio", "ad name"}

var dateSynonyms = []string{"date", "data", "dia", "day", "reporting starts"}

// NormalizeHeader lowercases the header, strips accents to their base letter
// and collapses internal whitespace. Pure and independently testable. The
// transformer chain is stateful, so it is built per call rather than shared.
func NormalizeHeader(h string) string {
	s := strings.ToLower(strings.TrimSpace(h))
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// ResolveColumns maps a table's headers to canonical metrics plus the
// entity-label and date-label columns. Each header is claimed at most once;
// tie-breaks are (1) earlier synonym in the metric's list, (2) lower column
// index. Headers nothing matches are dropped without error.
func ResolveColumns(headers []string) models.ColumnMapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	m := models.ColumnMapping{
		Columns:   make(map[int]models.Metric),
		EntityCol: -1,
		DateCol:   -1,
	}
	claimed := make(map[int]bool)

	// label columns resolve first so "campanha" is never eaten by a metric
	if idx := matchColumn(normalized, entitySynonyms, claimed); idx >= 0 {
		m.EntityCol = idx
		claimed[idx] = true
	}
	if idx := matchColumn(normalized, dateSynonyms, claimed); idx >= 0 {
		m.DateCol = idx
		claimed[idx] = true
	}

	for _, metric := range models.Metrics {
		idx := matchColumn(normalized, metricSynonyms[metric], claimed)
		if idx < 0 {
			continue
		}
		m.Columns[idx] = metric
		claimed[idx] = true
	}
	return m
}

// matchColumn returns the index of the first unclaimed header matching the
// earliest possible synonym, or -1. Equality or substring both count.
func matchColumn(normalized []string, synonyms []string, claimed map[int]bool) int {
	for _, syn := range synonyms {
		for i, h := range normalized {
			if claimed[i] || h == "" {
				continue
			}
			if h == syn || strings.Contains(h, syn) {
				return i
			}
		}
	}
	return -1
}
