package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

// Section is one labeled block of the narrative document.
type Section struct {
	Title string
	Lines []string
}

// Document is the ordered narrative before rendering. It carries no identity
// beyond the aggregates it was built from.
type Document struct {
	Sections []Section
}

// Render flattens the document into the final markdown text.
func (d Document) Render() string {
	var b strings.Builder
	for i, s := range d.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		if s.Title != "" {
			b.WriteString(s.Title)
			b.WriteString("\n")
		}
		for _, l := range s.Lines {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ReportContext is the echoed request context the narrative opens with.
type ReportContext struct {
	Brand        string
	Channel      string
	Period       string
	Observations string
}

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

func brMoney(v float64) string { return ptBR.Sprintf("R$ %.2f", v) }
func brCount(v float64) string { return ptBR.Sprintf("%d", int64(v)) }

const nextStepsText = "- **Escalar** campanhas com melhor CPA/resultado de forma **gradual** (evita perder eficiência).\n" +
	"- **Testes A/B** de criativos e chamadas (promessa tangível + benefício claro).\n" +
	"- **Retargeting** em quem engajou/visitou para elevar a taxa de conversão.\n" +
	"- **Frequência e CTR**: monitorar para evitar fadiga e preservar performance.\n" +
	"- **Acompanhamento semanal** dos KPIs com ajustes táticos."

const metricsGlossaryText = "- **Gasto**: verba investida por campanha.\n" +
	"- **Impressões**: quantas vezes seus anúncios foram exibidos.\n" +
	"- **Resultados**: ações geradas (ex.: conversas, leads, cliques, compras), conforme seu objetivo.\n" +
	"- **CPA**: custo por resultado; quanto menor, mais eficiente.\n" +
	"- **ROAS**: retorno sobre gasto; acima de 1, indica retorno positivo em campanhas de compra."

const closingText = "**Resumo otimista:** os dados mostram pontos de tração reais. " +
	"Com pequenos ajustes de orçamento, criativos e segmentação, " +
	"há espaço para crescer com segurança mantendo eficiência."

// Synthesize builds the deterministic pt-BR narrative from the aggregates.
// It needs nothing beyond its arguments and always produces non-empty text,
// even for zero campaigns.
func Synthesize(ctx ReportContext, agg Aggregation) Document {
	brand := defaultStr(ctx.Brand, "sua marca")
	channel := defaultStr(ctx.Channel, "META")
	period := defaultStr(ctx.Period, "Último período")

	totalSpend := agg.Totals[models.MetricSpend]
	totalImpr := agg.Totals[models.MetricImpressions]
	totalResults := entityResults(agg.Totals)
	camps := agg.inputOrder

	doc := Document{}
	doc.Sections = append(doc.Sections, Section{
		Title: fmt.Sprintf("# Relatório de Desempenho — %s", brand),
		Lines: []string{fmt.Sprintf("_Canal:_ **%s**  •  _Período:_ **%s**", channel, period)},
	})

	overview := Section{Title: "## Visão Geral"}
	if len(camps) == 0 {
		overview.Lines = append(overview.Lines, "Sem campanhas processadas no período.")
	} else {
		overview.Lines = append(overview.Lines, fmt.Sprintf(
			"O investimento total observado foi de **%s**, com **%s** impressões e **%s** resultados.",
			brMoney(totalSpend), brCount(totalImpr), brCount(totalResults)))
		if totalResults > 0 {
			overview.Lines = append(overview.Lines,
				fmt.Sprintf("O **CPA médio** ficou em **%s**.", brMoney(agg.WeightedCPA)))
		} else {
			overview.Lines = append(overview.Lines,
				"Ainda não há resultados suficientes para calcular **CPA médio** de forma confiável.")
		}
	}
	doc.Sections = append(doc.Sections, overview)

	doc.Sections = append(doc.Sections, Section{
		Title: "## Métricas — O que observar",
		Lines: []string{metricsGlossaryText},
	})

	if len(camps) > 0 {
		doc.Sections = append(doc.Sections, highlightSection(camps))
		doc.Sections = append(doc.Sections, recommendationSection(camps))
	}

	doc.Sections = append(doc.Sections, Section{
		Title: "## Próximos Passos (prioridades)",
		Lines: []string{nextStepsText},
	})

	if strings.TrimSpace(ctx.Observations) != "" {
		doc.Sections = append(doc.Sections, Section{
			Title: "## Observações do Cliente",
			Lines: []string{ctx.Observations},
		})
	}

	doc.Sections = append(doc.Sections, Section{Lines: []string{"---", closingText}})
	return doc
}

// highlightSection picks best efficiency (lowest CPA among entities with
// results, first encountered wins ties) and highest result volume (first
// encountered wins ties).
func highlightSection(camps []models.EntityAggregate) Section {
	var bestCPA, mostResults *models.EntityAggregate
	for i := range camps {
		c := &camps[i]
		if c.Results > 0 && (bestCPA == nil || c.CPA < bestCPA.CPA) {
			bestCPA = c
		}
		if mostResults == nil || c.Results > mostResults.Results {
			mostResults = c
		}
	}

	s := Section{Title: "## Destaques"}
	if bestCPA != nil {
		s.Lines = append(s.Lines, fmt.Sprintf(
			"- **Maior eficiência (melhor CPA)**: “%s” com CPA **%s** e **%s** resultados.",
			bestCPA.Name, brMoney(bestCPA.CPA), brCount(bestCPA.Results)))
	}
	if mostResults != nil {
		s.Lines = append(s.Lines, fmt.Sprintf(
			"- **Maior volume de resultados**: “%s” com **%s** resultados.",
			mostResults.Name, brCount(mostResults.Results)))
	}
	return s
}

// recommendationSection classifies each campaign into exactly one bucket:
// traction, delivery-without-conversion, or insufficient data.
func recommendationSection(camps []models.EntityAggregate) Section {
	s := Section{Title: "## Recomendações por Campanha"}
	for _, c := range camps {
		s.Lines = append(s.Lines, fmt.Sprintf("**%s**", c.Name))
		switch {
		case c.Results > 0 && c.CPA > 0:
			s.Lines = append(s.Lines, fmt.Sprintf(
				"- Bons sinais de tração. Avaliar **incremento gradual de verba** mantendo a eficiência de **%s** por resultado.",
				brMoney(c.CPA)))
		case c.Results == 0 && c.Impressions > 0:
			s.Lines = append(s.Lines,
				"- Há entrega (impressões), porém sem conversões. Sugestão: revisar **objetivo da campanha** e **criativos** "+
					"(benefício + urgência leve) e afinar **públicos/segmentação**.")
		default:
			s.Lines = append(s.Lines,
				"- Sem dados suficientes; considerar **reativar/testar** com segmentação e objetivo alinhados.")
		}
		if c.ROAS > 0 {
			s.Lines = append(s.Lines, ptBR.Sprintf(
				"- ROAS atual: **%.2f** — acompanhar margem e cesta de produtos/serviços.", c.ROAS))
		}
		s.Lines = append(s.Lines, "")
	}
	return s
}

func defaultStr(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
