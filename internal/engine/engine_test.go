package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

func TestClassify(t *testing.T) {
	cases := map[string]models.FileKind{
		"report.csv":     models.KindTabular,
		"Relatorio.CSV":  models.KindTabular,
		"export.xlsx":    models.KindTabular,
		"print.png":      models.KindImage,
		"foto.JPG":       models.KindImage,
		"grafico.jpeg":   models.KindImage,
		"banner.webp":    models.KindImage,
		"notes.txt":      models.KindUnknown,
		"sem-extensao":   models.KindUnknown,
		"":               models.KindUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, Classify(name), "name %q", name)
	}
}

func TestRunLatin1SemicolonEndToEnd(t *testing.T) {
	eng := New(Options{}, nil)
	res := eng.Run(models.EngineInput{
		Files: []models.FileInput{{Name: "meta.csv", Bytes: latin1Fixture}},
	})

	assert.InDelta(t, 3000, res.KPIs.Impressions, 1e-9)
	assert.InDelta(t, 80, res.KPIs.Clicks, 1e-9)
	assert.InDelta(t, 35.90, res.KPIs.Spend, 1e-9)
	assert.InDelta(t, 80.0/3000*100, res.KPIs.CTRPct, 1e-6)
	assert.NotEmpty(t, res.Narrative)
}

func TestRunMergesFilesAndCampaigns(t *testing.T) {
	eng := New(Options{}, nil)
	res := eng.Run(models.EngineInput{
		Campaigns: []models.CampaignInput{{Name: "Direta", Spend: 10.0, Results: 2.0, CPA: 5.0}},
		Files: []models.FileInput{{
			Name:  "extra.csv",
			Bytes: []byte("Campanha,Custo,Resultados\nPlanilha,\"5,50\",3\n"),
		}},
	})
	assert.InDelta(t, 15.50, res.KPIs.Spend, 1e-9)
	require.Len(t, res.Entities, 2)
	assert.Equal(t, "Direta", res.Entities[0].Name, "spend sorts descending")
}

func TestRunSkipsNonTabularWithNotes(t *testing.T) {
	eng := New(Options{}, nil)
	res := eng.Run(models.EngineInput{
		Files: []models.FileInput{
			{Name: "print.png", Bytes: []byte{0x89}},
			{Name: "dados.bin", Bytes: []byte{0x00}},
			{Name: ""},
		},
	})
	require.Len(t, res.Notes, 3)
	assert.Contains(t, res.Notes[0], "print.png")
	assert.Contains(t, res.Notes[1], "dados.bin")
	assert.Contains(t, res.Notes[2], "unnamed")
}

func TestRunUndecodableFileDegrades(t *testing.T) {
	eng := New(Options{}, nil)
	res := eng.Run(models.EngineInput{
		Campaigns: []models.CampaignInput{{Name: "A", Spend: 1.0}},
		Files:     []models.FileInput{{Name: "vazio.csv", Bytes: nil}},
	})
	assert.InDelta(t, 1.0, res.KPIs.Spend, 1e-9, "the rest of the request still aggregates")
	require.Len(t, res.Notes, 1)
	assert.Contains(t, res.Notes[0], NoteUndecodable)
}

func TestRunRowCapNote(t *testing.T) {
	var b strings.Builder
	b.WriteString("Campanha,Cliques\n")
	for i := 0; i < 10; i++ {
		b.WriteString("C,1\n")
	}
	eng := New(Options{RowCap: 4}, nil)
	res := eng.Run(models.EngineInput{
		Files: []models.FileInput{{Name: "grande.csv", Bytes: []byte(b.String())}},
	})
	assert.InDelta(t, 4, res.KPIs.Clicks, 1e-9, "rows beyond the cap are ignored")

	truncNotes := 0
	for _, n := range res.Notes {
		if strings.Contains(n, "truncated") {
			truncNotes++
		}
	}
	assert.Equal(t, 1, truncNotes, "exactly one truncation note per capped file")
}

func TestRunMissingEntityColumnNote(t *testing.T) {
	eng := New(Options{}, nil)
	res := eng.Run(models.EngineInput{
		Files: []models.FileInput{{Name: "semnome.csv", Bytes: []byte("Cliques,Custo\n5,\"1,00\"\n")}},
	})
	assert.Empty(t, res.Entities)
	found := false
	for _, n := range res.Notes {
		if strings.Contains(n, "per-entity breakdown skipped") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRunAlwaysCompleteResult(t *testing.T) {
	eng := New(Options{}, nil)
	res := eng.Run(models.EngineInput{})
	assert.NotNil(t, res.Entities)
	assert.NotNil(t, res.Timeseries)
	assert.NotNil(t, res.Notes)
	assert.NotEmpty(t, res.Narrative)
}
