package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// latin-1 export with semicolon delimiter, as Meta's pt-BR CSV downloads
// arrive: "Impressões" carries the 0xF5 byte.
var latin1Fixture = []byte("Impress\xf5es;Cliques;Custo\n1000;50;25,90\n2000;30;10,00\n")

func TestDecodeCSVLatin1Semicolon(t *testing.T) {
	tbl, truncated, err := DecodeCSV(latin1Fixture, 1000)
	require.NoError(t, err)
	assert.False(t, truncated)
	require.Equal(t, []string{"Impressões", "Cliques", "Custo"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"1000", "50", "25,90"}, tbl.Rows[0])
}

func TestDecodeCSVUTF8Comma(t *testing.T) {
	raw := []byte("campaign,clicks\nPromo,10\n")
	tbl, _, err := DecodeCSV(raw, 1000)
	require.NoError(t, err)
	assert.Equal(t, []string{"campaign", "clicks"}, tbl.Headers)
}

func TestDecodeCSVUTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("campaign;spend\nPromo;1,50\n")...)
	tbl, _, err := DecodeCSV(raw, 1000)
	require.NoError(t, err)
	assert.Equal(t, "campaign", tbl.Headers[0], "BOM must not leak into the first header cell")
}

func TestDecodeCSVTabAndPipe(t *testing.T) {
	tbl, _, err := DecodeCSV([]byte("a\tb\n1\t2\n"), 1000)
	require.NoError(t, err)
	assert.Len(t, tbl.Headers, 2)

	tbl, _, err = DecodeCSV([]byte("a|b\n1|2\n"), 1000)
	require.NoError(t, err)
	assert.Len(t, tbl.Headers, 2)
}

func TestDecodeCSVDeterministic(t *testing.T) {
	first, _, err := DecodeCSV(latin1Fixture, 1000)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, _, err := DecodeCSV(latin1Fixture, 1000)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDecodeCSVRowCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("campaign,clicks\n")
	for i := 0; i < 20; i++ {
		b.WriteString("c,1\n")
	}
	tbl, truncated, err := DecodeCSV([]byte(b.String()), 5)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Len(t, tbl.Rows, 5)
}

func TestDecodeCSVSingleColumnFallback(t *testing.T) {
	tbl, _, err := DecodeCSV([]byte("clicks\n5\n7\n"), 1000)
	require.NoError(t, err)
	require.Equal(t, []string{"clicks"}, tbl.Headers)
	assert.Len(t, tbl.Rows, 2)
}

func TestDecodeCSVEmptyInput(t *testing.T) {
	_, _, err := DecodeCSV(nil, 1000)
	assert.ErrorIs(t, err, ErrDecode)
}
