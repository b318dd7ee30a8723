package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberLocaleFormats(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"1.234.567,89", 1234567.89},
		{"1,234,567.89", 1234567.89},
		{"R$ 10,50", 10.5},
		{"R$ 1.234,56", 1234.56},
		{"25,90", 25.9},
		{"10,00", 10},
		{"3.14", 3.14},
		{"1000", 1000},
		{"-12,5", -12.5},
		{"+7", 7},
		{"2,67%", 2.67},
		{"1.234.567", 1234567},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, ParseNumber(c.in), 1e-9, "input %q", c.in)
	}
}

func TestParseNumberMissingSentinels(t *testing.T) {
	for _, in := range []string{"", "   ", "—", "-", "–"} {
		assert.Zero(t, ParseNumber(in), "input %q", in)
	}
}

func TestParseNumberGarbage(t *testing.T) {
	for _, in := range []string{"abc", "n/a", "R$", "..", ",,"} {
		assert.Zero(t, ParseNumber(in), "input %q", in)
	}
}

func TestParseNumberEmbeddedToken(t *testing.T) {
	assert.InDelta(t, 146, ParseNumber("146 resultados"), 1e-9)
	assert.InDelta(t, 99.9, ParseNumber("custo: 99,9 por dia"), 1e-9)
}
