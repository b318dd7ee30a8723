package engine

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

// ErrDecode marks a file whose bytes could not be parsed under any attempted
// (encoding, delimiter) pair. It is scoped to that file: the caller records a
// note and moves on.
var ErrDecode = errors.New("undecodable tabular file")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// The attempt order below is part of the decoder's contract: identical bytes
// must always resolve to the same (encoding, delimiter) pair.
var (
	encodingOrder  = []string{"utf-8", "utf-8-bom", "latin-1", "windows-1252"}
	delimiterOrder = []rune{',', ';', '\t', '|'}
)

// DecodeCSV parses raw bytes of unknown encoding and delimiter into a
// RawTable. Attempts run over encodings (utf-8, utf-8 with BOM, latin-1,
// windows-1252) crossed with delimiters (comma, semicolon, tab, pipe), in
// that order; the first attempt producing a clean parse with a multi-column
// header wins. When nothing does, one final comma parse under the first
// viable encoding is accepted with a single non-empty header cell. rowCap
// bounds the number of data rows kept; truncated is reported so the caller
// can note it.
func DecodeCSV(raw []byte, rowCap int) (tbl models.RawTable, truncated bool, err error) {
	for _, enc := range encodingOrder {
		text, ok := decodeBytes(raw, enc)
		if !ok {
			continue
		}
		for _, delim := range delimiterOrder {
			t, trunc, perr := parseCSV(text, delim, rowCap)
			if perr == nil && len(t.Headers) > 1 {
				return t, trunc, nil
			}
		}
	}

	// last resort: default delimiter under the first encoding that decodes
	for _, enc := range encodingOrder {
		text, ok := decodeBytes(raw, enc)
		if !ok {
			continue
		}
		t, trunc, perr := parseCSV(text, ',', rowCap)
		if perr == nil && len(t.Headers) >= 1 && strings.TrimSpace(t.Headers[0]) != "" {
			return t, trunc, nil
		}
		break
	}
	return models.RawTable{}, false, ErrDecode
}

func decodeBytes(raw []byte, enc string) (string, bool) {
	switch enc {
	case "utf-8":
		if bytes.HasPrefix(raw, utf8BOM) || !utf8.Valid(raw) {
			return "", false
		}
		return string(raw), true
	case "utf-8-bom":
		if !bytes.HasPrefix(raw, utf8BOM) {
			return "", false
		}
		body := bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(body) {
			return "", false
		}
		return string(body), true
	case "latin-1":
		return decodeCharmap(raw, charmap.ISO8859_1)
	case "windows-1252":
		return decodeCharmap(raw, charmap.Windows1252)
	}
	return "", false
}

func decodeCharmap(raw []byte, cm *charmap.Charmap) (string, bool) {
	out, _, err := transform.Bytes(cm.NewDecoder(), raw)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func parseCSV(text string, delim rune, rowCap int) (models.RawTable, bool, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return models.RawTable{}, false, fmt.Errorf("read header: %w", err)
	}
	width := len(header)

	tbl := models.RawTable{Headers: header}
	truncated := false
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.RawTable{}, false, fmt.Errorf("read row: %w", err)
		}
		if emptyRecord(rec) {
			continue
		}
		if len(tbl.Rows) >= rowCap {
			truncated = true
			break
		}
		if len(rec) < width {
			padded := make([]string, width)
			copy(padded, rec)
			rec = padded
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl, truncated, nil
}

func emptyRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
