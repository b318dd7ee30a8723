package engine

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

// DecodeXLSX reads the first sheet of an xlsx workbook into a RawTable. The
// first non-empty row is the header; rowCap bounds the data rows kept, same
// contract as DecodeCSV.
func DecodeXLSX(raw []byte, rowCap int) (models.RawTable, bool, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return models.RawTable{}, false, ErrDecode
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.RawTable{}, false, ErrDecode
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return models.RawTable{}, false, ErrDecode
	}

	var tbl models.RawTable
	truncated := false
	for _, rec := range rows {
		if emptyRecord(rec) {
			continue
		}
		if tbl.Headers == nil {
			tbl.Headers = rec
			continue
		}
		if len(tbl.Rows) >= rowCap {
			truncated = true
			break
		}
		if len(rec) < len(tbl.Headers) {
			padded := make([]string, len(tbl.Headers))
			copy(padded, rec)
			rec = padded
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	if tbl.Headers == nil {
		return models.RawTable{}, false, ErrDecode
	}
	return tbl, truncated, nil
}
