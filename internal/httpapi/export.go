package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rcandelu/adant/internal/pipeline"
)

// handleExport serves the current selection as an xlsx workbook. It accepts
// the same date/start/end parameters as the base route.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	start, end := q.Get("start"), q.Get("end")

	filter := func(events []gjson.Result) []gjson.Result { return events }
	switch {
	case date != "":
		win, err := pipeline.ExactDay(date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidDate})
			return
		}
		filter = s.windowFilter(win)
	case start != "" || end != "":
		win, err := pipeline.Range(start, end, time.Now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: msgInvalidRange})
			return
		}
		filter = s.windowFilter(win)
	}

	records, err := s.enriched(r, filter)
	if err != nil {
		s.respondError(w, err)
		return
	}

	schema := s.pipe.Schema()
	book, err := buildWorkbook(schema.Name, schema.Columns, records)
	if err != nil {
		s.logger.Error("xlsx export failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "export failed"})
		return
	}

	filename := fmt.Sprintf("%s_events_%s.xlsx", schema.Name, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(book)
}

// buildWorkbook renders the enriched records into one sheet, columns in
// schema order, header row bold.
func buildWorkbook(sheetName string, columns []string, records []json.RawMessage) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for row, rec := range records {
		parsed := gjson.ParseBytes(rec)
		for col, name := range columns {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, parsed.Get(name).Value()); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
