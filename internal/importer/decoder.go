package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "guard-analytics/pkg/errors"
)

// Row - одна строка выгрузки: имя колонки -> значение.
type Row map[string]string

// Get возвращает значение колонки без пробелов по краям; отсутствующая колонка дает "".
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeRows разбирает выгрузку по расширению имени: .xlsx через excelize, все остальное как CSV.
func DecodeRows(name string, data []byte) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return decodeXLSX(data)
	}
	return decodeCSV(data)
}

func decodeCSV(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedExport, err)
		}
		records = append(records, record)
	}
	return toRows(records), nil
}

func decodeXLSX(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedExport, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedExport, err)
	}
	return toRows(records), nil
}

// toRows: первая непустая строка - шапка, полностью пустые строки пропускаются.
func toRows(records [][]string) []Row {
	var header []string
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		if isBlank(record) {
			continue
		}
		if header == nil {
			header = make([]string, len(record))
			for i, col := range record {
				header[i] = strings.TrimSpace(col)
			}
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" || i >= len(record) {
				continue
			}
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
