package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/shipstage/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is not supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrSchema marks file-level contract violations. Nothing is staged
	// when a parse fails with this error.
	ErrSchema = errors.New("import file schema error")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// columnContract maps canonical field names to the keyword alternatives a
// header must contain. Each entry is a list of keyword sets; a header
// matching every keyword of any one set satisfies the column. Columns are
// matched in declaration order and each header is consumed by at most one
// column, which keeps the lenient matching deterministic.
type columnContract struct {
	field    string
	keywords [][]string
	required bool
}

var contract = []columnContract{
	{domain.FieldGBLNumber, [][]string{{"gbl"}}, true},
	{domain.FieldShipperLastName, [][]string{{"shipper"}, {"last", "name"}}, true},
	{domain.FieldOriginRateArea, [][]string{{"origin", "rate"}, {"origin", "area"}}, true},
	{domain.FieldDestinationRateArea, [][]string{{"destination", "rate"}, {"destination", "area"}, {"dest", "rate"}, {"dest", "area"}}, true},
	{domain.FieldPickupDate, [][]string{{"pickup"}}, true},
	{domain.FieldRequiredDelivery, [][]string{{"rdd"}, {"required", "delivery"}, {"delivery", "date"}}, true},
	{domain.FieldOriginPort, [][]string{{"poe"}, {"origin", "port"}}, true},
	{domain.FieldDestinationPort, [][]string{{"pod"}, {"destination", "port"}, {"dest", "port"}}, true},
	{domain.FieldCarrier, [][]string{{"scac"}, {"carrier"}}, true},
	{domain.FieldEstimatedCube, [][]string{{"estimated", "cube"}, {"est", "cube"}}, false},
	{domain.FieldActualCube, [][]string{{"actual", "cube"}, {"act", "cube"}}, false},
	{domain.FieldEstimatedPieces, [][]string{{"estimated", "piece"}, {"est", "piece"}}, false},
	{domain.FieldActualPieces, [][]string{{"actual", "piece"}, {"act", "piece"}}, false},
	// Matched last so the bare "type" keyword cannot steal a more
	// specific header from the columns above.
	{domain.FieldShipmentType, [][]string{{"shipment", "type"}, {"type"}}, true},
}

// Row is one parsed data row keyed by canonical field name. Every
// required field is present, defaulted to empty string when the cell was
// absent. DuplicateKey is set when the business key repeats an earlier
// row in the same file; such rows are surfaced, never dropped, because
// the reviewer decides how to resolve them.
type Row struct {
	RowNumber    int
	Values       map[string]string
	DuplicateKey bool
}

// File is the ordered result of parsing one import file.
type File struct {
	Rows []Row
}

// Parse turns raw file bytes into ordered canonical rows. CSV and xlsx
// are supported, selected by file extension. A missing required column or
// an empty data set fails with ErrSchema before anything is staged.
func Parse(fileName string, payload []byte) (File, error) {
	records, err := readTable(fileName, payload)
	if err != nil {
		return File{}, err
	}
	if len(records) == 0 {
		return File{}, fmt.Errorf("%w: file is empty", ErrSchema)
	}

	header := records[0]
	columns, err := matchColumns(header)
	if err != nil {
		return File{}, err
	}

	var rows []Row
	seen := map[string]bool{}
	for idx, record := range records[1:] {
		if isEmptyRow(record) {
			continue
		}

		values := make(map[string]string, len(contract))
		for _, column := range contract {
			values[column.field] = ""
		}
		for field, colIdx := range columns {
			if colIdx < len(record) {
				values[field] = strings.TrimSpace(record[colIdx])
			}
		}

		row := Row{
			// 1-based position in the file, counting the header.
			RowNumber: idx + 2,
			Values:    values,
		}

		key := strings.ToUpper(values[domain.FieldGBLNumber])
		if key != "" {
			if seen[key] {
				row.DuplicateKey = true
			}
			seen[key] = true
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return File{}, fmt.Errorf("%w: no data rows found", ErrSchema)
	}

	return File{Rows: rows}, nil
}

func readTable(fileName string, payload []byte) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv", ".txt":
		return readCSV(payload)
	case ".xlsx":
		return readExcel(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func readCSV(payload []byte) ([][]string, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return records, nil
}

func readExcel(payload []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: excel file has no sheets", ErrSchema)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	return rows, nil
}

// matchColumns assigns header positions to canonical fields. Returns
// ErrSchema naming every required column the header fails to provide.
func matchColumns(header []string) (map[string]int, error) {
	normalized := make([]string, len(header))
	for i, value := range header {
		normalized[i] = normalizeHeader(value)
	}

	columns := make(map[string]int, len(contract))
	consumed := make([]bool, len(header))
	var missing []string

	for _, column := range contract {
		idx := findHeader(normalized, consumed, column.keywords)
		if idx < 0 {
			if column.required {
				missing = append(missing, column.field)
			}
			continue
		}
		consumed[idx] = true
		columns[column.field] = idx
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrSchema, strings.Join(missing, ", "))
	}
	return columns, nil
}

func findHeader(headers []string, consumed []bool, keywordSets [][]string) int {
	for _, keywords := range keywordSets {
		for idx, header := range headers {
			if consumed[idx] || header == "" {
				continue
			}
			if containsAll(header, keywords) {
				return idx
			}
		}
	}
	return -1
}

func containsAll(header string, keywords []string) bool {
	for _, keyword := range keywords {
		if !strings.Contains(header, keyword) {
			return false
		}
	}
	return true
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.ReplaceAll(value, " ", "_")
	value = strings.ReplaceAll(value, ".", "_")
	value = strings.ReplaceAll(value, "-", "_")
	return strings.Trim(value, "_")
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
