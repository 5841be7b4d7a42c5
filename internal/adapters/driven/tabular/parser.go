// Package tabular parses catalog export files into tables.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/grill-labs/aerobot/internal/core/domain"
	"github.com/grill-labs/aerobot/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.CatalogParser = (*Parser)(nil)

// Parser reads catalog exports. The first row of the file is taken as
// the header; every following row becomes a Row keyed by those headers.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new catalog file parser.
func NewParser(log *zap.Logger) *Parser {
	return &Parser{log: log}
}

// Parse dispatches on the file extension. Only .xlsx and .csv are
// supported; legacy .xls files must be re-exported first.
func (p *Parser) Parse(ctx context.Context, path string) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return p.parseXLSX(path)
	case ".csv":
		return p.parseCSV(path)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func (p *Parser) parseXLSX(path string) (*domain.Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return p.buildTable(path, rows), nil
}

func (p *Parser) parseCSV(path string) (*domain.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}

	return p.buildTable(path, records), nil
}

// buildTable converts raw rows to a keyed table. Rows shorter than the
// header leave the trailing cells absent; extra cells are dropped.
func (p *Parser) buildTable(path string, raw [][]string) *domain.Table {
	table := &domain.Table{}
	if len(raw) == 0 {
		p.log.Warn("catalog file is empty", zap.String("file", path))
		return table
	}

	table.Columns = make([]string, len(raw[0]))
	for i, header := range raw[0] {
		table.Columns[i] = strings.TrimSpace(header)
	}

	table.Rows = make([]domain.Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(domain.Row, len(table.Columns))
		for i, column := range table.Columns {
			if column == "" {
				continue
			}
			if i < len(cells) {
				row[column] = cells[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}

	p.log.Debug("catalog file parsed",
		zap.String("file", path),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", len(table.Rows)))
	return table
}
