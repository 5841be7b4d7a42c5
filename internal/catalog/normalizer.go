package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

var digitRun = regexp.MustCompile(`\d+`)

// Normalize converts one forward-filled row into a Record. The second
// return value is false when the row must be skipped: without a model
// name and an article it can be neither identified nor rendered.
// Normalisation is permissive: unparseable numeric fields become nil,
// never an error.
func Normalize(columns []string, row domain.Row) (*domain.Record, bool) {
	if strings.TrimSpace(row[domain.ColModel]) == "" ||
		strings.TrimSpace(row[domain.ColArticle]) == "" {
		return nil, false
	}

	fields := make(map[string]any, len(columns))
	for _, col := range columns {
		if strings.TrimSpace(row[col]) == "" {
			fields[col] = nil
			continue
		}
		fields[col] = row[col]
	}

	return &domain.Record{
		Fields:       fields,
		Volume:       parseDecimal(row[domain.ColVolume]),
		TENCount:     firstInt(row[domain.ColTENCount]),
		Power:        firstInt(row[domain.ColPower]),
		ProgramCount: firstInt(row[domain.ColProgramCount]),
	}, true
}

// firstInt extracts the first contiguous digit run from a mixed
// free-text field ("2 шт", "1500Вт"). No digits means the field is
// absent: nil, not zero.
func firstInt(s string) *int {
	m := digitRun.FindString(s)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// parseDecimal parses a decimal litre value accepting both comma and
// dot separators ("1,5" and "1.5" are the same volume).
func parseDecimal(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
