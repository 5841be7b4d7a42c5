// Package domain holds the core types of the catalog assistant.
package domain

import "time"

// Column names of the source catalog spreadsheet. The Russian labels
// are the data contract with the export files and with the rendered
// document template, so they are fixed here rather than configured.
const (
	ColModel           = "Название модели"
	ColArticle         = "Артикул"
	ColColor           = "Цвет"
	ColConstruction    = "Тип конструкции"
	ColVolume          = "Объем, л"
	ColTENCount        = "Кол-во ТЭНов"
	ColPower           = "Мощность, Вт"
	ColProgramCount    = "Кол-во программ"
	ColProgramList     = "Список программ"
	ColFeatures        = "Особенности"
	ColAccessories     = "Комплектация"
	ColPhoto           = "Фото"
	ColBodyMaterial    = "Материал корпуса"
	ColBowlCoating     = "Покрытие чаши"
	ColGrateCoating    = "Покрытие решетки"
	ColTemperature     = "Температура"
	ColTime            = "Время"
	ColAccessoryCompat = "Совместимость с акскессуарами"
	ColCapacityExample = "Пример вместимости"
)

// FillColumns lists the columns whose empty cells inherit the nearest
// preceding non-empty value. The export uses merged-cell grouping, so
// a blank cell in these columns means "same as the row above".
var FillColumns = []string{
	ColConstruction, ColModel, ColArticle, ColColor, ColPhoto,
	ColVolume, ColTENCount, ColProgramCount, ColProgramList,
	ColPower, ColBodyMaterial, ColBowlCoating, ColGrateCoating,
	ColTemperature, ColTime, ColFeatures, ColAccessories,
	ColAccessoryCompat, ColCapacityExample,
}

// Row is one spreadsheet row keyed by column name. A missing key and
// an empty string both mean "no value".
type Row map[string]string

// Table is a parsed catalog file: the column order as it appeared in
// the file plus the data rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// Record is a normalised catalog row. Fields carries every original
// column post forward-fill with nil for absent cells; the typed fields
// are parsed once here so nothing downstream re-checks sentinels.
type Record struct {
	Fields map[string]any

	Volume       *float64
	TENCount     *int
	Power        *int
	ProgramCount *int
}

// Document is one indexable unit: the rendered text that gets embedded,
// its deterministic ID and the self-contained search payload.
type Document struct {
	ID      string
	Text    string
	Vector  []float32
	Payload map[string]any
}

// SearchResult is one thresholded nearest-neighbour hit.
type SearchResult struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Answer is the outcome of one retrieval-augmented query: the model's
// text, the hits it was grounded on and the exact context string used,
// kept for auditing.
type Answer struct {
	Text    string
	Sources []SearchResult
	Context string
}

// IngestRun records one ingestion for the admin history log.
type IngestRun struct {
	ID         string
	File       string
	Documents  int
	Skipped    int
	Recreate   bool
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}
