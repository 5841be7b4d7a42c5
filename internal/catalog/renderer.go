package catalog

import (
	"fmt"
	"strings"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

// Render produces the text block that gets embedded and later shown as
// grounding context. The field order and wording are a stable contract:
// changing them shifts the embedding space for every stored document,
// so any edit here requires a full re-ingestion. Missing fields render
// as an empty value after the label; the labels always stay.
func Render(row domain.Row) string {
	text := fmt.Sprintf(`Модель: %s
Артикул: %s
Тип конструкции: %s
Объем: %s л
Кол-во ТЭНов: %s
Мощность: %s Вт
Кол-во программ: %s
Список программ: %s
Особенности: %s
Комплектация: %s`,
		row[domain.ColModel],
		row[domain.ColArticle],
		row[domain.ColConstruction],
		row[domain.ColVolume],
		row[domain.ColTENCount],
		row[domain.ColPower],
		row[domain.ColProgramCount],
		row[domain.ColProgramList],
		row[domain.ColFeatures],
		row[domain.ColAccessories],
	)
	return strings.TrimSpace(text)
}
