package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

// DocumentID derives the deterministic document identifier from the
// dedup key (article, color): a version-3 UUID, i.e. the 128-bit MD5
// digest of "{article}_{color}" under a fixed namespace. Color is
// lower-cased first so "Red" and "red" map to the same product;
// the article is used as-is. Stable across restarts and
// implementations, and a valid vector-store point ID.
//
// Two rows with the same article and color collapsing to one document
// is the intended upsert semantics, not a collision bug.
func DocumentID(article, color string) string {
	name := article + "_" + strings.ToLower(color)
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(name)).String()
}

// BuildDocument normalises, renders and identifies one forward-filled
// row. The vector is attached later by the ingestion pipeline, after
// batch embedding. Returns false for rows that must be dropped.
func BuildDocument(columns []string, row domain.Row) (domain.Document, bool) {
	rec, ok := Normalize(columns, row)
	if !ok {
		return domain.Document{}, false
	}

	text := Render(row)

	payload := make(map[string]any, len(rec.Fields)+5)
	for k, v := range rec.Fields {
		payload[k] = v
	}
	payload["volume"] = optFloat(rec.Volume)
	payload["ten_count"] = optInt(rec.TENCount)
	payload["power"] = optInt(rec.Power)
	payload["programs_count"] = optInt(rec.ProgramCount)
	payload["text"] = text

	return domain.Document{
		ID:      DocumentID(row[domain.ColArticle], row[domain.ColColor]),
		Text:    text,
		Payload: payload,
	}, true
}

// optFloat and optInt store absent values as plain nil in the payload.
func optFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func optInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
