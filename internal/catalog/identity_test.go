package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grill-labs/aerobot/internal/core/domain"
)

func TestDocumentID_Deterministic(t *testing.T) {
	assert.Equal(t, DocumentID("A1", "Red"), DocumentID("A1", "Red"))
}

func TestDocumentID_ColorCaseInsensitive(t *testing.T) {
	assert.Equal(t, DocumentID("A1", "Red"), DocumentID("A1", "red"),
		"color is lower-cased before hashing")
}

func TestDocumentID_DistinctArticles(t *testing.T) {
	assert.NotEqual(t, DocumentID("A1", "Red"), DocumentID("A2", "Red"))
}

func TestDocumentID_ArticleCaseSensitive(t *testing.T) {
	assert.NotEqual(t, DocumentID("a1", "Red"), DocumentID("A1", "Red"),
		"article is used as-is")
}

func TestDocumentID_IsValidUUID(t *testing.T) {
	id := DocumentID("A1", "Белый")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
}

func TestBuildDocument(t *testing.T) {
	columns := []string{
		domain.ColModel, domain.ColArticle, domain.ColColor,
		domain.ColVolume, domain.ColTENCount,
	}
	row := domain.Row{
		domain.ColModel:    "Гриль-1000",
		domain.ColArticle:  "A1",
		domain.ColColor:    "Белый",
		domain.ColVolume:   "5,5",
		domain.ColTENCount: "2 ТЭНа",
	}

	doc, ok := BuildDocument(columns, row)
	require.True(t, ok)

	assert.Equal(t, DocumentID("A1", "Белый"), doc.ID)
	assert.Contains(t, doc.Text, "Модель: Гриль-1000")
	assert.Equal(t, doc.Text, doc.Payload["text"], "payload carries the rendered text")
	assert.Equal(t, 5.5, doc.Payload["volume"])
	assert.Equal(t, 2, doc.Payload["ten_count"])
	assert.Nil(t, doc.Payload["power"])
	assert.Equal(t, "Гриль-1000", doc.Payload[domain.ColModel])
	assert.Nil(t, doc.Vector, "vector is attached by the pipeline after batch embedding")
}

func TestBuildDocument_SkipsUnidentifiableRows(t *testing.T) {
	_, ok := BuildDocument([]string{domain.ColModel}, domain.Row{domain.ColModel: "Гриль-1000"})
	assert.False(t, ok)
}
