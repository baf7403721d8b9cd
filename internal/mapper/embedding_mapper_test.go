package mapper

import (
	"math"
	"testing"

	"embedding-sync-worker/internal/config"
	"embedding-sync-worker/internal/model"

	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestVectorMapperJSON(t *testing.T) {
	m, err := NewVectorMapper(config.VectorFormatJSON)
	require.NoError(t, err)

	value, err := m.ToColumnValue([]float32{0.5, -1, 0.25})
	require.NoError(t, err)

	raw, ok := value.(datatypes.JSON)
	require.True(t, ok)
	assert.JSONEq(t, `[0.5,-1,0.25]`, string(raw))

	decoded, err := m.FromColumn(raw)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 0.25}, decoded)
}

func TestVectorMapperPgvector(t *testing.T) {
	m, err := NewVectorMapper(config.VectorFormatPgvector)
	require.NoError(t, err)

	value, err := m.ToColumnValue([]float32{1, 2})
	require.NoError(t, err)

	vec, ok := value.(pgvector.Vector)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2}, vec.Slice())

	decoded, err := m.FromColumn(datatypes.JSON("[1,2]"))
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, decoded)
}

func TestVectorMapperRejectsNonFinite(t *testing.T) {
	m, err := NewVectorMapper("")
	require.NoError(t, err)
	assert.Equal(t, config.VectorFormatJSON, m.Format())

	_, err = m.ToColumnValue([]float32{1, float32(math.NaN())})
	assert.ErrorIs(t, err, ErrNonFiniteVector)

	_, err = m.ToColumnValue([]float32{float32(math.Inf(1))})
	assert.ErrorIs(t, err, ErrNonFiniteVector)
}

func TestNewVectorMapperUnknownFormat(t *testing.T) {
	_, err := NewVectorMapper("bson")
	assert.Error(t, err)
}

func TestFromColumnEmpty(t *testing.T) {
	m, _ := NewVectorMapper(config.VectorFormatJSON)
	vector, err := m.FromColumn(nil)
	require.NoError(t, err)
	assert.Nil(t, vector)
}

func TestCandidateMapper(t *testing.T) {
	desc := "desc A"
	rows := []*model.EmbeddingCandidateRow{
		{ProductId: 1, Name: "Widget", Description: &desc, Category: "Tools"},
		{ProductId: 2, Name: "Gadget", Category: "Electronics"},
	}

	entities := NewEmbeddingCandidateMapper().ToEntities(rows)
	require.Len(t, entities, 2)
	assert.Equal(t, "Widget - desc A - Category: Tools", entities[0].EmbeddingText())
	assert.Nil(t, entities[1].Description)
	assert.Nil(t, NewEmbeddingCandidateMapper().ToEntity(nil))
}
