package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"embedding-sync-worker/internal/config"
	"embedding-sync-worker/internal/entity"
	"embedding-sync-worker/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

var ErrNonFiniteVector = errors.New("vector contains NaN or Inf")

type EmbeddingCandidateMapper struct{}

func NewEmbeddingCandidateMapper() *EmbeddingCandidateMapper {
	return &EmbeddingCandidateMapper{}
}

func (m *EmbeddingCandidateMapper) ToEntity(row *model.EmbeddingCandidateRow) *entity.EmbeddingCandidate {
	if row == nil {
		return nil
	}
	return &entity.EmbeddingCandidate{
		ProductId:   row.ProductId,
		Name:        row.Name,
		Description: row.Description,
		Category:    row.Category,
	}
}

func (m *EmbeddingCandidateMapper) ToEntities(rows []*model.EmbeddingCandidateRow) []*entity.EmbeddingCandidate {
	entities := make([]*entity.EmbeddingCandidate, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

// VectorMapper converts encoder output to the value bound to
// products.vector_embedding.
type VectorMapper struct {
	format config.VectorFormat
}

func NewVectorMapper(format config.VectorFormat) (*VectorMapper, error) {
	switch format {
	case config.VectorFormatJSON, config.VectorFormatPgvector:
	case "":
		format = config.VectorFormatJSON
	default:
		return nil, fmt.Errorf("unknown vector storage format %q", format)
	}
	return &VectorMapper{format: format}, nil
}

func (m *VectorMapper) Format() config.VectorFormat {
	return m.format
}

func (m *VectorMapper) ToColumnValue(vector []float32) (interface{}, error) {
	for i, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w at index %d", ErrNonFiniteVector, i)
		}
	}

	if m.format == config.VectorFormatPgvector {
		return pgvector.NewVector(vector), nil
	}

	raw, err := json.Marshal(vector)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// FromColumn decodes a stored embedding. Both formats are JSON arrays on the
// wire, pgvector's text form being "[1,2,3]".
func (m *VectorMapper) FromColumn(raw datatypes.JSON) ([]float32, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var vector []float32
	if err := json.Unmarshal(raw, &vector); err != nil {
		return nil, err
	}
	return vector, nil
}
