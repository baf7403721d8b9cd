package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"embedding-sync-worker/internal/entity"
	"embedding-sync-worker/internal/mapper"
	"embedding-sync-worker/internal/pkg/logger"
	"embedding-sync-worker/internal/repository/unitofwork"
	"embedding-sync-worker/pkg/embedding"
	"embedding-sync-worker/pkg/events"
	"embedding-sync-worker/pkg/metrics"

	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	// ErrDatabase marks failures reading or writing the catalog.
	ErrDatabase = errors.New("database error")
	// ErrEncoding marks failures of the encoder or of its output.
	ErrEncoding            = errors.New("encoding error")
	ErrVectorCountMismatch = errors.New("encoder returned a different number of vectors than inputs")
	ErrNonFiniteVector     = mapper.ErrNonFiniteVector
)

type SyncResult struct {
	RunId      string
	Mode       string
	ProductIds []int64
	Duration   time.Duration
}

func (r *SyncResult) Count() int {
	if r == nil {
		return 0
	}
	return len(r.ProductIds)
}

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IEmbeddingSyncService interface {
	// SyncBatch pulls one batch from source, embeds it with a single encoder
	// call and writes every vector plus the source's completion inside one
	// transaction. An empty batch returns a zero result and changes nothing.
	SyncBatch(ctx context.Context, source RowSource) (*SyncResult, error)
}

type embeddingSyncService struct {
	uowFactory   unitofwork.RepositoryFactory
	provider     embedding.EmbeddingProvider
	vectorMapper *mapper.VectorMapper
	publisher    EventPublisher
	logger       logger.ILogger
	runId        string
}

// NewEmbeddingSyncService wires the sync primitive. publisher may be nil.
func NewEmbeddingSyncService(
	uowFactory unitofwork.RepositoryFactory,
	provider embedding.EmbeddingProvider,
	vectorMapper *mapper.VectorMapper,
	publisher EventPublisher,
	log logger.ILogger,
	runId string,
) IEmbeddingSyncService {
	return &embeddingSyncService{
		uowFactory:   uowFactory,
		provider:     provider,
		vectorMapper: vectorMapper,
		publisher:    publisher,
		logger:       log,
		runId:        runId,
	}
}

func (s *embeddingSyncService) SyncBatch(ctx context.Context, source RowSource) (*SyncResult, error) {
	mode := source.Mode()
	ctx, span := otel.Tracer("embedding-sync-worker/service").Start(ctx, "SyncBatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("sync.mode", mode),
		attribute.String("sync.run_id", s.runId),
		attribute.String("embedding.provider", s.provider.Name()),
		attribute.String("embedding.vector_format", string(s.vectorMapper.Format())),
	)

	started := time.Now()
	result, err := s.syncBatch(ctx, source)
	if err != nil {
		metrics.FailedBatchesTotal.WithLabelValues(mode).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("EMBEDDING_SYNC", "Batch rolled back", errorDetails(err, map[string]interface{}{
			"mode":   mode,
			"run_id": s.runId,
		}))
		return nil, err
	}

	result.Duration = time.Since(started)
	span.SetAttributes(attribute.Int("sync.count", result.Count()))
	if result.Count() == 0 {
		return result, nil
	}

	metrics.BatchesTotal.WithLabelValues(mode).Inc()
	metrics.ProductsSyncedTotal.WithLabelValues(mode).Add(float64(result.Count()))
	metrics.BatchDuration.WithLabelValues(mode).Observe(result.Duration.Seconds())

	s.logger.Info("EMBEDDING_SYNC", "Batch committed", map[string]interface{}{
		"mode":        mode,
		"run_id":      s.runId,
		"count":       result.Count(),
		"duration_ms": result.Duration.Milliseconds(),
	})

	s.publishSynced(ctx, result)
	return result, nil
}

func (s *embeddingSyncService) syncBatch(ctx context.Context, source RowSource) (*SyncResult, error) {
	result := &SyncResult{RunId: s.runId, Mode: source.Mode()}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %w", ErrDatabase, err)
	}
	defer uow.Rollback()

	candidates, err := source.Next(ctx, uow)
	if err != nil {
		return nil, fmt.Errorf("%w: load candidates: %w", ErrDatabase, err)
	}
	if len(candidates) == 0 {
		return result, nil
	}

	values, err := s.encode(ctx, candidates)
	if err != nil {
		return nil, err
	}

	productRepo := uow.ProductRepository()
	for i, c := range candidates {
		if err := productRepo.UpdateEmbedding(ctx, c.ProductId, values[i]); err != nil {
			return nil, fmt.Errorf("%w: update embedding of product %d: %w", ErrDatabase, c.ProductId, err)
		}
	}

	if err := source.Complete(ctx, uow, candidates); err != nil {
		return nil, fmt.Errorf("%w: complete batch: %w", ErrDatabase, err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", ErrDatabase, err)
	}

	result.ProductIds = entity.ProductIds(candidates)
	return result, nil
}

// encode runs the encoder once for the whole batch and converts each vector
// to its column value.
func (s *embeddingSyncService) encode(ctx context.Context, candidates []*entity.EmbeddingCandidate) ([]interface{}, error) {
	texts := entity.EmbeddingTexts(candidates)

	vectors, err := s.provider.GenerateBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncoding, s.provider.Name(), err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %w (%d vectors, %d inputs)", ErrEncoding, ErrVectorCountMismatch, len(vectors), len(texts))
	}

	values := make([]interface{}, len(vectors))
	for i, v := range vectors {
		value, err := s.vectorMapper.ToColumnValue(v)
		if err != nil {
			return nil, fmt.Errorf("%w: product %d: %w", ErrEncoding, candidates[i].ProductId, err)
		}
		values[i] = value
	}
	return values, nil
}

func (s *embeddingSyncService) publishSynced(ctx context.Context, result *SyncResult) {
	if s.publisher == nil {
		return
	}
	event := events.NewEmbeddingsSyncedEvent(result.RunId, result.Mode, result.ProductIds, s.provider.Name())
	if err := s.publisher.Publish(ctx, event); err != nil {
		// the batch is already committed; the event is best effort
		s.logger.Warn("EMBEDDING_SYNC", "Failed to publish sync event", map[string]interface{}{
			"error":  err.Error(),
			"run_id": result.RunId,
		})
	}
}

// errorDetails adds Postgres diagnostics to log details when err carries them.
func errorDetails(err error, details map[string]interface{}) map[string]interface{} {
	details["error"] = err.Error()
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		details["sqlstate"] = pgErr.Code
		details["pg_message"] = pgErr.Message
		if pgErr.TableName != "" {
			details["pg_table"] = pgErr.TableName
		}
		if pgErr.ConstraintName != "" {
			details["pg_constraint"] = pgErr.ConstraintName
		}
	}
	return details
}
