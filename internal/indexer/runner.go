package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"xcmScope/internal/account"
	"xcmScope/internal/metrics"
	"xcmScope/internal/model"
	"xcmScope/internal/storage"
	"xcmScope/internal/transfer"
)

// RunConfig holds runtime settings for the indexer.
type RunConfig struct {
	FromBlock    uint64
	ToBlock      uint64
	BatchSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	SinkName     string
}

// HeadReader reports the finalized chain height.
type HeadReader interface {
	FinalizedHeight(ctx context.Context) (uint64, error)
}

// Runner reads block batches, decodes their transfers and writes them to a
// sink, checkpointing after every persisted batch.
type Runner struct {
	cfg       RunConfig
	source    BlockSource
	extractor *transfer.Extractor
	storage   storage.Storage
	failures  storage.FailureSink
	state     StateStore
	head      HeadReader
	logger    *zap.Logger
}

// Option configures optional Runner collaborators.
type Option func(*Runner)

func WithFailureSink(sink storage.FailureSink) Option {
	return func(r *Runner) { r.failures = sink }
}

func WithStateStore(state StateStore) Option {
	return func(r *Runner) { r.state = state }
}

func WithHeadReader(head HeadReader) Option {
	return func(r *Runner) { r.head = head }
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, source BlockSource, extractor *transfer.Extractor, storageSink storage.Storage, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SinkName == "" {
		cfg.SinkName = "sink"
	}
	r := &Runner{
		cfg:       cfg,
		source:    source,
		extractor: extractor,
		storage:   storageSink,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats summarizes a run.
type Stats struct {
	Batches   int
	Blocks    int
	Transfers int
	Failures  int
	Skipped   int
	LastBlock uint64
}

// Run executes the indexing loop until the source is drained, the range end
// is reached or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	if r.source == nil {
		return stats, fmt.Errorf("block source is nil")
	}
	if r.extractor == nil {
		return stats, fmt.Errorf("extractor is nil")
	}
	if r.storage == nil {
		return stats, fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize <= 0 {
		return stats, fmt.Errorf("batch size must be greater than zero")
	}

	window, err := r.window(ctx)
	if err != nil {
		return stats, err
	}
	if window.To != 0 && window.From > window.To {
		r.logger.Info("nothing to sync", zap.Uint64("from", window.From), zap.Uint64("to", window.To))
		return stats, nil
	}

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		blocks, err := r.source.Next(ctx, r.cfg.BatchSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read blocks: %w", err)
		}

		blocks, past := Clip(blocks, window)
		if len(blocks) > 0 {
			if err := r.processBatch(ctx, blocks, &stats); err != nil {
				return stats, err
			}
		}
		if past {
			break
		}
	}

	r.logger.Info("sync complete",
		zap.Int("batches", stats.Batches),
		zap.Int("blocks", stats.Blocks),
		zap.Int("transfers", stats.Transfers),
		zap.Int("failures", stats.Failures),
		zap.Int("skipped", stats.Skipped),
		zap.Uint64("last_block", stats.LastBlock),
	)
	return stats, nil
}

// window resolves the block range to sync from config, checkpoint and the
// finalized head.
func (r *Runner) window(ctx context.Context) (BlockRange, error) {
	window := BlockRange{From: r.cfg.FromBlock, To: r.cfg.ToBlock}

	if r.state != nil {
		last, ok, err := r.state.Load(ctx)
		if err != nil {
			return BlockRange{}, fmt.Errorf("load checkpoint: %w", err)
		}
		if ok && last >= window.From {
			window.From = last + 1
			r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", last), zap.Uint64("from", window.From))
		}
	}

	if r.head != nil {
		var finalized uint64
		err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, func(ctx context.Context) error {
			var err error
			finalized, err = r.head.FinalizedHeight(ctx)
			return err
		}, func(attempt int, err error) {
			r.logger.Warn("finalized head fetch failed", zap.Error(err), zap.Int("attempt", attempt))
		})
		if err != nil {
			return BlockRange{}, fmt.Errorf("finalized height: %w", err)
		}
		metrics.FinalizedHeight.Set(float64(finalized))
		if window.To == 0 || window.To > finalized {
			window.To = finalized
		}
	}

	return window, nil
}

func (r *Runner) processBatch(ctx context.Context, blocks []model.Block, stats *Stats) error {
	span, err := SpanOf(blocks)
	if err != nil {
		return err
	}

	started := time.Now()
	result, err := r.extractor.ExtractConcurrent(ctx, blocks, r.cfg.Workers)
	if err != nil {
		return fmt.Errorf("extract blocks %d-%d: %w", span.From, span.To, err)
	}
	metrics.BatchExtractDuration.Observe(time.Since(started).Seconds())

	batch := model.TransferBatch{
		FromHeight: span.From,
		ToHeight:   span.To,
		Accounts:   account.Collect(result.Transfers),
		Transfers:  result.Transfers,
	}

	if err := r.write(ctx, r.cfg.SinkName, func(ctx context.Context) error {
		return r.storage.PutTransferBatch(ctx, batch)
	}); err != nil {
		return fmt.Errorf("store transfers %d-%d: %w", span.From, span.To, err)
	}

	if r.failures != nil && len(result.Failures) > 0 {
		if err := r.write(ctx, "failures", func(ctx context.Context) error {
			return r.failures.PutFailures(ctx, result.Failures)
		}); err != nil {
			return fmt.Errorf("store failures %d-%d: %w", span.From, span.To, err)
		}
	}

	if r.state != nil {
		if err := r.state.Save(ctx, span.To); err != nil {
			return fmt.Errorf("save checkpoint: %w", err)
		}
	}

	recordBatch(blocks, batch, result)
	stats.Batches++
	stats.Blocks += len(blocks)
	stats.Transfers += len(result.Transfers)
	stats.Failures += len(result.Failures)
	stats.Skipped += result.Skipped
	stats.LastBlock = span.To

	r.logger.Info("batch complete",
		zap.Uint64("from", span.From),
		zap.Uint64("to", span.To),
		zap.Int("transfers", len(result.Transfers)),
		zap.Int("accounts", len(batch.Accounts)),
		zap.Int("failures", len(result.Failures)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (r *Runner) write(ctx context.Context, sink string, fn func(context.Context) error) error {
	started := time.Now()
	err := withRetry(ctx, r.cfg.MaxRetries, r.cfg.RetryBackoff, fn, func(attempt int, err error) {
		metrics.SinkRetries.WithLabelValues(sink).Inc()
		r.logger.Warn("sink write failed", zap.String("sink", sink), zap.Error(err), zap.Int("attempt", attempt))
	})
	metrics.SinkWriteDuration.WithLabelValues(sink).Observe(time.Since(started).Seconds())
	return err
}

func recordBatch(blocks []model.Block, batch model.TransferBatch, result transfer.Result) {
	metrics.BlocksProcessed.Add(float64(len(blocks)))
	metrics.ExtrinsicsSkipped.Add(float64(result.Skipped))
	metrics.AccountsReferenced.Add(float64(len(batch.Accounts)))
	for _, failure := range result.Failures {
		metrics.DecodeFailures.WithLabelValues(failure.Kind).Inc()
	}
	metrics.CurrentHeight.Set(float64(batch.ToHeight))
	calls := transferCalls(blocks)
	for _, t := range result.Transfers {
		metrics.TransfersDecoded.WithLabelValues(calls[t.ID]).Inc()
	}
}

// transferCalls maps extrinsic record ids to call names.
func transferCalls(blocks []model.Block) map[string]string {
	out := make(map[string]string)
	for _, block := range blocks {
		for _, ext := range block.Extrinsics {
			out[ext.RecordID(block.Height)] = ext.Call.Name
		}
	}
	return out
}
