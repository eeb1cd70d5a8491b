package storage

import (
	"context"

	"xcmScope/internal/model"
)

// Storage defines a sink for decoded transfer batches. A batch is written as
// a unit: accounts first, then the transfers that reference them.
type Storage interface {
	PutTransferBatch(ctx context.Context, batch model.TransferBatch) error
}

// FailureSink receives the decode failures of a batch.
type FailureSink interface {
	PutFailures(ctx context.Context, failures []model.DecodeFailure) error
}
