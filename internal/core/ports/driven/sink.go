package driven

import (
	"context"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
)

// Sink persists the output of one result record.
type Sink interface {
	Write(ctx context.Context, rec domain.ResultRecord) error
}

// SinkFactory creates a Sink rooted at an output directory.
type SinkFactory interface {
	NewSink(outputDirectory string) (Sink, error)
}
