package driven

import (
	"context"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
)

// Transformer converts one input record into a result record.
// Errors are fatal to the run they occur in.
type Transformer func(ctx context.Context, in domain.InputRecord) (domain.ResultRecord, error)

// PassthroughTransformer is the default Transformer. It never fails.
func PassthroughTransformer(_ context.Context, in domain.InputRecord) (domain.ResultRecord, error) {
	return domain.Passthrough(in), nil
}
