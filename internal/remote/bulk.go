package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/odensebartech/dashboard/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// DeleteMany issues one delete per id concurrently and returns only after all of
// them settled. The batch succeeds only if every single delete succeeded; the
// returned error combines all failures.
func (c *Client) DeleteMany(
	ctx context.Context,
	kind string,
	ids []int,
	deleteFunc func(ctx context.Context, id int) error,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "remote.deleteMany")
	span.SetAttributes(
		attribute.String("delete.kind", kind),
		attribute.Int("delete.count", len(ids)),
	)
	defer func() {
		tracing.EndSpan(span, err)
	}()

	if len(ids) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		errs error
		wg   sync.WaitGroup
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if delErr := deleteFunc(ctx, id); delErr != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("delete %s %d: %w", kind, id, delErr))
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	result := "ok"
	if errs != nil {
		result = "failed"
		log.Errorf("bulk delete %s: %d of %d failed: %s", kind, len(multierr.Errors(errs)), len(ids), errs)
	}
	if c.metricsManager != nil {
		c.metricsManager.CounterBulkDeletes.WithLabelValues(kind, result).Inc()
	}

	return errs
}
