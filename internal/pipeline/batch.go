package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/profile-picture-extractor/internal/catalog"
)

// Run fetches every record from cat and processes them.
//
// Records are processed by up to Config.Workers goroutines; each record is
// handled by exactly one worker and owns its page buffers. The returned batch
// holds one result per record in catalog order. Cancelling ctx does not
// abort the batch: records not yet started fail with the context error.
func (x *Extractor) Run(ctx context.Context, cat catalog.Catalog) (*Batch, error) {
	start := time.Now()
	x.log.Info().Msg("starting profile picture extraction")

	records, err := cat.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	x.log.Info().Int("records", len(records)).Int("workers", x.cfg.Workers).Msg("records loaded")

	batch := &Batch{Results: make([]Result, len(records))}

	var (
		mu   sync.Mutex
		done int
	)

	// Workers never return errors; failures are recorded per result.
	var g errgroup.Group
	g.SetLimit(x.cfg.Workers)
	for i, rec := range records {
		g.Go(func() error {
			r := x.ProcessRecord(ctx, rec)
			batch.Results[i] = r

			mu.Lock()
			done++
			n := done
			if x.cfg.Progress != nil {
				x.cfg.Progress(n, len(records), r)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range batch.Results {
		if r.Success {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
	}
	batch.Duration = time.Since(start)

	x.log.Info().
		Int("succeeded", batch.Succeeded).
		Int("failed", batch.Failed).
		Dur("duration", batch.Duration).
		Msg("extraction finished")
	return batch, nil
}
