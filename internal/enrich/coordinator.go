// Package enrich fans probes out over a batch of leads.
package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadflowhq/leadflow/internal/leads"
	"github.com/leadflowhq/leadflow/internal/metrics"
	"github.com/leadflowhq/leadflow/internal/probe"
)

// Coordinator enriches batches of leads by probing their websites
// concurrently. Fan-out is capped; a slow or failing site only ever costs its
// own slot, never the batch.
type Coordinator struct {
	newFetcher  func() probe.Fetcher
	probeCfg    probe.Config
	concurrency int
	logger      *zap.Logger
}

// New constructs a Coordinator. newFetcher is invoked once per batch so that
// connection pools live exactly as long as the batch that uses them.
func New(newFetcher func() probe.Fetcher, probeCfg probe.Config, concurrency int, logger *zap.Logger) *Coordinator {
	if concurrency <= 0 {
		concurrency = 16
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		newFetcher:  newFetcher,
		probeCfg:    probeCfg,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Enrich probes every lead's website and fills in email/phone where found.
// The returned slice has the same length and order as the input, and fields
// already populated on a lead are never overwritten. Probe failures degrade
// to absent contacts, so Enrich itself cannot fail mid-batch.
func (c *Coordinator) Enrich(ctx context.Context, batch []leads.Lead) ([]leads.Lead, error) {
	out := make([]leads.Lead, len(batch))
	copy(out, batch)
	if len(batch) == 0 {
		return out, nil
	}

	fetcher := c.newFetcher()
	defer fetcher.Close()
	prober := probe.New(fetcher, c.probeCfg, c.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range out {
		i := i
		g.Go(func() error {
			start := time.Now()
			res := prober.Probe(ctx, out[i].Website)
			metrics.ObserveProbe(string(res.Outcome), time.Since(start))
			if out[i].Email == "" {
				out[i].Email = res.Email
			}
			if out[i].Phone == "" {
				out[i].Phone = res.Phone
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Probes never return errors; this only guards future edits.
		return out, err
	}
	return out, nil
}
