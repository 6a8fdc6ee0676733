package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"sqlgen/internal/domain"
)

// DefaultBatchConcurrency bounds Batch when no limit is given.
const DefaultBatchConcurrency = 4

// BatchResult is the outcome for one row of a batch. Exactly one of
// Statement and Error is set.
type BatchResult struct {
	Index     int                        `json:"index"`
	Statement *domain.GeneratedStatement `json:"statement,omitempty"`
	Error     string                     `json:"error,omitempty"`
	Missing   []string                   `json:"missing,omitempty"`
}

// OK reports whether the row produced a valid statement.
func (r BatchResult) OK() bool {
	return r.Statement != nil && r.Statement.Valid
}

// Batch runs Insert for every request with at most limit in flight.
// Results are returned in input order; a failing row does not stop the
// others. The error is non-nil only when ctx is cancelled.
func (g *Generator) Batch(ctx context.Context, reqs []InsertRequest, limit int) ([]BatchResult, error) {
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}
	results := make([]BatchResult, len(reqs))
	batchID := domain.NewID()

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(limit)

	for i := range reqs {
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = g.batchRow(gctx, i, reqs[i])
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return results, fmt.Errorf("batch: %w", err)
	}

	ok := 0
	for _, r := range results {
		if r.OK() {
			ok++
		}
	}
	g.logger.InfoContext(ctx, "batch generated", "batch_id", batchID, "rows", len(reqs), "valid", ok, "concurrency", limit)
	return results, nil
}

func (g *Generator) batchRow(ctx context.Context, i int, req InsertRequest) BatchResult {
	st, err := g.Insert(ctx, req)
	if err == nil {
		return BatchResult{Index: i, Statement: st}
	}
	res := BatchResult{Index: i, Error: err.Error()}
	var missing *domain.MandatoryFieldMissingError
	if errors.As(err, &missing) {
		res.Missing = missing.Columns
	}
	return res
}
