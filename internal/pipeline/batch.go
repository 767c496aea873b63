// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Extracted int
	Cached    int
	Failed    int
	Results   []*Result
	Errors    []error
}

// Total returns the number of documents processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Cached + r.Failed
}

// HasFailures reports whether any document failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// RunBatch runs refs with at most workers documents in flight, printing a
// status line per document to w in input order. Results and Errors are
// indexed like refs. Documents do not share state, so one failure never
// stops the others; a cancelled ctx marks the remaining documents failed.
func (p *Pipeline) RunBatch(ctx context.Context, refs []string, opts RunOptions, workers int, w io.Writer) BatchResult {
	if workers < 1 {
		workers = 1
	}
	out := BatchResult{
		Results: make([]*Result, len(refs)),
		Errors:  make([]error, len(refs)),
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out.Errors[i] = err
				return nil
			}
			out.Results[i], out.Errors[i] = p.Run(ctx, ref, opts)
			return nil
		})
	}
	_ = g.Wait()

	for i, ref := range refs {
		switch res := out.Results[i]; {
		case out.Errors[i] != nil:
			out.Failed++
			fmt.Fprintf(w, "failed:    %s (%v)\n", ref, out.Errors[i])
		case res.FromCache:
			out.Cached++
			fmt.Fprintf(w, "cached:    %s\n", res.Entry.Metadata.DocumentKey)
		default:
			out.Extracted++
			fmt.Fprintf(w, "extracted: %s (%d/%d fields, confidence %.2f)\n",
				res.Entry.Metadata.DocumentKey,
				res.Entry.Metadata.Stats.FilledFields,
				res.Entry.Metadata.Stats.TotalFields,
				res.Entry.Metadata.Stats.Confidence)
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d cached, %d failed (total: %d)\n",
		out.Extracted, out.Cached, out.Failed, out.Total())
	return out
}
