// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyzer runs AI analysis over a thesis. Per-section tasks and
// whole-document tasks run in two bounded pools, one after the other; each
// task has its own deadline and a failed task never affects its siblings.
// Results are merged into the record in task order, so the output does not
// depend on which call finished first.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/llm"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/respparse"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

// ErrUnparseable is recorded when no parsing tier recovered any field.
var ErrUnparseable = errors.New("response could not be parsed")

// TaskResult is the outcome of one task. Outcome is Empty whenever Err is set.
type TaskResult struct {
	Task    Task
	Outcome respparse.Outcome
	Err     error
	Elapsed time.Duration
}

// Analyzer dispatches tasks to a language model client.
type Analyzer struct {
	client llm.Client
	cfg    types.ExtractionConfig
	parser *respparse.Parser
	log    zerolog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) { a.log = l }
}

// WithParser replaces the default response parser.
func WithParser(p *respparse.Parser) Option {
	return func(a *Analyzer) { a.parser = p }
}

// New returns an Analyzer that sends prompts through client.
func New(client llm.Client, cfg types.ExtractionConfig, opts ...Option) *Analyzer {
	a := &Analyzer{
		client: client,
		cfg:    cfg.WithDefaults(),
		parser: respparse.New(),
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze plans and runs every task for in. The returned slice is indexed
// by Task.Index. If ctx is cancelled the results are discarded and
// ctx.Err() is returned.
func (a *Analyzer) Analyze(ctx context.Context, in Input) ([]TaskResult, error) {
	tasks := Plan(in, a.cfg)
	results := make([]TaskResult, len(tasks))

	var section, global []Task
	for _, t := range tasks {
		if t.Mode == ModeGlobal {
			global = append(global, t)
		} else {
			section = append(section, t)
		}
	}
	a.log.Info().Int("section_tasks", len(section)).Int("global_tasks", len(global)).Msg("starting AI analysis")

	a.runPool(ctx, section, a.cfg.SectionWorkers, a.cfg.SectionTimeout, results)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.runPool(ctx, global, a.cfg.GlobalWorkers, a.cfg.GlobalTimeout, results)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// runPool runs tasks with at most workers in flight and stores each
// result at its task index. Tasks never return errors to the group, so
// one failure does not cancel the others.
func (a *Analyzer) runPool(ctx context.Context, tasks []Task, workers int, timeout time.Duration, results []TaskResult) {
	if len(tasks) == 0 {
		return
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range tasks {
		g.Go(func() error {
			results[t.Index] = a.runTask(gCtx, t, timeout)
			return nil
		})
	}
	_ = g.Wait()
}

type reply struct {
	resp llm.Response
	err  error
}

// runTask sends one prompt under its own deadline. The call runs in its
// own goroutine so a client that ignores cancellation cannot hold the
// worker past the deadline. Such a client's abandoned call stays live after
// the worker moves on, so the in-flight bound holds only for clients that
// honor ctx; every llm adapter does.
func (a *Analyzer) runTask(ctx context.Context, t Task, timeout time.Duration) TaskResult {
	res := TaskResult{Task: t, Outcome: respparse.EmptyOutcome()}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	tCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	start := time.Now()

	ch := make(chan reply, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				ch <- reply{err: fmt.Errorf("model client panicked: %v", p)}
			}
		}()
		resp, err := a.client.Send(tCtx, t.Prompt, "")
		ch <- reply{resp: resp, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			res.Err = r.err
			break
		}
		res.Outcome = a.parser.Parse(r.resp.Content, schemaFor(t))
		if !res.Outcome.OK() {
			res.Err = ErrUnparseable
		}
	case <-tCtx.Done():
		res.Err = tCtx.Err()
	}
	res.Elapsed = time.Since(start)

	ev := a.log.Debug()
	if res.Err != nil {
		ev = a.log.Warn().Err(res.Err)
	}
	ev.Int("task", t.Index).
		Str("kind", string(t.Kind)).
		Str("section", t.Heading()).
		Str("tier", res.Outcome.Tier).
		Dur("elapsed", res.Elapsed).
		Msg("analysis task finished")
	return res
}
