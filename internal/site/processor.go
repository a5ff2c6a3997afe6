package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/navinject/internal/nav"
	"github.com/ziadkadry99/navinject/internal/page"
	"github.com/ziadkadry99/navinject/internal/progress"
	"github.com/ziadkadry99/navinject/internal/walker"
)

// Outcome classifies what happened to one page.
type Outcome string

const (
	OutcomeChanged   Outcome = "changed"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeSkipped   Outcome = "skipped" // no placeholder on the page
	OutcomeFailed    Outcome = "failed"
)

// PageResult is the result of injecting one page.
type PageResult struct {
	Page     walker.Page
	Outcome  Outcome
	Fallback bool
	Before   string // content hash read from disk
	After    string // content hash after injection
	Err      error
}

// Summary aggregates a processor run.
type Summary struct {
	Pages     int
	Changed   int
	Unchanged int
	Skipped   int
	Fallback  int
	Failed    int
	Results   []PageResult
}

func (s *Summary) add(r PageResult) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeChanged:
		s.Changed++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeFailed:
		s.Failed++
	}
	if r.Fallback {
		s.Fallback++
	}
}

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	Concurrency int  // parallel page loads; 0 or less means 1
	DryRun      bool // compute results without writing
	Reporter    progress.Reporter
}

// Processor injects the navigation fragment into pages on disk. Each page is
// an independent load: the fragment is fetched once per page.
type Processor struct {
	injector    *nav.Injector
	logger      *zap.Logger
	reporter    progress.Reporter
	concurrency int
	dryRun      bool
}

// NewProcessor creates a Processor.
func NewProcessor(injector *nav.Injector, logger *zap.Logger, opts ProcessorOptions) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{
		injector:    injector,
		logger:      logger,
		reporter:    reporter,
		concurrency: concurrency,
		dryRun:      opts.DryRun,
	}
}

// Run processes every page. Individual page failures are recorded in the
// summary; only cancellation aborts the run.
func (p *Processor) Run(ctx context.Context, pages []walker.Page) (Summary, error) {
	summary := Summary{Pages: len(pages)}

	var mu sync.Mutex
	done := 0

	p.reporter.Start(len(pages))
	defer p.reporter.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, pg := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := p.ProcessPage(gctx, pg)

			mu.Lock()
			summary.add(res)
			done++
			p.reporter.Update(done, pg.RelPath)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Page.RelPath < summary.Results[j].Page.RelPath
	})
	if err != nil {
		return summary, fmt.Errorf("injecting pages: %w", err)
	}
	return summary, nil
}

// ProcessPage injects the fragment into a single page and writes it back
// when its bytes change.
func (p *Processor) ProcessPage(ctx context.Context, pg walker.Page) PageResult {
	res := PageResult{Page: pg}

	data, err := os.ReadFile(pg.Path)
	if err != nil {
		return p.fail(res, fmt.Errorf("reading page: %w", err))
	}

	doc, err := page.ParseBytes(data)
	if err != nil {
		return p.fail(res, err)
	}

	loaded, err := p.injector.Load(ctx, pg.URLPath, doc)
	if err != nil {
		if errors.Is(err, page.ErrPlaceholderNotFound) {
			p.logger.Debug("page has no placeholder", zap.String("page", pg.RelPath))
			res.Outcome = OutcomeSkipped
			return res
		}
		return p.fail(res, err)
	}
	res.Fallback = loaded.Fallback

	out, err := doc.Bytes()
	if err != nil {
		return p.fail(res, err)
	}
	res.Before = walker.HashBytes(data)
	res.After = walker.HashBytes(out)
	if res.Before == res.After {
		res.Outcome = OutcomeUnchanged
		return res
	}

	res.Outcome = OutcomeChanged
	if p.dryRun {
		p.logger.Info("would update page",
			zap.String("page", pg.RelPath),
			zap.String("before", res.Before),
			zap.String("after", res.After),
		)
		return res
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(pg.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(pg.Path, out, mode); err != nil {
		return p.fail(res, fmt.Errorf("writing page: %w", err))
	}
	p.logger.Debug("page updated",
		zap.String("page", pg.RelPath),
		zap.String("kind", string(loaded.Kind)),
		zap.Bool("fallback", loaded.Fallback),
	)
	return res
}

func (p *Processor) fail(res PageResult, err error) PageResult {
	res.Outcome = OutcomeFailed
	res.Err = err
	p.logger.Warn("page injection failed", zap.String("page", res.Page.RelPath), zap.Error(err))
	return res
}
