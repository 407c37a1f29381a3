// Package pipeline runs one simplification pass over a content tree:
// select → per batch (render loading → simplify each fragment in order) →
// aggregate.
//
// Fragments are processed strictly one at a time, with a short pause between
// fragments of a batch and a longer one between batches. A fragment that
// fails is put back as plain text and counted; it never aborts the run.
//
// The only way to stop a run early is cancelling its context. Fragments of
// the batch in flight then stay in the loading state; everything already
// rendered remains.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gaurav-prasanna/pagesimplify/core"
	"github.com/gaurav-prasanna/pagesimplify/core/chunk"
	"github.com/gaurav-prasanna/pagesimplify/core/selector"
	"github.com/gaurav-prasanna/pagesimplify/core/simplify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default pacing.
const (
	DefaultItemDelay  = 100 * time.Millisecond
	DefaultBatchDelay = 200 * time.Millisecond
)

// ErrReused is returned when Run is called twice on one Pipeline.
var ErrReused = errors.New("pipeline: instance already ran")

// Config controls batching and pacing.
type Config struct {
	BatchSize  int           `yaml:"batch_size"`
	ItemDelay  time.Duration `yaml:"item_delay"`
	BatchDelay time.Duration `yaml:"batch_delay"`
}

// DefaultConfig returns the stock batching and pacing.
func DefaultConfig() Config {
	return Config{
		BatchSize:  chunk.DefaultSize,
		ItemDelay:  DefaultItemDelay,
		BatchDelay: DefaultBatchDelay,
	}
}

// Request is one trigger from the caller.
type Request struct {
	Level        string
	ShowOriginal bool
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Nil means no logging.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithSleeper replaces the pacing clock.
func WithSleeper(s Sleeper) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sleep = s
		}
	}
}

// Pipeline is single-use: build one per trigger.
type Pipeline struct {
	tree     core.ContentTree
	selector *selector.Selector
	client   core.Simplifier
	chunker  *chunk.Chunker
	cfg      Config
	logger   *zap.Logger
	sleep    Sleeper
	used     bool
}

// New wires a Pipeline.
func New(tree core.ContentTree, sel *selector.Selector, client core.Simplifier, cfg Config, opts ...Option) *Pipeline {
	if cfg.ItemDelay < 0 {
		cfg.ItemDelay = 0
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	p := &Pipeline{
		tree:     tree,
		selector: sel,
		client:   client,
		chunker:  chunk.New(cfg.BatchSize),
		cfg:      cfg,
		logger:   zap.NewNop(),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pass. On cancellation it returns the partial outcome
// together with the context error.
func (p *Pipeline) Run(ctx context.Context, req Request) (core.Outcome, error) {
	if p.used {
		return core.Outcome{}, ErrReused
	}
	p.used = true

	level, err := simplify.ParseLevel(req.Level)
	if err != nil {
		return core.Outcome{}, err
	}

	out := core.Outcome{RunID: uuid.NewString(), Level: level}
	log := p.logger.With(zap.String("run", out.RunID), zap.String("level", level))

	fragments := p.selector.Select(p.tree.Root())
	if len(fragments) == 0 {
		log.Info("no suitable text found")
		return out, nil
	}

	out.Found = true
	out.Attempted = len(fragments)
	out.Results = make([]core.Result, 0, len(fragments))

	batches := chunk.Split(p.chunker, fragments)
	log.Info("simplifying page",
		zap.Int("fragments", len(fragments)),
		zap.Int("batches", len(batches)))

	index := 0
	for bi, batch := range batches {
		if err := p.runBatch(ctx, log, batch, index, level, req.ShowOriginal, &out); err != nil {
			log.Warn("run interrupted",
				zap.Int("succeeded", out.Succeeded),
				zap.Int("failed", out.Failed),
				zap.Error(err))
			return sorted(out), err
		}
		index += len(batch)

		if bi < len(batches)-1 {
			if err := p.sleep(ctx, p.cfg.BatchDelay); err != nil {
				return sorted(out), err
			}
		}
	}

	log.Info("simplification finished",
		zap.Int("attempted", out.Attempted),
		zap.Int("succeeded", out.Succeeded),
		zap.Int("failed", out.Failed))
	return sorted(out), nil
}

// sorted orders results by fragment index; placeholder failures are
// recorded ahead of their batch.
func sorted(out core.Outcome) core.Outcome {
	slices.SortStableFunc(out.Results, func(a, b core.Result) int { return a.Index - b.Index })
	return out
}

func (p *Pipeline) runBatch(
	ctx context.Context,
	log *zap.Logger,
	batch []core.Fragment,
	offset int,
	level string,
	showOriginal bool,
	out *core.Outcome,
) error {
	// Loading phase: every fragment of the batch gets its placeholder first.
	placeholders := make([]core.Node, len(batch))
	for i, f := range batch {
		view := p.tree.NewLoading(f.Original)
		if err := f.Node.ReplaceWith(view); err != nil {
			log.Warn("cannot render placeholder", zap.Int("fragment", offset+i), zap.Error(err))
			p.record(out, offset+i, f, "", fmt.Errorf("rendering placeholder: %w", err))
			continue
		}
		placeholders[i] = view
	}

	for i, f := range batch {
		if placeholders[i] == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		simplified, err := p.client.Simplify(ctx, f.Original, level)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			log.Warn("fragment failed",
				zap.Int("fragment", offset+i),
				zap.String("kind", string(simplify.KindOf(err))),
				zap.Error(err))
			if rerr := placeholders[i].ReplaceWith(p.tree.NewText(restoreText(f))); rerr != nil {
				log.Warn("cannot restore original text", zap.Int("fragment", offset+i), zap.Error(rerr))
			}
			p.record(out, offset+i, f, "", err)
		} else {
			view := p.tree.NewResult(f.Original, simplified, showOriginal)
			if rerr := placeholders[i].ReplaceWith(view); rerr != nil {
				log.Warn("cannot render result", zap.Int("fragment", offset+i), zap.Error(rerr))
				p.record(out, offset+i, f, "", fmt.Errorf("rendering result: %w", rerr))
			} else {
				log.Debug("fragment simplified", zap.Int("fragment", offset+i))
				p.record(out, offset+i, f, simplified, nil)
			}
		}

		if i < len(batch)-1 {
			if err := p.sleep(ctx, p.cfg.ItemDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Pipeline) record(out *core.Outcome, index int, f core.Fragment, simplified string, err error) {
	r := core.Result{Index: index, Original: f.Original}
	if err != nil {
		r.Status = core.StatusFailed
		r.Error = err.Error()
		out.Failed++
	} else {
		r.Status = core.StatusSimplified
		r.Simplified = simplified
		out.Succeeded++
	}
	out.Results = append(out.Results, r)
}

// restoreText is what a failed fragment shows again: the node value as it
// was, surrounding whitespace included.
func restoreText(f core.Fragment) string {
	if f.Raw != "" {
		return f.Raw
	}
	return f.Original
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
