// Package practice ties grading to storage: tasks are stored, learners
// submit attempts against them and each attempt can be analyzed, which
// replaces its stored errors and metrics.
package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"harshagw/dictgrade/internal/analysis"
	"harshagw/dictgrade/internal/grade"
	"harshagw/dictgrade/internal/morph"
	"harshagw/dictgrade/internal/store"
)

var (
	ErrClosed    = errors.New("practice: closed")
	ErrEmptyText = errors.New("practice: text is empty")
)

type Practice struct {
	mu sync.RWMutex

	store  *store.Store
	grader *grade.Grader
	locks  *attemptLocks

	clampRatios bool
	workers     int
	logger      *slog.Logger

	closed bool
}

type Config struct {
	Dir         string
	Analyzer    analysis.Analyzer
	Normalizer  morph.Normalizer
	ClampRatios bool
	Workers     int
	Logger      *slog.Logger
}

func DefaultConfig(dir string) Config {
	return Config{
		Dir:        dir,
		Analyzer:   analysis.NewStandard(),
		Normalizer: morph.None{},
		Workers:    4,
		Logger:     slog.Default(),
	}
}

// New creates or opens a practice store at the given directory.
func New(config Config) (*Practice, error) {
	if err := os.MkdirAll(config.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.Open(config.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	return &Practice{
		store:       st,
		grader:      grade.NewGrader(config.Analyzer, config.Normalizer),
		locks:       newAttemptLocks(),
		clampRatios: config.ClampRatios,
		workers:     workers,
		logger:      logger,
	}, nil
}

// AddTask stores a reference text.
func (p *Practice) AddTask(title, content string) (store.Task, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return store.Task{}, ErrClosed
	}
	if strings.TrimSpace(content) == "" {
		return store.Task{}, ErrEmptyText
	}

	task, err := p.store.AddTask(strings.TrimSpace(title), content)
	if err != nil {
		return store.Task{}, fmt.Errorf("failed to add task: %w", err)
	}
	p.logger.Debug("task added", "task", task.ID, "title", task.Title)
	return task, nil
}

func (p *Practice) Task(id uint64) (store.Task, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return store.Task{}, ErrClosed
	}
	return p.store.Task(id)
}

func (p *Practice) Tasks() ([]store.Task, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrClosed
	}
	return p.store.Tasks()
}

// Submit records a learner's attempt at a task. The attempt is stored
// unanalyzed.
func (p *Practice) Submit(taskID uint64, content string) (store.Attempt, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return store.Attempt{}, ErrClosed
	}
	if strings.TrimSpace(content) == "" {
		return store.Attempt{}, ErrEmptyText
	}

	attempt, err := p.store.AddAttempt(taskID, content)
	if err != nil {
		return store.Attempt{}, fmt.Errorf("failed to submit attempt: %w", err)
	}
	p.logger.Debug("attempt submitted", "task", taskID, "attempt", attempt.ID)
	return attempt, nil
}

func (p *Practice) Attempt(id uint64) (store.Attempt, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return store.Attempt{}, ErrClosed
	}
	return p.store.Attempt(id)
}

// Analyze grades an attempt against its task and replaces the attempt's
// stored errors and metrics with the result. Concurrent calls for the same
// attempt run one after another.
func (p *Practice) Analyze(attemptID uint64) (grade.Result, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return grade.Result{}, ErrClosed
	}
	return p.analyze(attemptID)
}

func (p *Practice) analyze(attemptID uint64) (grade.Result, error) {
	unlock := p.locks.lock(attemptID)
	defer unlock()

	attempt, err := p.store.Attempt(attemptID)
	if err != nil {
		return grade.Result{}, fmt.Errorf("attempt %d: %w", attemptID, err)
	}
	task, err := p.store.Task(attempt.TaskID)
	if err != nil {
		return grade.Result{}, fmt.Errorf("task %d: %w", attempt.TaskID, err)
	}

	res := p.grader.Analyze(task.Content, attempt.Content)
	if p.clampRatios {
		res.Metrics = res.Metrics.Clamped()
	}

	err = p.store.Update(func(tx *store.Tx) error {
		if err := tx.ReplaceErrors(attemptID, res.Errors); err != nil {
			return err
		}
		if err := tx.PutMetrics(attemptID, res.Metrics); err != nil {
			return err
		}
		return tx.SetStage(attemptID, store.StageReviewed)
	})
	if err != nil {
		p.logger.Error("failed to save analysis", "attempt", attemptID, "err", err)
		return grade.Result{}, fmt.Errorf("failed to save analysis: %w", err)
	}

	p.logger.Debug("attempt analyzed",
		"attempt", attemptID,
		"errors", len(res.Errors),
		"accuracy", res.Metrics.Accuracy,
		"wer", res.Metrics.WER)
	return res, nil
}

// AnalyzeBatch analyzes the given attempts in parallel. It stops at the first
// failure or when ctx is cancelled.
func (p *Practice) AnalyzeBatch(ctx context.Context, attemptIDs []uint64) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, id := range attemptIDs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, err := p.analyze(id)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Warn("batch analysis stopped", "attempts", len(attemptIDs), "err", err)
		return err
	}
	return ctx.Err()
}

// AnalyzeTask analyzes every attempt submitted for a task.
func (p *Practice) AnalyzeTask(ctx context.Context, taskID uint64) (int, error) {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return 0, ErrClosed
	}
	bm, err := p.store.TaskAttempts(taskID)
	p.mu.RUnlock()
	if err != nil {
		return 0, err
	}

	ids := make([]uint64, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		ids = append(ids, uint64(it.Next()))
	}
	return len(ids), p.AnalyzeBatch(ctx, ids)
}

// Errors returns the stored errors of an analyzed attempt.
func (p *Practice) Errors(attemptID uint64) ([]grade.ErrorRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrClosed
	}

	var errs []grade.ErrorRecord
	err := p.store.View(func(tx *store.Tx) error {
		if _, err := tx.Attempt(attemptID); err != nil {
			return fmt.Errorf("attempt %d: %w", attemptID, err)
		}
		var err error
		errs, err = tx.Errors(attemptID)
		return err
	})
	return errs, err
}

// Metrics returns the stored metrics of an attempt and whether it has been
// analyzed.
func (p *Practice) Metrics(attemptID uint64) (grade.MetricRecord, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return grade.MetricRecord{}, false, ErrClosed
	}

	var (
		m  grade.MetricRecord
		ok bool
	)
	err := p.store.View(func(tx *store.Tx) error {
		var err error
		m, ok, err = tx.Metrics(attemptID)
		return err
	})
	return m, ok, err
}

// Check grades a text pair without storing anything.
func (p *Practice) Check(reference, attempt string) grade.Result {
	res := p.grader.Analyze(reference, attempt)
	if p.clampRatios {
		res.Metrics = res.Metrics.Clamped()
	}
	return res
}

func (p *Practice) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.store.Close()
}
