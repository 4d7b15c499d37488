package runner

import (
	"context"
	"time"

	"llmcheck/internal/config"
	"llmcheck/internal/suite"

	"golang.org/x/sync/errgroup"
)

// CaseFunc evaluates one case.
type CaseFunc func(ctx context.Context, tc suite.TestCase) TestResult

// EmitFunc receives finished results in declaration order.
type EmitFunc func(results ...TestResult)

// Strategy decides how the cases of a suite are scheduled.
type Strategy interface {
	Name() string
	Execute(ctx context.Context, s *suite.TestSuite, run CaseFunc, emit EmitFunc)
}

// StrategyFor picks sequential execution for a parallelism of one or less and
// chunked execution otherwise.
func StrategyFor(cfg config.Config) Strategy {
	if cfg.Parallelism <= 1 {
		return sequential{delay: cfg.RequestDelay}
	}
	return chunked{size: cfg.Parallelism, delay: cfg.RequestDelay}
}

// sequential runs one case at a time and pauses between cases.
type sequential struct {
	delay time.Duration
}

func (sequential) Name() string { return "sequential" }

func (q sequential) Execute(ctx context.Context, s *suite.TestSuite, run CaseFunc, emit EmitFunc) {
	tests := s.Tests
	for i, tc := range tests {
		if ctx.Err() != nil {
			skipRemaining(tests[i:], cancelledReason, emit)
			return
		}

		res := run(ctx, tc)
		emit(res)

		if s.Config.SkipOnError && res.Status != StatusPassed {
			skipRemaining(tests[i+1:], skipOnErrReason, emit)
			return
		}
		if i < len(tests)-1 {
			if err := sleep(ctx, q.delay); err != nil {
				skipRemaining(tests[i+1:], cancelledReason, emit)
				return
			}
		}
	}
}

// chunked runs contiguous chunks of cases concurrently and waits for each
// chunk before starting the next.
type chunked struct {
	size  int
	delay time.Duration
}

func (chunked) Name() string { return "chunked" }

func (c chunked) Execute(ctx context.Context, s *suite.TestSuite, run CaseFunc, emit EmitFunc) {
	tests := s.Tests
	for start := 0; start < len(tests); start += c.size {
		if ctx.Err() != nil {
			skipRemaining(tests[start:], cancelledReason, emit)
			return
		}

		end := min(start+c.size, len(tests))
		chunk := tests[start:end]
		results := make([]TestResult, len(chunk))

		var g errgroup.Group
		g.SetLimit(c.size)
		for i, tc := range chunk {
			g.Go(func() error {
				results[i] = run(ctx, tc)
				return nil
			})
		}
		_ = g.Wait()
		emit(results...)

		if s.Config.SkipOnError && anyNotPassed(results) {
			skipRemaining(tests[end:], skipOnErrReason, emit)
			return
		}
		if end < len(tests) && len(chunk) > 1 {
			if err := sleep(ctx, c.delay); err != nil {
				skipRemaining(tests[end:], cancelledReason, emit)
				return
			}
		}
	}
}

func anyNotPassed(results []TestResult) bool {
	for _, r := range results {
		if r.Status != StatusPassed {
			return true
		}
	}
	return false
}

func skipRemaining(tests []suite.TestCase, reason string, emit EmitFunc) {
	for _, tc := range tests {
		emit(Skipped(tc, reason))
	}
}
