package ddmin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bits-and-blooms/bitset"
)

// Stats describes the work done by a run.
type Stats struct {
	// OracleCalls counts every evaluation, including the invariant checks
	// made at the start of each round.
	OracleCalls int

	// Rounds is the number of outer loop iterations.
	Rounds int

	// Granularity is the number of parts in use when the run stopped.
	Granularity int
}

// Result is the outcome of Minimize. Delta is Fail minus Pass; all three are
// in the order of the initial failing configuration.
type Result[E comparable] struct {
	Delta []E
	Pass  []E
	Fail  []E
	Stats Stats
}

// Minimize isolates a minimal difference between a passing and a failing
// configuration. cPass must be a subset of cFail, oracle(cPass) must be Pass
// and oracle(cFail) must be Fail.
//
// The returned frontier satisfies the same conditions, with
// cPass ⊆ Pass ⊂ Fail ⊆ cFail, and no single part of Delta at the final
// granularity can narrow it further.
func Minimize[E comparable](cPass, cFail []E, oracle Oracle[E], opts ...Option[E]) (*Result[E], error) {
	return MinimizeContext(context.Background(), cPass, cFail, oracle, opts...)
}

// MinimizeContext is Minimize with a context. The context carries the trace
// span of the run and is checked between rounds; a running oracle call is
// never interrupted.
func MinimizeContext[E comparable](ctx context.Context, cPass, cFail []E, oracle Oracle[E], opts ...Option[E]) (*Result[E], error) {
	r := newRun(oracle, newOptions(opts...), "minimize")

	ctx, span := r.tel.start(ctx, "ddmin.Minimize", len(cPass), len(cFail))
	res, err := r.minimize(ctx, cPass, cFail)

	deltaSize := 0
	if res != nil {
		deltaSize = len(res.Delta)
	}
	r.tel.finish(ctx, span, r.operation, deltaSize, r.stats, err)
	if err != nil {
		r.logger.Warn("ddmin: minimize failed", slog.String("error", err.Error()))
		return nil, err
	}
	r.logger.Info("ddmin: minimize done",
		slog.Int("delta", deltaSize),
		slog.Int("oracle_calls", r.stats.OracleCalls),
		slog.Int("rounds", r.stats.Rounds))
	return res, nil
}

// run holds the state of one invocation. It is never shared.
type run[E comparable] struct {
	operation string
	u         *universe[E]
	oracle    Oracle[E]
	opts      *options[E]
	logger    *slog.Logger
	tel       *telemetry
	stats     Stats
}

func newRun[E comparable](oracle Oracle[E], opts *options[E], operation string) *run[E] {
	return &run[E]{
		operation: operation,
		oracle:    oracle,
		opts:      opts,
		logger:    opts.logger,
		tel:       newTelemetry(opts.tracerProvider, opts.meterProvider),
	}
}

func (r *run[E]) minimize(ctx context.Context, cPass, cFail []E) (*Result[E], error) {
	u, err := newUniverse(cFail)
	if err != nil {
		return nil, err
	}
	r.u = u

	pass, ok := u.set(cPass)
	if !ok || pass.Count() != uint(len(cPass)) {
		return nil, &InvariantError{Side: SideSubset}
	}
	fail := u.all()

	n, offset := 2, 0
	for round := 0; ; round++ {
		if err := r.beginRound(ctx, round); err != nil {
			return nil, err
		}
		if err := r.checkFrontier(ctx, pass, fail, round); err != nil {
			return nil, err
		}
		r.observe(round, pass, fail, n)

		delta := fail.Difference(pass)
		size := int(delta.Count())
		r.stats.Granularity = n
		if n > size {
			return r.result(delta, pass, fail), nil
		}

		parts, err := r.split(delta, n)
		if err != nil {
			return nil, err
		}

		adopted := false
		for j := 0; j < n && !adopted; j++ {
			i := (j + offset) % n
			if c := int(parts[i].Count()); c == 0 || c == size {
				continue
			}
			candFail := fail.Difference(parts[i])
			candPass := pass.Union(parts[i])

			failOutcome, err := r.evaluate(ctx, candFail)
			if err != nil {
				return nil, err
			}

			// Shrinking the failing side without checking the passing
			// candidate is only done at binary granularity.
			if n == 2 && failOutcome == Fail {
				fail, n, offset, adopted = candFail, 2, 0, true
				break
			}
			if failOutcome == Pass {
				pass, n, offset, adopted = candFail, 2, 0, true
				break
			}

			passOutcome, err := r.evaluate(ctx, candPass)
			if err != nil {
				return nil, err
			}

			switch {
			case passOutcome == Fail:
				fail, n, offset, adopted = candPass, 2, 0, true
			case failOutcome == Fail:
				fail, n, offset, adopted = candFail, max(n-1, 2), i, true
			case passOutcome == Pass:
				pass, n, offset, adopted = candPass, max(n-1, 2), i, true
			}
		}
		if adopted {
			continue
		}

		if n >= size {
			return r.result(delta, pass, fail), nil
		}
		n = min(size, 2*n)
		offset = 0
		r.logger.Debug("ddmin: increasing granularity", slog.Int("n", n), slog.Int("delta", size))
	}
}

func (r *run[E]) result(delta, pass, fail *bitset.BitSet) *Result[E] {
	return &Result[E]{
		Delta: r.u.config(delta),
		Pass:  r.u.config(pass),
		Fail:  r.u.config(fail),
		Stats: r.stats,
	}
}

func (r *run[E]) beginRound(ctx context.Context, round int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ddmin: %s interrupted after %d rounds: %w", r.operation, round, err)
	}
	if r.opts.maxRounds > 0 && round >= r.opts.maxRounds {
		return fmt.Errorf("%w: %d", ErrRoundLimit, r.opts.maxRounds)
	}
	r.stats.Rounds++
	return nil
}

func (r *run[E]) observe(round int, pass, fail *bitset.BitSet, n int) {
	if r.opts.observer == nil {
		return
	}
	r.opts.observer(Round[E]{
		Index:       round,
		Pass:        r.u.config(pass),
		Fail:        r.u.config(fail),
		Granularity: n,
	})
}

// checkFrontier asserts pass ⊆ fail, oracle(pass) == Pass and
// oracle(fail) == Fail.
func (r *run[E]) checkFrontier(ctx context.Context, pass, fail *bitset.BitSet, round int) error {
	if !fail.IsSuperSet(pass) {
		return &InvariantError{Side: SideSubset, Round: round}
	}
	if got, err := r.evaluate(ctx, pass); err != nil {
		return err
	} else if got != Pass {
		return &InvariantError{Side: SidePass, Want: Pass, Got: got, Round: round}
	}
	if got, err := r.evaluate(ctx, fail); err != nil {
		return err
	} else if got != Fail {
		return &InvariantError{Side: SideFail, Want: Fail, Got: got, Round: round}
	}
	return nil
}

func (r *run[E]) evaluate(ctx context.Context, b *bitset.BitSet) (Outcome, error) {
	config := r.u.config(b)
	outcome := r.oracle.Evaluate(config)
	r.stats.OracleCalls++
	if !outcome.Valid() {
		return outcome, &OracleError{Outcome: outcome}
	}
	r.tel.recordOracleCall(ctx, r.operation, outcome)
	r.logger.Debug("ddmin: tested configuration",
		slog.Int("call", r.stats.OracleCalls),
		slog.Int("size", len(config)),
		slog.String("outcome", outcome.String()))
	return outcome, nil
}

// split asks the splitter for n parts of delta and checks the result is a
// partition of delta.
func (r *run[E]) split(delta *bitset.BitSet, n int) ([]*bitset.BitSet, error) {
	parts := r.opts.splitter.Split(r.u.config(delta), n)
	if len(parts) != n {
		return nil, &SplitError{N: n, Parts: len(parts), Reason: "wrong number of parts"}
	}

	covered := bitset.New(r.u.len())
	sets := make([]*bitset.BitSet, n)
	for i, part := range parts {
		b, ok := r.u.set(part)
		if !ok || !delta.IsSuperSet(b) {
			return nil, &SplitError{N: n, Parts: len(parts),
				Reason: fmt.Sprintf("part %d holds an element outside the input", i)}
		}
		if b.Count() != uint(len(part)) || covered.IntersectionCardinality(b) != 0 {
			return nil, &SplitError{N: n, Parts: len(parts),
				Reason: fmt.Sprintf("part %d overlaps an earlier part", i)}
		}
		covered.InPlaceUnion(b)
		sets[i] = b
	}
	if covered.Count() != delta.Count() {
		return nil, &SplitError{N: n, Parts: len(parts), Reason: "parts do not cover the input"}
	}
	return sets, nil
}
