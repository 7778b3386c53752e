package ddmin

import (
	"context"
	"log/slog"

	"github.com/bits-and-blooms/bitset"
)

// ReduceResult is the outcome of Reduce.
type ReduceResult[E comparable] struct {
	// Config is a 1-minimal failing subset of the input, in input order.
	Config []E
	Stats  Stats
}

// Reduce shrinks a failing configuration to a 1-minimal one: removing any
// single part at the final granularity makes the failure go away. The empty
// configuration must pass and cFail must fail.
//
// Unlike Minimize, Reduce only ever tests complements and never grows a
// passing configuration.
func Reduce[E comparable](cFail []E, oracle Oracle[E], opts ...Option[E]) (*ReduceResult[E], error) {
	return ReduceContext(context.Background(), cFail, oracle, opts...)
}

func ReduceContext[E comparable](ctx context.Context, cFail []E, oracle Oracle[E], opts ...Option[E]) (*ReduceResult[E], error) {
	r := newRun(oracle, newOptions(opts...), "reduce")

	ctx, span := r.tel.start(ctx, "ddmin.Reduce", 0, len(cFail))
	res, err := r.reduce(ctx, cFail)

	size := 0
	if res != nil {
		size = len(res.Config)
	}
	r.tel.finish(ctx, span, r.operation, size, r.stats, err)
	if err != nil {
		r.logger.Warn("ddmin: reduce failed", slog.String("error", err.Error()))
		return nil, err
	}
	r.logger.Info("ddmin: reduce done",
		slog.Int("size", size),
		slog.Int("oracle_calls", r.stats.OracleCalls),
		slog.Int("rounds", r.stats.Rounds))
	return res, nil
}

func (r *run[E]) reduce(ctx context.Context, cFail []E) (*ReduceResult[E], error) {
	u, err := newUniverse(cFail)
	if err != nil {
		return nil, err
	}
	r.u = u

	empty := bitset.New(u.len())
	c := u.all()
	if err := r.checkFrontier(ctx, empty, c, 0); err != nil {
		return nil, err
	}

	n := 2
	for round := 0; c.Count() >= 2; round++ {
		if err := r.beginRound(ctx, round); err != nil {
			return nil, err
		}
		size := int(c.Count())
		n = min(n, size)
		r.stats.Granularity = n
		r.observe(round, empty, c, n)

		parts, err := r.split(c, n)
		if err != nil {
			return nil, err
		}

		reduced := false
		for _, part := range parts {
			if part.None() {
				continue
			}
			complement := c.Difference(part)
			outcome, err := r.evaluate(ctx, complement)
			if err != nil {
				return nil, err
			}
			if outcome == Fail {
				c = complement
				n = max(n-1, 2)
				reduced = true
				break
			}
		}
		if reduced {
			continue
		}

		if n == size {
			break
		}
		n = min(2*n, size)
		r.logger.Debug("ddmin: increasing granularity", slog.Int("n", n), slog.Int("size", size))
	}

	if r.stats.Granularity == 0 {
		r.stats.Granularity = int(c.Count())
	}
	return &ReduceResult[E]{
		Config: u.config(c),
		Stats:  r.stats,
	}, nil
}
