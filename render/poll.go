// Package render submits scenes to a rendering backend and follows the
// resulting job until it reaches a terminal status.
package render

import (
	"context"
	"fmt"
	"iter"
	"time"

	"storyreel/config"
	"storyreel/types"
)

// StatusChecker reports the current status of a submitted job
type StatusChecker interface {
	Status(ctx context.Context, job types.RenderJob) (types.RenderResult, error)
}

// Policy bounds how a render job is polled
type Policy struct {
	Initial time.Duration
	Factor  float64
	Max     time.Duration
	Timeout time.Duration
}

// DefaultPolicy polls after 2s, backing off by 1.5x up to 15s, for at most timeout
func DefaultPolicy(timeout time.Duration) Policy {
	if timeout <= 0 {
		timeout = config.DefaultRenderTimeout
	}
	return Policy{
		Initial: config.PollInitialInterval,
		Factor:  config.PollBackoffFactor,
		Max:     config.PollMaxInterval,
		Timeout: timeout,
	}
}

func (p Policy) normalized() Policy {
	if p.Initial <= 0 {
		p.Initial = config.PollInitialInterval
	}
	if p.Factor < 1 {
		p.Factor = 1
	}
	if p.Max < p.Initial {
		p.Max = p.Initial
	}
	if p.Timeout <= 0 {
		p.Timeout = config.DefaultRenderTimeout
	}
	return p
}

func (p Policy) next(d time.Duration) time.Duration {
	n := time.Duration(float64(d) * p.Factor)
	if n > p.Max {
		return p.Max
	}
	return n
}

// Watch returns the finite sequence of status snapshots of job. The sequence
// ends after the first terminal snapshot, after a status error, when ctx is
// done, or when the policy timeout elapses (yielding ErrRenderTimeout with the
// last known snapshot).
func Watch(ctx context.Context, r StatusChecker, job types.RenderJob, p Policy) iter.Seq2[types.RenderResult, error] {
	p = p.normalized()
	return func(yield func(types.RenderResult, error) bool) {
		tctx, cancel := context.WithTimeout(ctx, p.Timeout)
		defer cancel()

		timedOut := func(last types.RenderResult) {
			yield(last, fmt.Errorf("job %s still %s after %s: %w", job.ID, last.Status, p.Timeout, types.ErrRenderTimeout))
		}

		var last types.RenderResult
		wait := p.Initial
		for {
			res, err := r.Status(tctx, job)
			if err != nil {
				switch {
				case ctx.Err() != nil:
					yield(last, ctx.Err())
				case tctx.Err() != nil:
					timedOut(last)
				default:
					yield(last, err)
				}
				return
			}
			last = res
			if !yield(res, nil) || res.Status.Terminal() {
				return
			}

			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-tctx.Done():
				timer.Stop()
				if ctx.Err() != nil {
					yield(last, ctx.Err())
				} else {
					timedOut(last)
				}
				return
			}
			wait = p.next(wait)
		}
	}
}

// Await consumes Watch and returns its last element. observe, when non-nil,
// sees every successful snapshot.
func Await(ctx context.Context, r StatusChecker, job types.RenderJob, p Policy, observe func(types.RenderResult)) (types.RenderResult, error) {
	var last types.RenderResult
	for res, err := range Watch(ctx, r, job, p) {
		if err != nil {
			return res, err
		}
		if observe != nil {
			observe(res)
		}
		last = res
	}
	return last, nil
}
