package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storyreel/types"
)

type scriptedStatus struct {
	mu      sync.Mutex
	results []types.RenderResult
	err     error
	calls   int
}

func (s *scriptedStatus) Status(ctx context.Context, job types.RenderJob) (types.RenderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return types.RenderResult{}, s.err
	}
	i := s.calls - 1
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i], nil
}

func fastPolicy(timeout time.Duration) Policy {
	return Policy{Initial: time.Millisecond, Factor: 1.5, Max: 2 * time.Millisecond, Timeout: timeout}
}

func TestWatch_EndsAtTerminalSnapshot(t *testing.T) {
	checker := &scriptedStatus{results: []types.RenderResult{
		{Status: types.RenderPending},
		{Status: types.RenderRunning},
		{Status: types.RenderDone, MediaURL: "https://cdn/out.mp4"},
		{Status: types.RenderRunning},
	}}

	var seen []types.RenderStatus
	for res, err := range Watch(context.Background(), checker, types.RenderJob{ID: "p1"}, fastPolicy(time.Second)) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen = append(seen, res.Status)
	}
	if len(seen) != 3 || seen[2] != types.RenderDone {
		t.Fatalf("snapshots = %v", seen)
	}
	if checker.calls != 3 {
		t.Fatalf("expected 3 status calls, got %d", checker.calls)
	}
}

func TestAwait(t *testing.T) {
	cases := []struct {
		name       string
		checker    *scriptedStatus
		timeout    time.Duration
		wantStatus types.RenderStatus
		wantErr    error
	}{
		{
			name:       "done",
			checker:    &scriptedStatus{results: []types.RenderResult{{Status: types.RenderRunning}, {Status: types.RenderDone, MediaURL: "u"}}},
			timeout:    time.Second,
			wantStatus: types.RenderDone,
		},
		{
			name:       "failed",
			checker:    &scriptedStatus{results: []types.RenderResult{{Status: types.RenderFailed, Message: "bad scene"}}},
			timeout:    time.Second,
			wantStatus: types.RenderFailed,
		},
		{
			name:       "never finishes",
			checker:    &scriptedStatus{results: []types.RenderResult{{Status: types.RenderPending}}},
			timeout:    20 * time.Millisecond,
			wantStatus: types.RenderPending,
			wantErr:    types.ErrRenderTimeout,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			observed := 0
			res, err := Await(context.Background(), c.checker, types.RenderJob{ID: "p"}, fastPolicy(c.timeout), func(types.RenderResult) { observed++ })
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("Await error = %v; want %v", err, c.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Await error: %v", err)
			}
			if res.Status != c.wantStatus {
				t.Fatalf("status = %s; want %s", res.Status, c.wantStatus)
			}
			if observed == 0 {
				t.Fatalf("observer never called")
			}
		})
	}
}

func TestAwait_StatusError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Await(context.Background(), &scriptedStatus{err: boom}, types.RenderJob{ID: "p"}, fastPolicy(time.Second), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Await error = %v; want boom", err)
	}
}

func TestAwait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	checker := &scriptedStatus{results: []types.RenderResult{{Status: types.RenderRunning}}}
	_, err := Await(ctx, checker, types.RenderJob{ID: "p"}, Policy{Initial: 50 * time.Millisecond, Timeout: time.Minute}, func(types.RenderResult) { cancel() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Await error = %v; want context.Canceled", err)
	}
}

func TestWatch_StopsWhenConsumerBreaks(t *testing.T) {
	checker := &scriptedStatus{results: []types.RenderResult{{Status: types.RenderRunning}}}
	for range Watch(context.Background(), checker, types.RenderJob{ID: "p"}, fastPolicy(time.Second)) {
		break
	}
	if checker.calls != 1 {
		t.Fatalf("expected polling to stop after break, got %d calls", checker.calls)
	}
}

func TestPolicy_Backoff(t *testing.T) {
	p := DefaultPolicy(0).normalized()
	want := []time.Duration{2 * time.Second, 3 * time.Second, 4500 * time.Millisecond, 6750 * time.Millisecond, 10125 * time.Millisecond, 15 * time.Second, 15 * time.Second}
	d := p.Initial
	for i, w := range want {
		if d != w {
			t.Fatalf("interval %d = %v; want %v", i, d, w)
		}
		d = p.next(d)
	}
	if p.Timeout != 10*time.Minute {
		t.Fatalf("default timeout = %v", p.Timeout)
	}
}
