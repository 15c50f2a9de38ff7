package scan

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type stubExecutor struct {
	result  Result
	err     error
	release chan struct{} // when set, Scan blocks until closed or ctx done
	calls   int
}

func (s *stubExecutor) Scan(ctx context.Context, courseID string, opts Options) (Result, error) {
	s.calls++
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	return s.result, s.err
}

func TestRunSuccessTransitionsToDisplaying(t *testing.T) {
	want := SampleResult(time.Unix(1700000000, 0))
	o := NewOrchestrator(&stubExecutor{result: want})
	if o.State() != StateIdle {
		t.Fatalf("initial state = %s", o.State())
	}
	got, err := o.Run(context.Background(), "101", DefaultOptions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.ErrorCount != want.ErrorCount || len(got.Issues) != len(want.Issues) {
		t.Fatalf("result mismatch: %+v", got)
	}
	if o.State() != StateDisplaying {
		t.Fatalf("state = %s", o.State())
	}
}

func TestRunFailureTransitionsToFailed(t *testing.T) {
	o := NewOrchestrator(&stubExecutor{err: fmt.Errorf("checker exploded")})
	_, err := o.Run(context.Background(), "101", DefaultOptions())
	if err == nil {
		t.Fatalf("expected error")
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T", err)
	}
	if se.Timeout {
		t.Fatalf("non-timeout failure flagged as timeout")
	}
	if o.State() != StateFailed {
		t.Fatalf("state = %s", o.State())
	}
}

func TestRunRecoversAfterFailure(t *testing.T) {
	exec := &stubExecutor{err: fmt.Errorf("boom")}
	o := NewOrchestrator(exec)
	if _, err := o.Run(context.Background(), "101", DefaultOptions()); err == nil {
		t.Fatalf("expected first run to fail")
	}
	exec.err = nil
	exec.result = SampleResult(time.Now())
	if _, err := o.Run(context.Background(), "101", DefaultOptions()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if o.State() != StateDisplaying {
		t.Fatalf("state = %s", o.State())
	}
}

func TestSecondRunWhileScanningIsRejected(t *testing.T) {
	exec := &stubExecutor{result: SampleResult(time.Now()), release: make(chan struct{})}
	o := NewOrchestrator(exec)

	done := make(chan error, 1)
	go func() {
		_, err := o.Run(context.Background(), "101", DefaultOptions())
		done <- err
	}()

	// Wait for the first run to take the guard.
	deadline := time.After(2 * time.Second)
	for o.State() != StateScanning {
		select {
		case <-deadline:
			t.Fatalf("first run never reached Scanning")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := o.Run(context.Background(), "101", DefaultOptions()); !errors.Is(err, ErrScanInFlight) {
		t.Fatalf("second run err = %v", err)
	}
	if exec.calls != 1 {
		t.Fatalf("executor invoked %d times", exec.calls)
	}

	close(exec.release)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
	if o.State() != StateDisplaying {
		t.Fatalf("state after release = %s", o.State())
	}
}

func TestRunTimeoutProducesTimeoutError(t *testing.T) {
	exec := &stubExecutor{release: make(chan struct{})} // blocks until ctx expires
	o := NewOrchestrator(exec)
	o.Timeout = 10 * time.Millisecond

	_, err := o.Run(context.Background(), "101", DefaultOptions())
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T (%v)", err, err)
	}
	if !se.Timeout {
		t.Fatalf("expected timeout flag: %v", se)
	}
	if o.State() != StateFailed {
		t.Fatalf("state = %s", o.State())
	}
}

func TestPresentationDelayIsInjectable(t *testing.T) {
	o := NewOrchestrator(&stubExecutor{result: SampleResult(time.Now())})
	o.PresentationDelay = time.Hour
	var slept time.Duration
	o.sleep = func(ctx context.Context, d time.Duration) { slept = d }

	if _, err := o.Run(context.Background(), "101", DefaultOptions()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if slept != time.Hour {
		t.Fatalf("slept = %v", slept)
	}
}

func TestMockExecutorHonorsCancel(t *testing.T) {
	m := &MockExecutor{Latency: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Scan(ctx, "101", DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
