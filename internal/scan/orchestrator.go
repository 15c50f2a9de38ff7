package scan

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the orchestrator lifecycle phase.
type State string

const (
	StateIdle       State = "idle"
	StateScanning   State = "scanning"
	StateDisplaying State = "displaying"
	StateFailed     State = "failed"
)

// ErrScanInFlight is returned when Run is called while a scan is pending.
// Re-entrant starts are rejected, not queued; callers retry after the
// in-flight scan settles.
var ErrScanInFlight = errors.New("scan already in flight")

// Orchestrator drives the scan lifecycle: Idle -> Scanning ->
// (Displaying | Failed) -> Idle on the next Run. At most one scan is in
// flight per orchestrator.
type Orchestrator struct {
	mu    sync.Mutex
	state State

	exec Executor

	// Timeout bounds one scan invocation. Zero means no bound.
	Timeout time.Duration
	// PresentationDelay holds the success path back so a loading
	// indicator can play. Zero (the test default) skips the wait.
	PresentationDelay time.Duration

	sleep func(context.Context, time.Duration)
}

// NewOrchestrator wires an orchestrator around an executor.
func NewOrchestrator(exec Executor) *Orchestrator {
	return &Orchestrator{
		state: StateIdle,
		exec:  exec,
		sleep: sleepCtx,
	}
}

// State reports the current lifecycle phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Run executes one scan. It fails fast with ErrScanInFlight if a scan is
// already pending; that guard is the only observable effect of a
// re-entrant call. Failures are returned as *Error and leave the
// orchestrator in StateFailed; the next Run starts from there as if Idle.
func (o *Orchestrator) Run(ctx context.Context, courseID string, opts Options) (Result, error) {
	o.mu.Lock()
	if o.state == StateScanning {
		o.mu.Unlock()
		return Result{}, ErrScanInFlight
	}
	o.state = StateScanning
	o.mu.Unlock()

	scanCtx := ctx
	cancel := func() {}
	if o.Timeout > 0 {
		scanCtx, cancel = context.WithTimeout(ctx, o.Timeout)
	}
	res, err := o.exec.Scan(scanCtx, courseID, opts)
	cancel()

	if err != nil {
		o.setState(StateFailed)
		return Result{}, &Error{
			CourseID: courseID,
			Timeout:  errors.Is(err, context.DeadlineExceeded),
			Err:      err,
		}
	}

	if o.PresentationDelay > 0 {
		o.sleep(ctx, o.PresentationDelay)
	}
	o.setState(StateDisplaying)
	return res, nil
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
