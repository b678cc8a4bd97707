package prices

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/skrobi/price/pkg/models"
)

// ErrAlreadyRunning is returned by Start while a batch run is in progress;
// only one run may exist at a time.
var ErrAlreadyRunning = errors.New("price fetch already in progress")

// DefaultThrottle is the pause between consecutive link fetches. It paces
// the backend and is not a correctness requirement.
const DefaultThrottle = 100 * time.Millisecond

// ReloadDelay is how long after a completed run the UI waits before
// reloading its data from the backend.
const ReloadDelay = 3 * time.Second

// RunState is a snapshot of the batch loop's progress.
type RunState struct {
	Running         bool
	CancelRequested bool
	Current         int
	Total           int
}

// Outcome describes how a batch run ended.
type Outcome int

const (
	// OutcomeCompleted means the loop exhausted all links (or the backend
	// signalled completion early).
	OutcomeCompleted Outcome = iota
	// OutcomeStopped means cancellation was requested by the user.
	OutcomeStopped
	// OutcomeNothingToDo means there were no links to process.
	OutcomeNothingToDo
	// OutcomeFailed means the run could not start at all.
	OutcomeFailed
)

// BatchClient is the slice of the API client the batch loop needs.
type BatchClient interface {
	LinksCount(ctx context.Context) (int, error)
	FetchPriceAt(ctx context.Context, index int) (*models.FetchResult, error)
}

// ResultRenderer consumes each processed result. *Renderer satisfies it.
type ResultRenderer interface {
	Render(result *models.FetchResult)
}

// Reporter receives progress, log lines, and the final outcome of a run.
// Implementations must be safe to call from the runner's goroutine.
type Reporter interface {
	Progress(done, total, percent int)
	Log(line string)
	LogError(line string)
	Done(outcome Outcome, err error)
}

// Runner drives one sequential, cancellable pass over all pending links.
// It is the sole mutator of its run state; fetches are never concurrent
// and cancellation is polled at iteration boundaries only, so an in-flight
// request always finishes before a stop takes effect.
type Runner struct {
	client   BatchClient
	renderer ResultRenderer
	reporter Reporter
	limiter  *rate.Limiter

	mu    sync.Mutex
	state RunState
}

// NewRunner creates a batch runner. A non-positive throttle falls back to
// DefaultThrottle.
func NewRunner(client BatchClient, renderer ResultRenderer, reporter Reporter, throttle time.Duration) *Runner {
	if throttle <= 0 {
		throttle = DefaultThrottle
	}
	return &Runner{
		client:   client,
		renderer: renderer,
		reporter: reporter,
		limiter:  rate.NewLimiter(rate.Every(throttle), 1),
	}
}

// Status returns a snapshot of the current run state.
func (r *Runner) Status() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Cancel requests a cooperative stop. The current fetch is allowed to
// finish; remaining indices are never requested.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Running {
		r.state.CancelRequested = true
	}
}

// Start runs the batch loop to completion. It returns ErrAlreadyRunning if
// a run is active. The run state is reset on every exit path.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state.Running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.state = RunState{Running: true}
	r.mu.Unlock()

	// The reset must happen no matter how the run ends, so the UI can
	// always restore its idle controls.
	defer func() {
		r.mu.Lock()
		r.state = RunState{}
		r.mu.Unlock()
	}()

	total, err := r.client.LinksCount(ctx)
	if err != nil {
		err = fmt.Errorf("failed to get links count: %w", err)
		r.reporter.LogError(err.Error())
		r.reporter.Done(OutcomeFailed, err)
		return err
	}

	if total == 0 {
		r.reporter.Log("❌ No links to process")
		r.reporter.Done(OutcomeNothingToDo, nil)
		return nil
	}

	r.mu.Lock()
	r.state.Total = total
	r.mu.Unlock()

	r.reporter.Log(fmt.Sprintf("Preparing... (%d links to process)", total))

	for i := 0; i < total; i++ {
		if r.stopRequested(ctx) {
			r.reporter.Log("⏹️ Stopped by user")
			r.reporter.Done(OutcomeStopped, nil)
			return nil
		}

		r.mu.Lock()
		r.state.Current = i
		r.mu.Unlock()

		percent := int(math.Round(float64(i+1) / float64(total) * 100))
		r.reporter.Progress(i+1, total, percent)

		result, err := r.client.FetchPriceAt(ctx, i)
		if err != nil {
			// A single transport failure never aborts the batch.
			r.reporter.LogError(fmt.Sprintf("💥 Fetch error: %v", err))
		} else if result.Complete() {
			// Server ran out of links.
			break
		} else {
			r.renderer.Render(result)
			r.reporter.Log(SummaryLine(result))
		}

		// Pacing delay before the next index. A context error here is
		// picked up by the stop check at the top of the loop.
		_ = r.limiter.Wait(ctx)
	}

	// A cancel during the final fetch still counts as a stop; the success
	// report is reserved for runs that finish without one.
	if r.stopRequested(ctx) {
		r.reporter.Log("⏹️ Stopped by user")
		r.reporter.Done(OutcomeStopped, nil)
		return nil
	}

	r.reporter.Log("✅ All prices processed")
	r.reporter.Done(OutcomeCompleted, nil)
	return nil
}

func (r *Runner) stopRequested(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.CancelRequested
}
