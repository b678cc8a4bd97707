package prices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skrobi/price/pkg/models"
)

type fakeBatchClient struct {
	total      int
	countErr   error
	errAt      map[int]error
	completeAt int // index at which the server signals "complete"; -1 for never
	fetched    []int
	onFetch    func(index int)
}

func newFakeBatchClient(total int) *fakeBatchClient {
	return &fakeBatchClient{total: total, completeAt: -1}
}

func (f *fakeBatchClient) LinksCount(_ context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.total, nil
}

func (f *fakeBatchClient) FetchPriceAt(_ context.Context, index int) (*models.FetchResult, error) {
	f.fetched = append(f.fetched, index)
	if f.onFetch != nil {
		f.onFetch(index)
	}
	if err, ok := f.errAt[index]; ok {
		return nil, err
	}
	if f.completeAt >= 0 && index >= f.completeAt {
		return &models.FetchResult{Status: models.StatusComplete}, nil
	}
	return &models.FetchResult{
		Status:      models.StatusProcessed,
		LinkIndex:   index,
		Success:     true,
		ProductName: fmt.Sprintf("product-%d", index),
		ShopID:      "shop-a",
		Price:       models.Amount(float64(index) + 0.99),
		Currency:    "PLN",
		PriceType:   models.PriceTypeRegular,
	}, nil
}

type fakeRenderer struct {
	rendered []*models.FetchResult
}

func (f *fakeRenderer) Render(result *models.FetchResult) {
	f.rendered = append(f.rendered, result)
}

type recordingReporter struct {
	percents []int
	logs     []string
	errLogs  []string
	outcome  Outcome
	doneErr  error
	done     int
}

func (r *recordingReporter) Progress(done, total, percent int) {
	r.percents = append(r.percents, percent)
}

func (r *recordingReporter) Log(line string)      { r.logs = append(r.logs, line) }
func (r *recordingReporter) LogError(line string) { r.errLogs = append(r.errLogs, line) }

func (r *recordingReporter) Done(outcome Outcome, err error) {
	r.outcome = outcome
	r.doneErr = err
	r.done++
}

func (r *recordingReporter) hasLog(fragment string) bool {
	for _, line := range r.logs {
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}

const testThrottle = time.Millisecond

func TestRunWithNoLinks(t *testing.T) {
	client := newFakeBatchClient(0)
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	err := runner.Start(context.Background())
	require.NoError(t, err)

	assert.Empty(t, client.fetched, "no fetch requests for an empty batch")
	assert.Equal(t, OutcomeNothingToDo, reporter.outcome)
	assert.Equal(t, 1, reporter.done)
	assert.True(t, reporter.hasLog("No links to process"))
	assert.False(t, runner.Status().Running)
}

func TestRunCompletesAndReportsProgress(t *testing.T) {
	client := newFakeBatchClient(3)
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	err := runner.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, client.fetched)
	assert.Len(t, renderer.rendered, 3)
	assert.Equal(t, []int{33, 67, 100}, reporter.percents, "percentages rounded to nearest integer")
	assert.Equal(t, OutcomeCompleted, reporter.outcome)
	assert.True(t, reporter.hasLog("All prices processed"))
	assert.False(t, runner.Status().Running)
}

func TestCancelStopsRemainingIndices(t *testing.T) {
	client := newFakeBatchClient(5)
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	// Request cancellation while index 1 is being fetched; the in-flight
	// request finishes, indices above 1 are never requested.
	client.onFetch = func(index int) {
		if index == 1 {
			runner.Cancel()
		}
	}

	err := runner.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, client.fetched)
	assert.Equal(t, OutcomeStopped, reporter.outcome)
	assert.True(t, reporter.hasLog("Stopped by user"))
	assert.False(t, runner.Status().Running)
}

func TestCancelDuringLastFetchReportsStopped(t *testing.T) {
	client := newFakeBatchClient(1)
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	// The loop exhausts all indices, but the user asked for a stop while
	// the last fetch was in flight. That must not read as success.
	client.onFetch = func(int) {
		runner.Cancel()
	}

	err := runner.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0}, client.fetched)
	assert.Equal(t, OutcomeStopped, reporter.outcome)
	assert.True(t, reporter.hasLog("Stopped by user"))
	assert.False(t, reporter.hasLog("All prices processed"))
}

func TestServerCompleteEndsLoopEarly(t *testing.T) {
	client := newFakeBatchClient(5)
	client.completeAt = 2
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	err := runner.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, client.fetched)
	assert.Len(t, renderer.rendered, 2, "the complete marker is not rendered")
	assert.Equal(t, OutcomeCompleted, reporter.outcome)
}

func TestSingleFetchErrorDoesNotAbortRun(t *testing.T) {
	client := newFakeBatchClient(3)
	client.errAt = map[int]error{1: errors.New("connection reset")}
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	err := runner.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, client.fetched)
	assert.Len(t, renderer.rendered, 2)
	require.Len(t, reporter.errLogs, 1)
	assert.Contains(t, reporter.errLogs[0], "connection reset")
	assert.Equal(t, OutcomeCompleted, reporter.outcome)
}

func TestLinksCountFailure(t *testing.T) {
	client := newFakeBatchClient(0)
	client.countErr = errors.New("service unavailable")
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	err := runner.Start(context.Background())
	require.Error(t, err)

	assert.Equal(t, OutcomeFailed, reporter.outcome)
	assert.Error(t, reporter.doneErr)
	assert.False(t, runner.Status().Running, "state is reset even when the run fails to start")
}

func TestStartWhileRunningReturnsError(t *testing.T) {
	client := newFakeBatchClient(1)
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	entered := make(chan struct{})
	release := make(chan struct{})
	client.onFetch = func(int) {
		close(entered)
		<-release
	}

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- runner.Start(context.Background())
	}()

	<-entered
	assert.True(t, runner.Status().Running)
	assert.ErrorIs(t, runner.Start(context.Background()), ErrAlreadyRunning)

	close(release)
	require.NoError(t, <-firstDone)
	assert.False(t, runner.Status().Running)
}

func TestRunnerStateDuringRun(t *testing.T) {
	client := newFakeBatchClient(2)
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	var observed []RunState
	client.onFetch = func(int) {
		observed = append(observed, runner.Status())
	}

	assert.False(t, runner.Status().Running, "not running before start")
	require.NoError(t, runner.Start(context.Background()))

	require.Len(t, observed, 2)
	for i, state := range observed {
		assert.True(t, state.Running)
		assert.Equal(t, i, state.Current)
		assert.Equal(t, 2, state.Total)
	}
	assert.False(t, runner.Status().Running, "not running after completion")
}

func TestContextCancellationStopsRun(t *testing.T) {
	client := newFakeBatchClient(5)
	renderer := &fakeRenderer{}
	reporter := &recordingReporter{}
	runner := NewRunner(client, renderer, reporter, testThrottle)

	ctx, cancel := context.WithCancel(context.Background())
	client.onFetch = func(index int) {
		if index == 0 {
			cancel()
		}
	}

	require.NoError(t, runner.Start(ctx))
	assert.Equal(t, []int{0}, client.fetched)
	assert.Equal(t, OutcomeStopped, reporter.outcome)
	assert.False(t, runner.Status().Running)
}
