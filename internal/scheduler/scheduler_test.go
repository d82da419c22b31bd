package scheduler

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailerseerr/internal/service/tracker"
	"github.com/trailerseerr/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

type countingPoller struct {
	calls atomic.Int32
	block chan struct{}
}

func (p *countingPoller) Poll(context.Context) ([]tracker.PollResult, error) {
	p.calls.Add(1)
	if p.block != nil {
		<-p.block
	}
	return nil, nil
}

func TestStartStop(t *testing.T) {
	s := New(&countingPoller{})
	require.NoError(t, s.Start("*/15 * * * *"))
	assert.True(t, s.IsRunning())

	// Second start is a no-op.
	require.NoError(t, s.Start("not a cron"))

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()
}

func TestStartInvalidExpression(t *testing.T) {
	s := New(&countingPoller{})
	assert.Error(t, s.Start("every now and then"))
	assert.False(t, s.IsRunning())
}

func TestRunNow(t *testing.T) {
	p := &countingPoller{}
	s := New(p)
	s.RunNow()

	assert.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRunJobSkipsOverlap(t *testing.T) {
	p := &countingPoller{block: make(chan struct{})}
	s := New(p)

	s.RunNow()
	require.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	s.runJob()
	assert.Equal(t, int32(1), p.calls.Load())
	close(p.block)
}

func TestNilPoller(t *testing.T) {
	s := New(nil)
	s.runJob()
}
