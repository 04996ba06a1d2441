package monitoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEnder struct {
	calls atomic.Int32
	err   error
}

func (c *countingEnder) EndExpired(ctx context.Context) (int, error) {
	c.calls.Add(1)
	return 2, c.err
}

func TestNewSweeperRejectsBadSchedule(t *testing.T) {
	_, err := NewSweeper(&countingEnder{}, "not a schedule")
	assert.Error(t, err)
}

func TestRunSweepsImmediatelyAndStops(t *testing.T) {
	ender := &countingEnder{}
	s, err := NewSweeper(ender, "0 0 1 1 *") // far away
	require.NoError(t, err)

	go s.Run()
	assert.Eventually(t, func() bool { return ender.calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	s.Stop()
	assert.Equal(t, int32(1), ender.calls.Load())
}

func TestSweepLogsErrors(t *testing.T) {
	ender := &countingEnder{err: errors.New("db gone")}
	s, err := NewSweeper(ender, "*/5 * * * *")
	require.NoError(t, err)

	assert.NotPanics(t, s.Sweep)
	assert.Equal(t, int32(1), ender.calls.Load())
}
