package syncx

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_RunToCompletion(t *testing.T) {
	task := NewTask(func(ctx context.Context) (int, error) {
		return 21 * 2, nil
	})
	assert.Equal(t, TaskPending, task.State())

	fut, err := task.Start(0)
	require.NoError(t, err)

	v, err := fut.GetTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	assert.Eventually(t, func() bool {
		return task.State() == TaskCompleted
	}, time.Second, time.Millisecond)
	assert.NoError(t, task.Err())
}

func TestTask_FailureCaptured(t *testing.T) {
	boom := errors.New("tts synthesis failed")
	task := NewTask(func(ctx context.Context) (string, error) {
		return "", boom
	})
	task.SetLogger(zerolog.Nop())

	fut, err := task.Start(0)
	require.NoError(t, err)

	_, err = fut.GetTimeout(time.Second)
	require.ErrorIs(t, err, boom)
	assert.Eventually(t, func() bool {
		return task.State() == TaskFailed
	}, time.Second, time.Millisecond)
	assert.ErrorIs(t, task.Err(), boom)
}

func TestTask_PanicBecomesFailure(t *testing.T) {
	task := NewTask(func(ctx context.Context) (int, error) {
		panic("target exploded")
	})
	task.SetLogger(zerolog.Nop())

	fut, err := task.Start(0)
	require.NoError(t, err)

	_, err = fut.GetTimeout(time.Second)
	require.Error(t, err)
	assert.Eventually(t, func() bool {
		return task.State() == TaskFailed
	}, time.Second, time.Millisecond)
}

func TestTask_StartIsOneShot(t *testing.T) {
	task := NewTask(func(ctx context.Context) (int, error) {
		return 0, nil
	})
	_, err := task.Start(0)
	require.NoError(t, err)
	_, err = task.Start(0)
	require.ErrorIs(t, err, ErrTaskStarted)
}

func TestTask_NilTarget(t *testing.T) {
	task := NewTask[int](nil)
	_, err := task.Start(0)
	require.ErrorIs(t, err, ErrNilTarget)
}

func TestTask_CancelPending(t *testing.T) {
	var runs atomic.Int32
	task := NewTask(func(ctx context.Context) (int, error) {
		runs.Add(1)
		return 0, nil
	})

	assert.True(t, task.Cancel())
	assert.Equal(t, TaskCancelled, task.State())

	_, err := task.Start(0)
	require.ErrorIs(t, err, ErrTaskStarted, "a cancelled task cannot start")

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load(), "target must never execute")
}

func TestTask_CancelDuringDelay(t *testing.T) {
	var runs atomic.Int32
	task := NewTask(func(ctx context.Context) (int, error) {
		runs.Add(1)
		return 0, nil
	})

	fut, err := task.Start(500 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, TaskRunning, task.State())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, task.Cancel())
	assert.Equal(t, TaskCancelled, task.State())

	_, err = fut.GetTimeout(time.Second)
	require.ErrorIs(t, err, ErrTaskCancelled)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load(), "cancel during the delay suppresses the run")
}

func TestTask_CancelRunning(t *testing.T) {
	entered := NewEvent()
	task := NewTask(func(ctx context.Context) (int, error) {
		entered.Set()
		<-ctx.Done()
		return 0, ctx.Err()
	})

	fut, err := task.Start(0)
	require.NoError(t, err)
	require.True(t, entered.Wait(time.Second))

	assert.True(t, task.Cancel())
	assert.Equal(t, TaskCancelled, task.State())

	_, err = fut.GetTimeout(time.Second)
	require.ErrorIs(t, err, ErrTaskCancelled)
}

func TestTask_CancelTerminalIsNoop(t *testing.T) {
	task := NewTask(func(ctx context.Context) (int, error) {
		return 1, nil
	})
	fut, err := task.Start(0)
	require.NoError(t, err)
	_, err = fut.GetTimeout(time.Second)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return task.State() == TaskCompleted
	}, time.Second, time.Millisecond)
	assert.False(t, task.Cancel(), "cancel in a terminal state is a no-op")
	assert.Equal(t, TaskCompleted, task.State())
}

func TestTask_DelayedExecution(t *testing.T) {
	start := time.Now()
	task := NewTask(func(ctx context.Context) (time.Duration, error) {
		return time.Since(start), nil
	})

	fut, err := task.Start(60 * time.Millisecond)
	require.NoError(t, err)

	elapsed, err := fut.GetTimeout(time.Second)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond, "target must run after the delay")
}

func TestTask_ExecutionTime(t *testing.T) {
	task := NewTask(func(ctx context.Context) (int, error) {
		time.Sleep(40 * time.Millisecond)
		return 0, nil
	})
	assert.Zero(t, task.ExecutionTime(), "no time recorded before start")

	fut, err := task.Start(0)
	require.NoError(t, err)
	_, err = fut.GetTimeout(time.Second)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return task.State() == TaskCompleted
	}, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, task.ExecutionTime(), 40*time.Millisecond)
}

func TestTaskState_String(t *testing.T) {
	tests := []struct {
		state TaskState
		want  string
	}{
		{TaskPending, "PENDING"},
		{TaskRunning, "RUNNING"},
		{TaskCompleted, "COMPLETED"},
		{TaskFailed, "FAILED"},
		{TaskCancelled, "CANCELLED"},
		{TaskState(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}
