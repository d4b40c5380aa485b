package scheduler

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/tasks"
)

type fakeCleaner struct {
	mu        sync.Mutex
	calls     int
	retention time.Duration
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.retention = retention
	return 2, nil
}

func (f *fakeCleaner) LogMaintenance(action, description string, err error) {}

func TestValidateCronSchedule(t *testing.T) {
	assert.NoError(t, ValidateCronSchedule("0 3 * * *"))
	assert.NoError(t, ValidateCronSchedule("*/5 * * * *"))
	assert.Error(t, ValidateCronSchedule("not a schedule"))
	assert.Error(t, ValidateCronSchedule("0 0 3 * * *"))
}

func TestAuditCleanupScheduler_StartStop(t *testing.T) {
	s := NewAuditCleanupScheduler("0 3 * * *", 30, nil, &fakeCleaner{})

	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 3, next.Hour())

	// Starting twice is a no-op.
	require.NoError(t, s.Start(ctx))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestAuditCleanupScheduler_StopsWithContext(t *testing.T) {
	s := NewAuditCleanupScheduler("0 3 * * *", 30, nil, &fakeCleaner{})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	require.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestAuditCleanupScheduler_InvalidSchedule(t *testing.T) {
	s := NewAuditCleanupScheduler("every day", 30, nil, &fakeCleaner{})

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule")
	assert.False(t, s.IsRunning())
}

func TestAuditCleanupScheduler_RunNowInline(t *testing.T) {
	cleaner := &fakeCleaner{}
	s := NewAuditCleanupScheduler("0 3 * * *", 7, nil, cleaner)

	s.RunNow(context.Background())

	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)
}

func TestAuditCleanupScheduler_RunNowEnqueues(t *testing.T) {
	cleaner := &fakeCleaner{}
	client, err := tasks.NewClient(filepath.Join(t.TempDir(), "library.db"), tasks.DefaultConfig(), cleaner)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	s := NewAuditCleanupScheduler("0 3 * * *", 7, client, cleaner)
	s.RunNow(context.Background())

	// Workers are not started, so nothing runs inline.
	assert.Equal(t, 0, cleaner.calls)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	require.Eventually(t, func() bool {
		cleaner.mu.Lock()
		defer cleaner.mu.Unlock()
		return cleaner.calls == 1
	}, 5*time.Second, 50*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	client.Stop(stopCtx)
}
