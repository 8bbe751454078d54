package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/haulbot/internal/model"
)

type recordingSweeper struct {
	mu        sync.Mutex
	expireAt  []time.Time
	retainAt  []time.Time
	expiredID string
}

func (r *recordingSweeper) ExpireSweep(_ context.Context, now time.Time) []model.Contract {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expireAt = append(r.expireAt, now)
	if r.expiredID == "" {
		return nil
	}
	return []model.Contract{{ID: r.expiredID, Status: model.ContractStatusExpired}}
}

func (r *recordingSweeper) RetentionSweep(_ context.Context, now time.Time) []model.Contract {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retainAt = append(r.retainAt, now)
	return nil
}

func (r *recordingSweeper) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.expireAt)
}

func TestSweepOnceUsesClock(t *testing.T) {
	fixed := time.Date(3310, time.January, 2, 3, 4, 5, 0, time.UTC)
	rec := &recordingSweeper{expiredID: "ABCD1234"}
	s := NewSweeper(rec, time.Minute, zerolog.Nop()).WithClock(func() time.Time { return fixed })

	expired, removed := s.SweepOnce(context.Background())
	assert.Equal(t, 1, expired)
	assert.Equal(t, 0, removed)
	require.Len(t, rec.expireAt, 1)
	assert.Equal(t, fixed, rec.expireAt[0])
	assert.Equal(t, fixed, rec.retainAt[0])
}

func TestRunTicksUntilCancelled(t *testing.T) {
	rec := &recordingSweeper{}
	s := NewSweeper(rec, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return rec.calls() >= 3 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}

	stopped := rec.calls()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, rec.calls())
}

func TestRunDisabledInterval(t *testing.T) {
	rec := &recordingSweeper{}
	NewSweeper(rec, 0, zerolog.Nop()).Run(context.Background())
	assert.Zero(t, rec.calls())
}
