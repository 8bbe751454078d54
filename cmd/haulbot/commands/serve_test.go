package commands

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/haulbot/internal/model"
	"github.com/nurpe/haulbot/internal/scheduler"
)

type slowSweeper struct {
	started  chan struct{}
	finished atomic.Bool
}

func (s *slowSweeper) ExpireSweep(context.Context, time.Time) []model.Contract {
	select {
	case s.started <- struct{}{}:
	default:
	}
	time.Sleep(50 * time.Millisecond)
	s.finished.Store(true)
	return nil
}

func (s *slowSweeper) RetentionSweep(context.Context, time.Time) []model.Contract {
	return nil
}

func TestRunWaitsForSweeper(t *testing.T) {
	log = zerolog.Nop()
	sweeps := &slowSweeper{started: make(chan struct{}, 1)}
	sweeper := scheduler.NewSweeper(sweeps, time.Hour, zerolog.Nop())
	server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, server, sweeper) }()

	select {
	case <-sweeps.started:
	case <-time.After(time.Second):
		t.Fatal("sweep did not start")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
	assert.True(t, sweeps.finished.Load())
}

func TestRunReturnsListenError(t *testing.T) {
	log = zerolog.Nop()
	sweeper := scheduler.NewSweeper(&slowSweeper{started: make(chan struct{}, 1)}, time.Hour, zerolog.Nop())
	server := &http.Server{Addr: "256.0.0.1:bad", Handler: http.NotFoundHandler()}

	err := run(context.Background(), server, sweeper)
	assert.Error(t, err)
}
