package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/haulbot/internal/model"
)

// ContractSweeper is implemented by service.ContractService.
type ContractSweeper interface {
	ExpireSweep(ctx context.Context, now time.Time) []model.Contract
	RetentionSweep(ctx context.Context, now time.Time) []model.Contract
}

// Sweeper periodically expires overdue contracts and drops retired ones.
type Sweeper struct {
	contracts ContractSweeper
	interval  time.Duration
	clock     func() time.Time
	log       zerolog.Logger
}

func NewSweeper(contracts ContractSweeper, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		contracts: contracts,
		interval:  interval,
		clock:     time.Now,
		log:       log,
	}
}

func (s *Sweeper) WithClock(clock func() time.Time) *Sweeper {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	if s == nil || s.contracts == nil || s.interval <= 0 {
		return
	}
	s.log.Info().Dur("interval", s.interval).Msg("contract sweeper started")
	s.SweepOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("contract sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs the expiry sweep followed by the retention sweep.
func (s *Sweeper) SweepOnce(ctx context.Context) (expired, removed int) {
	now := s.clock().UTC()
	expired = len(s.contracts.ExpireSweep(ctx, now))
	removed = len(s.contracts.RetentionSweep(ctx, now))
	if expired > 0 || removed > 0 {
		s.log.Debug().Int("expired", expired).Int("removed", removed).Msg("contract sweep finished")
	}
	return expired, removed
}
