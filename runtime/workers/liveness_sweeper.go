package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"presence-chat/domain"
	"presence-chat/errors"
	"presence-chat/observability"
	"presence-chat/repositories"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
)

// LivenessSweeper evicts participants that stopped sending heartbeats.
// Each cycle removes the first stale participant found, or every stale one in batch mode.
// A failed cycle is logged and the next tick tries again.
type LivenessSweeper struct {
	log          *slog.Logger
	participants repositories.IParticipantRepository
	departures   repositories.IDepartureRepository
	clock        clockwork.Clock
	metrics      *observability.Metrics
	interval     time.Duration
	threshold    time.Duration
	batch        bool
}

func NewLivenessSweeper(
	log *slog.Logger,
	participants repositories.IParticipantRepository,
	departures repositories.IDepartureRepository,
	clock clockwork.Clock,
	metrics *observability.Metrics,
	interval, threshold time.Duration,
	batch bool,
) *LivenessSweeper {
	return &LivenessSweeper{
		log:          log,
		participants: participants,
		departures:   departures,
		clock:        clock,
		metrics:      metrics,
		interval:     interval,
		threshold:    threshold,
		batch:        batch,
	}
}

func (w *LivenessSweeper) Run(ctx context.Context) error {
	w.log.Info("Starting liveness sweeper", "interval", w.interval, "threshold", w.threshold, "batch", w.batch)
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping liveness sweeper")
			return nil
		case <-ticker.Chan():
			w.Sweep()
		}
	}
}

// Sweep runs one cycle and returns the names it evicted.
// A participant is only evicted if its LastSeen is still the one observed in the snapshot.
func (w *LivenessSweeper) Sweep() []string {
	now := w.clock.Now()
	participants, err := w.participants.List()
	if err != nil {
		w.log.Warn("Sweep skipped, participants unavailable", "error", err)
		w.metrics.SweepCycle("failed")
		return nil
	}

	stale := lo.Filter(participants, func(p domain.Participant, _ int) bool {
		return p.IsStale(now, w.threshold)
	})
	if len(stale) == 0 {
		w.metrics.SweepCycle("idle")
		return nil
	}
	if !w.batch {
		stale = stale[:1]
	}

	var evicted []string
	failed := 0
	for _, participant := range stale {
		status := domain.NewStatusMessage(participant.Name, domain.LeftText, now)
		_, err := w.departures.DepartIfUnchanged(participant.Name, participant.LastSeen, status)
		switch {
		case err == nil:
		case stderrors.Is(err, errors.ErrRefreshed):
			w.log.Debug("Participant seen again, kept", "name", participant.Name)
			continue
		case stderrors.Is(err, errors.ErrNotFound):
			w.log.Debug("Participant already gone", "name", participant.Name)
			continue
		default:
			w.log.Warn("Eviction failed", "name", participant.Name, "error", err)
			failed++
			continue
		}
		w.metrics.MessageAppended(domain.KindStatus)
		w.metrics.ParticipantLeft("evicted")
		w.log.Info("Participant evicted", "name", participant.Name, "lastSeen", participant.LastSeen)
		evicted = append(evicted, participant.Name)
	}

	switch {
	case len(evicted) > 0:
		w.metrics.SweepCycle("evicted")
	case failed > 0:
		w.metrics.SweepCycle("failed")
	default:
		w.metrics.SweepCycle("idle")
	}
	return evicted
}
