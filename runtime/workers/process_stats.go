package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"presence-chat/observability"

	"github.com/shirou/gopsutil/process"
)

// ProcessStatsWorker samples the server's own CPU and memory into the process gauges.
type ProcessStatsWorker struct {
	log      *slog.Logger
	metrics  *observability.Metrics
	interval time.Duration
}

func NewProcessStatsWorker(log *slog.Logger, metrics *observability.Metrics, interval time.Duration) *ProcessStatsWorker {
	return &ProcessStatsWorker{log: log, metrics: metrics, interval: interval}
}

func (w *ProcessStatsWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.sample(p); err != nil {
				w.log.Debug("Failed to collect self stats", "error", err)
			}
		}
	}
}

func (w *ProcessStatsWorker) sample(p *process.Process) error {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return err
	}
	w.metrics.ProcessSample(cpuPercent, memInfo.RSS)
	return nil
}
