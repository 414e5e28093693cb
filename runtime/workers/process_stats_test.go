package workers

import (
	"log/slog"
	"os"
	"testing"

	"presence-chat/observability"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/require"
)

func TestProcessStatsWorker_Sample(t *testing.T) {
	req := require.New(t)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	worker := NewProcessStatsWorker(slog.Default(), metrics, sweepInterval)
	p, err := process.NewProcess(int32(os.Getpid()))
	req.NoError(err)

	req.NoError(worker.sample(p))

	req.Positive(testutil.ToFloat64(metrics.ProcessRSSBytes))
}
