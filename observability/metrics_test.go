package observability

import (
	"testing"

	"presence-chat/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	req := require.New(t)
	metrics := NewMetrics(prometheus.NewRegistry())

	metrics.ParticipantsJoined.Inc()
	metrics.MessageAppended(domain.KindStatus)
	metrics.MessageAppended(domain.KindStatus)
	metrics.ParticipantLeft("evicted")
	metrics.SweepCycle("idle")
	metrics.HTTPResponse(409)
	metrics.ProcessSample(12.5, 2048)

	req.Equal(1.0, testutil.ToFloat64(metrics.ParticipantsJoined))
	req.Equal(2.0, testutil.ToFloat64(metrics.MessagesAppended.WithLabelValues("status")))
	req.Equal(1.0, testutil.ToFloat64(metrics.ParticipantsLeft.WithLabelValues("evicted")))
	req.Equal(1.0, testutil.ToFloat64(metrics.SweepCycles.WithLabelValues("idle")))
	req.Equal(1.0, testutil.ToFloat64(metrics.HTTPResponsesByCode.WithLabelValues("409")))
	req.Equal(12.5, testutil.ToFloat64(metrics.ProcessCPUPercent))
	req.Equal(2048.0, testutil.ToFloat64(metrics.ProcessRSSBytes))
}
