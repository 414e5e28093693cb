package observability

import (
	"strconv"

	"presence-chat/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters exposed on /metrics.
type Metrics struct {
	ParticipantsJoined  prometheus.Counter
	ParticipantsLeft    *prometheus.CounterVec
	MessagesAppended    *prometheus.CounterVec
	SweepCycles         *prometheus.CounterVec
	HTTPResponsesByCode *prometheus.CounterVec
	ProcessCPUPercent   prometheus.Gauge
	ProcessRSSBytes     prometheus.Gauge
}

// NewMetrics creates the counters and registers them on registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		ParticipantsJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_participants_joined_total",
			Help: "Participants registered by a join.",
		}),
		ParticipantsLeft: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_participants_left_total",
			Help: "Participants removed, by reason (evicted, leave).",
		}, []string{"reason"}),
		MessagesAppended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_messages_appended_total",
			Help: "Messages appended to the log, by kind.",
		}, []string{"kind"}),
		SweepCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_sweep_cycles_total",
			Help: "Liveness sweep cycles, by outcome (idle, evicted, failed).",
		}, []string{"outcome"}),
		HTTPResponsesByCode: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_http_responses_total",
			Help: "HTTP responses, by status code.",
		}, []string{"code"}),
		ProcessCPUPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_process_cpu_percent",
			Help: "CPU usage of the server process, last sample.",
		}),
		ProcessRSSBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_process_rss_bytes",
			Help: "Resident memory of the server process, last sample.",
		}),
	}
	registerer.MustRegister(
		m.ParticipantsJoined,
		m.ParticipantsLeft,
		m.MessagesAppended,
		m.SweepCycles,
		m.HTTPResponsesByCode,
		m.ProcessCPUPercent,
		m.ProcessRSSBytes,
	)
	return m
}

func (m *Metrics) MessageAppended(kind domain.Kind) {
	m.MessagesAppended.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) ParticipantLeft(reason string) {
	m.ParticipantsLeft.WithLabelValues(reason).Inc()
}

func (m *Metrics) SweepCycle(outcome string) {
	m.SweepCycles.WithLabelValues(outcome).Inc()
}

func (m *Metrics) HTTPResponse(code int) {
	m.HTTPResponsesByCode.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Metrics) ProcessSample(cpuPercent float64, rssBytes uint64) {
	m.ProcessCPUPercent.Set(cpuPercent)
	m.ProcessRSSBytes.Set(float64(rssBytes))
}
