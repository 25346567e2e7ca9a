package pstream

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "pstream"

// metrics instruments one stream. A nil *metrics is valid and records
// nothing, so the engines call its methods unconditionally.
type metrics struct {
	bytesRead      prometheus.Counter
	bytesWritten   prometheus.Counter
	framesSent     *prometheus.CounterVec
	framesReceived *prometheus.CounterVec
	deaths         *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, streamID string) *metrics {
	if reg == nil {
		return nil
	}

	labels := prometheus.Labels{"stream": streamID}
	m := &metrics{
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "bytes_read_total",
			Help:        "Total payload and header bytes read from the channel",
			ConstLabels: labels,
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "bytes_written_total",
			Help:        "Total payload and header bytes written to the channel",
			ConstLabels: labels,
		}),
		framesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "frames_sent_total",
			Help:        "Frames fully transmitted, by frame kind",
			ConstLabels: labels,
		}, []string{"kind"}),
		framesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "frames_received_total",
			Help:        "Frames fully received, by frame kind",
			ConstLabels: labels,
		}, []string{"kind"}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "deaths_total",
			Help:        "Stream deaths, by cause",
			ConstLabels: labels,
		}, []string{"cause"}),
	}

	reg.MustRegister(m.bytesRead, m.bytesWritten, m.framesSent, m.framesReceived, m.deaths)
	return m
}

func (m *metrics) addBytesRead(n int) {
	if m == nil {
		return
	}
	m.bytesRead.Add(float64(n))
}

func (m *metrics) addBytesWritten(n int) {
	if m == nil {
		return
	}
	m.bytesWritten.Add(float64(n))
}

func (m *metrics) frameSent(kind string) {
	if m == nil {
		return
	}
	m.framesSent.WithLabelValues(kind).Inc()
}

func (m *metrics) frameReceived(kind string) {
	if m == nil {
		return
	}
	m.framesReceived.WithLabelValues(kind).Inc()
}

func (m *metrics) died(err error) {
	if m == nil {
		return
	}
	m.deaths.WithLabelValues(deathCause(err)).Inc()
}

func deathCause(err error) string {
	switch {
	case errors.Is(err, ErrFrameTooLarge):
		return "oversized_frame"
	case errors.Is(err, ErrPeerClosed):
		return "peer_closed"
	default:
		return "io_error"
	}
}
