package keeper

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EscrowMetrics holds all Prometheus metrics for the escrow module
type EscrowMetrics struct {
	Created  *prometheus.CounterVec
	ToppedUp *prometheus.CounterVec
	Approved prometheus.Counter
	Refunded prometheus.Counter
	Failures *prometheus.CounterVec
}

var (
	escrowMetricsOnce sync.Once
	escrowMetrics     *EscrowMetrics
)

// NewEscrowMetrics creates and registers escrow metrics (singleton pattern)
func NewEscrowMetrics() *EscrowMetrics {
	escrowMetricsOnce.Do(func() {
		escrowMetrics = &EscrowMetrics{
			Created: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "diogo",
					Subsystem: "escrow",
					Name:      "created_total",
					Help:      "Total escrows created, by deposit asset kind",
				},
				[]string{"asset"},
			),
			ToppedUp: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "diogo",
					Subsystem: "escrow",
					Name:      "topped_up_total",
					Help:      "Total escrow top-ups, by deposit asset kind",
				},
				[]string{"asset"},
			),
			Approved: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "diogo",
					Subsystem: "escrow",
					Name:      "approved_total",
					Help:      "Total escrows released to their recipient",
				},
			),
			Refunded: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "diogo",
					Subsystem: "escrow",
					Name:      "refunded_total",
					Help:      "Total escrows returned to their source",
				},
			),
			Failures: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "diogo",
					Subsystem: "escrow",
					Name:      "failures_total",
					Help:      "Total rejected escrow messages, by message type and error code",
				},
				[]string{"type", "codespace", "code"},
			),
		}
	})
	return escrowMetrics
}

func codeLabel(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}
