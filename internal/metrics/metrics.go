package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	handsStartedCounter      prometheus.Counter
	handsSettledCounter      prometheus.Counter
	rejectedActionsCounter   *prometheus.CounterVec
	droppedDeliveriesCounter prometheus.Counter
	activeLobbiesGauge       prometheus.Gauge
	connectedClientsGauge    prometheus.Gauge
}

func (m *metrics) HandStarted() {
	m.handsStartedCounter.Inc()
}

func (m *metrics) HandSettled() {
	m.handsSettledCounter.Inc()
}

func (m *metrics) ActionRejected(action, reason string) {
	m.rejectedActionsCounter.WithLabelValues(action, reason).Inc()
}

func (m *metrics) DeliveryDropped() {
	m.droppedDeliveriesCounter.Inc()
}

func (m *metrics) SetActiveLobbies(count int) {
	m.activeLobbiesGauge.Set(float64(count))
}

func (m *metrics) ClientConnected() {
	m.connectedClientsGauge.Inc()
}

func (m *metrics) ClientDisconnected() {
	m.connectedClientsGauge.Dec()
}

var Metrics = &metrics{
	handsStartedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "poker_hands_started_total",
		Help: "Total number of hands dealt",
	}),
	handsSettledCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "poker_hands_settled_total",
		Help: "Total number of hands paid out at showdown",
	}),
	rejectedActionsCounter: promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "poker_actions_rejected_total",
		Help: "Player actions rejected by the rules engine",
	}, []string{"action", "reason"}),
	droppedDeliveriesCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "poker_deliveries_dropped_total",
		Help: "State pushes dropped because a subscriber channel was full",
	}),
	activeLobbiesGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poker_active_lobbies",
		Help: "Number of lobbies with a live table",
	}),
	connectedClientsGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "poker_connected_clients",
		Help: "Number of open WebSocket connections",
	}),
}
