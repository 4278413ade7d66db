package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pong_rooms_active",
		Help: "Number of live rooms in the registry.",
	})
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pong_connections_active",
		Help: "Number of open websocket connections.",
	})
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_simulation_ticks_total",
		Help: "Simulation ticks executed across all rooms.",
	})
	GoalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pong_goals_total",
		Help: "Balls out of bounds that scored a point.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
