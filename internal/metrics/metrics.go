// Package metrics exposes the prometheus counters/gauges that observe the
// simulation and networking layers, grounded on the bounded-cardinality
// style used by fight-club-go's internal/api/observability.go and
// weaveworks-experiments-mballs' peer gauge.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "soccer_tick_duration_seconds",
		Help:    "Time spent in one Soccer.Idle tick",
		Buckets: []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.032},
	})

	packetsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "packets_dropped_total",
		Help: "Inbound datagrams dropped before dispatch",
	}, []string{"reason"}) // bounded: "rate_limit", "truncated", "bad_discriminator"

	packetsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "packets_received_total",
		Help: "Inbound datagrams accepted for dispatch",
	}, []string{"kind"}) // bounded: "metaserver", "lobby", "game_action"

	actorsRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "actors_running",
		Help: "Currently running actor goroutines",
	})

	actorMessageDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "actor_message_duration_seconds",
		Help:    "Time spent in one actor's Receive call",
		Buckets: []float64{0.00005, 0.0001, 0.0002, 0.0005, 0.001, 0.002, 0.005},
	})

	broadcastsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "broadcasts_sent_total",
		Help: "Total subscriber broadcasts sent by the metaserver",
	})

	lobbyMembers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lobby_members",
		Help: "Membership count last reported by any hosted lobby",
	})

	gamesHosted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "games_hosted",
		Help: "Current number of games advertised to the metaserver",
	})
)

// RecordTick records one Soccer.Idle tick's wall-clock duration.
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// RecordPacketDropped increments the drop counter for reason, which must be
// one of "rate_limit", "truncated", "bad_discriminator".
func RecordPacketDropped(reason string) {
	packetsDropped.WithLabelValues(reason).Inc()
}

// RecordPacketReceived increments the accepted-packet counter for kind,
// which must be one of "metaserver", "lobby", "game_action".
func RecordPacketReceived(kind string) {
	packetsReceived.WithLabelValues(kind).Inc()
}

// SetActorsRunning updates the running-actor gauge.
func SetActorsRunning(n int) {
	actorsRunning.Set(float64(n))
}

// IncActorsRunning/DecActorsRunning adjust the running-actor gauge by one,
// for use around an actor's start/stop lifecycle messages.
func IncActorsRunning() { actorsRunning.Inc() }
func DecActorsRunning() { actorsRunning.Dec() }

// RecordActorMessage records how long one actor spent inside Receive for a
// single message, regardless of which actor or message type -- cardinality
// stays bounded at one series while still surfacing mailbox backpressure
// (a Receive that's creeping up drains its queue slower than it fills).
func RecordActorMessage(d time.Duration) {
	actorMessageDuration.Observe(d.Seconds())
}

// RecordBroadcastSent increments the metaserver broadcast counter.
func RecordBroadcastSent() {
	broadcastsSent.Inc()
}

// SetLobbyMembers updates the lobby membership gauge.
func SetLobbyMembers(n int) {
	lobbyMembers.Set(float64(n))
}

// SetGamesHosted updates the hosted-games gauge.
func SetGamesHosted(n int) {
	gamesHosted.Set(float64(n))
}
